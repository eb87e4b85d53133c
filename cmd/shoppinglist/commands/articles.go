package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/dukerupert/shoppinglist/internal/model"
	"github.com/dukerupert/shoppinglist/internal/store"
)

func newArticlesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "articles",
		Short: "Work with blogful_articles rows",
	}
	cmd.AddCommand(
		newArticlesListCmd(a),
		newArticlesGetCmd(a),
		newArticlesAddCmd(a),
		newArticlesDeleteCmd(a),
	)
	return cmd
}

func (a *app) articles() *store.ArticleStore {
	return store.NewArticleStore(a.dbDriver.Placeholder())
}

func newArticlesListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every article",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := a.conn(ctx)
			if err != nil {
				return err
			}
			articles, err := a.articles().ListAll(ctx, db)
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return printJSON(a.out, articles)
			}
			if len(articles) == 0 {
				printWarning(a.out, "no articles")
				return nil
			}
			return printArticles(a.out, articles)
		},
	}
}

func newArticlesGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			db, err := a.conn(ctx)
			if err != nil {
				return err
			}
			article, err := a.articles().GetByID(ctx, db, id)
			if err != nil {
				return err
			}
			if article == nil {
				printWarning(a.out, "article %d not found", id)
				return nil
			}
			return printJSON(a.out, article)
		},
	}
}

func newArticlesAddCmd(a *app) *cobra.Command {
	var title, content, published string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Insert an article",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var publishedAt time.Time
			if published != "" {
				t, err := time.Parse(time.RFC3339, published)
				if err != nil {
					return err
				}
				publishedAt = t
			}
			ctx := cmd.Context()
			db, err := a.conn(ctx)
			if err != nil {
				return err
			}
			created, err := a.articles().Insert(ctx, db, model.ArticleChanges{Title: title, Content: content}, publishedAt)
			if err != nil {
				return err
			}
			a.logger.Info("article inserted", "component", "articles", "id", created.ID)
			if a.jsonOutput {
				return printJSON(a.out, created)
			}
			printSuccess(a.out, "added article %d (%s)", created.ID, created.Title)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Article title (required)")
	cmd.Flags().StringVar(&content, "content", "", "Article body")
	cmd.Flags().StringVar(&published, "published", "", "RFC 3339 timestamp (default now)")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newArticlesDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			db, err := a.conn(ctx)
			if err != nil {
				return err
			}
			if err := a.articles().Delete(ctx, db, id); err != nil {
				return err
			}
			a.logger.Info("article deleted", "component", "articles", "id", id)
			printSuccess(a.out, "deleted article %d", id)
			return nil
		},
	}
}
