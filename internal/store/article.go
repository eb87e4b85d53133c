package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/dukerupert/shoppinglist/internal/model"
)

const articleTable = "blogful_articles"

var articleCols = []string{"id", "title", "content", "date_published"}

type ArticleStore struct {
	sb sq.StatementBuilderType
}

func NewArticleStore(ph sq.PlaceholderFormat) *ArticleStore {
	return &ArticleStore{sb: sq.StatementBuilder.PlaceholderFormat(ph)}
}

func scanArticle(scanner interface{ Scan(...any) error }) (*model.Article, error) {
	var a model.Article
	if err := scanner.Scan(&a.ID, &a.Title, &a.Content, timestamp{&a.DatePublished}); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *ArticleStore) ListAll(ctx context.Context, db DBTX) ([]model.Article, error) {
	query, args, err := s.sb.Select(articleCols...).From(articleTable).OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list articles: %w", err)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	articles := []model.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return articles, nil
}

func (s *ArticleStore) GetByID(ctx context.Context, db DBTX, id int64) (*model.Article, error) {
	query, args, err := s.sb.Select(articleCols...).From(articleTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get article: %w", err)
	}

	a, err := scanArticle(db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get article %d: %w", id, err)
	}
	return a, nil
}

// Insert lets the database assign the id. A zero publishedAt also takes the
// column default.
func (s *ArticleStore) Insert(ctx context.Context, db DBTX, article model.ArticleChanges, publishedAt time.Time) (*model.Article, error) {
	if err := article.Validate(); err != nil {
		return nil, err
	}

	cols := []string{"title", "content"}
	vals := []any{article.Title, article.Content}
	if !publishedAt.IsZero() {
		cols = append(cols, "date_published")
		vals = append(vals, model.NormalizeTime(publishedAt))
	}

	query, args, err := s.sb.Insert(articleTable).
		Columns(cols...).
		Values(vals...).
		Suffix("RETURNING " + strings.Join(articleCols, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert article: %w", err)
	}

	a, err := scanArticle(db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if isDuplicateKey(err) {
			return nil, fmt.Errorf("insert article: %w: %w", ErrDuplicateKey, err)
		}
		return nil, fmt.Errorf("insert article: %w", err)
	}
	return a, nil
}

func (s *ArticleStore) Update(ctx context.Context, db DBTX, id int64, changes model.ArticleChanges) error {
	if err := changes.Validate(); err != nil {
		return err
	}

	query, args, err := s.sb.Update(articleTable).
		Set("title", changes.Title).
		Set("content", changes.Content).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update article: %w", err)
	}

	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update article %d: %w", id, err)
	}
	return nil
}

func (s *ArticleStore) Delete(ctx context.Context, db DBTX, id int64) error {
	query, args, err := s.sb.Delete(articleTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete article: %w", err)
	}

	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete article %d: %w", id, err)
	}
	return nil
}
