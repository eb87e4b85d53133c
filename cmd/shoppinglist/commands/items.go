package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dukerupert/shoppinglist/internal/category"
	"github.com/dukerupert/shoppinglist/internal/model"
	"github.com/dukerupert/shoppinglist/internal/store"
)

// seedItems are the fixtures the shopping list drills start from.
var seedItems = []model.ShoppingListItem{
	{ID: 1, Name: "mango", Category: "Snack", Checked: false, Price: "12.33", DateAdded: time.Date(2029, 1, 21, 16, 28, 32, 615_000_000, time.UTC)},
	{ID: 2, Name: "coffee", Category: "Breakfast", Checked: true, Price: "22.99", DateAdded: time.Date(2029, 1, 10, 16, 28, 32, 615_000_000, time.UTC)},
	{ID: 3, Name: "apples", Category: "Lunch", Checked: false, Price: "5.99", DateAdded: time.Date(2029, 1, 5, 16, 28, 32, 615_000_000, time.UTC)},
}

type itemFlags struct {
	id        int64
	name      string
	category  string
	checked   bool
	price     string
	dateAdded string
}

func (f *itemFlags) register(cmd *cobra.Command, withID bool) {
	if withID {
		cmd.Flags().Int64Var(&f.id, "id", 0, "Item id (required)")
		_ = cmd.MarkFlagRequired("id")
	}
	cmd.Flags().StringVar(&f.name, "name", "", "Item name (required)")
	cmd.Flags().StringVar(&f.category, "category", "", "Category; suggested from the name when omitted")
	cmd.Flags().BoolVar(&f.checked, "checked", false, "Mark the item as purchased")
	cmd.Flags().StringVar(&f.price, "price", "0.00", "Price as a decimal amount")
	cmd.Flags().StringVar(&f.dateAdded, "date-added", "", "RFC 3339 timestamp (default now)")
	_ = cmd.MarkFlagRequired("name")
}

func (f *itemFlags) changes() (model.ItemChanges, error) {
	c := model.ItemChanges{
		Name:      f.name,
		Category:  f.category,
		Checked:   f.checked,
		Price:     f.price,
		DateAdded: time.Now(),
	}
	if c.Category == "" {
		c.Category = category.Suggest(f.name)
	}
	if f.dateAdded != "" {
		t, err := time.Parse(time.RFC3339, f.dateAdded)
		if err != nil {
			return c, fmt.Errorf("invalid --date-added: %w", err)
		}
		c.DateAdded = t
	}
	return c, nil
}

// warnCategory flags an explicit --category outside the known set. The
// store accepts any non-empty category.
func (a *app) warnCategory(c string) {
	if category.Valid(c) {
		return
	}
	printWarning(a.errOut, "unknown category %q (known: %s)", c, strings.Join(category.All, ", "))
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return id, nil
}

func newItemsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Work with shopping_list rows",
	}
	cmd.AddCommand(
		newItemsListCmd(a),
		newItemsGetCmd(a),
		newItemsAddCmd(a),
		newItemsUpdateCmd(a),
		newItemsDeleteCmd(a),
		newItemsSeedCmd(a),
	)
	return cmd
}

func (a *app) items() *store.ShoppingListStore {
	return store.NewShoppingListStore(a.dbDriver.Placeholder())
}

func newItemsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := a.conn(ctx)
			if err != nil {
				return err
			}
			items, err := a.items().ListAll(ctx, db)
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return printJSON(a.out, items)
			}
			if len(items) == 0 {
				printWarning(a.out, "shopping list is empty")
				return nil
			}
			return printItems(a.out, items)
		},
	}
}

func newItemsGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one item",
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
			item, err := a.items().GetByID(ctx, db, id)
			if err != nil {
				return err
			}
			if item == nil {
				if a.jsonOutput {
					return printJSON(a.out, nil)
				}
				printWarning(a.out, "item %d not found", id)
				return nil
			}
			if a.jsonOutput {
				return printJSON(a.out, item)
			}
			return printItems(a.out, []model.ShoppingListItem{*item})
		},
	}
}

func newItemsAddCmd(a *app) *cobra.Command {
	var f itemFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Insert an item under a caller-chosen id",
		Example: `  shoppinglist items add --id 4 --name "granola bars" --price 4.49
  shoppinglist items add --id 5 --name steak --category Main --price 18 --checked`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := f.changes()
			if err != nil {
				return err
			}
			if f.category != "" {
				a.warnCategory(f.category)
			}
			ctx := cmd.Context()
			db, err := a.conn(ctx)
			if err != nil {
				return err
			}
			item := model.ShoppingListItem{
				ID: f.id, Name: c.Name, Category: c.Category, Checked: c.Checked,
				Price: c.Price, DateAdded: c.DateAdded,
			}
			created, err := a.items().Insert(ctx, db, item)
			if err != nil {
				return err
			}
			a.logger.Info("item inserted", "component", "items", "id", created.ID)
			if a.jsonOutput {
				return printJSON(a.out, created)
			}
			printSuccess(a.out, "added item %d (%s, %s)", created.ID, created.Name, created.Category)
			return nil
		},
	}
	f.register(cmd, true)
	return cmd
}

func newItemsUpdateCmd(a *app) *cobra.Command {
	var f itemFlags
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Replace every field of an item",
		Long: `Replace the name, category, checked flag, price and date of an item.
Fields not given on the command line take their flag defaults. Updating an id
that does not exist changes nothing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := f.changes()
			if err != nil {
				return err
			}
			if f.category != "" {
				a.warnCategory(f.category)
			}
			ctx := cmd.Context()
			db, err := a.conn(ctx)
			if err != nil {
				return err
			}
			if err := a.items().Update(ctx, db, id, c); err != nil {
				return err
			}
			a.logger.Info("item updated", "component", "items", "id", id)
			printSuccess(a.out, "updated item %d", id)
			return nil
		},
	}
	f.register(cmd, false)
	return cmd
}

func newItemsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an item; deleting a missing id is not an error",
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
			if err := a.items().Delete(ctx, db, id); err != nil {
				return err
			}
			a.logger.Info("item deleted", "component", "items", "id", id)
			printSuccess(a.out, "deleted item %d", id)
			return nil
		},
	}
}

func newItemsSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the mango, coffee and apples fixtures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := a.conn(ctx)
			if err != nil {
				return err
			}
			tx, err := db.BeginTx(ctx, nil)
			if err != nil {
				return fmt.Errorf("begin seed: %w", err)
			}
			defer tx.Rollback()

			s := a.items()
			for _, item := range seedItems {
				if _, err := s.Insert(ctx, tx, item); err != nil {
					return err
				}
			}
			if err := tx.Commit(); err != nil {
				return fmt.Errorf("commit seed: %w", err)
			}
			a.logger.Info("items seeded", "component", "items", "count", len(seedItems))
			printSuccess(a.out, "seeded %d items", len(seedItems))
			return nil
		},
	}
}
