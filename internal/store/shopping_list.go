package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/dukerupert/shoppinglist/internal/model"
)

const shoppingListTable = "shopping_list"

var shoppingListCols = []string{"id", "name", "category", "checked", "price", "date_added"}

// ShoppingListStore maps rows of shopping_list to model.ShoppingListItem.
// It holds no connection; each method runs one statement against db.
type ShoppingListStore struct {
	sb sq.StatementBuilderType
}

func NewShoppingListStore(ph sq.PlaceholderFormat) *ShoppingListStore {
	return &ShoppingListStore{sb: sq.StatementBuilder.PlaceholderFormat(ph)}
}

func scanShoppingListItem(scanner interface{ Scan(...any) error }) (*model.ShoppingListItem, error) {
	var item model.ShoppingListItem
	err := scanner.Scan(
		&item.ID, &item.Name, &item.Category, &item.Checked, &item.Price,
		timestamp{&item.DateAdded},
	)
	if err != nil {
		return nil, err
	}
	if p, err := model.NormalizePrice(item.Price); err == nil {
		item.Price = p
	}
	item.DateAdded = model.NormalizeTime(item.DateAdded)
	return &item, nil
}

func (s *ShoppingListStore) ListAll(ctx context.Context, db DBTX) ([]model.ShoppingListItem, error) {
	query, args, err := s.sb.Select(shoppingListCols...).From(shoppingListTable).OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list items: %w", err)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := []model.ShoppingListItem{}
	for rows.Next() {
		item, err := scanShoppingListItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// GetByID returns nil, nil when no row has the given id.
func (s *ShoppingListStore) GetByID(ctx context.Context, db DBTX, id int64) (*model.ShoppingListItem, error) {
	query, args, err := s.sb.Select(shoppingListCols...).From(shoppingListTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get item: %w", err)
	}

	item, err := scanShoppingListItem(db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item %d: %w", id, err)
	}
	return item, nil
}

// Insert stores item under its caller-supplied id and returns the row as
// persisted. An existing id yields an error wrapping ErrDuplicateKey.
func (s *ShoppingListStore) Insert(ctx context.Context, db DBTX, item model.ShoppingListItem) (*model.ShoppingListItem, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}
	item = item.Normalize()

	query, args, err := s.sb.Insert(shoppingListTable).
		Columns(shoppingListCols...).
		Values(item.ID, item.Name, item.Category, item.Checked, item.Price, item.DateAdded).
		Suffix("RETURNING " + strings.Join(shoppingListCols, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert item: %w", err)
	}

	created, err := scanShoppingListItem(db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if isDuplicateKey(err) {
			return nil, fmt.Errorf("insert item %d: %w: %w", item.ID, ErrDuplicateKey, err)
		}
		return nil, fmt.Errorf("insert item %d: %w", item.ID, err)
	}
	return created, nil
}

// Update overwrites every non-id column of the row with the given id. A
// missing row is not an error and nothing is created.
func (s *ShoppingListStore) Update(ctx context.Context, db DBTX, id int64, changes model.ItemChanges) error {
	if err := changes.Validate(); err != nil {
		return err
	}
	changes = changes.Normalize()

	query, args, err := s.sb.Update(shoppingListTable).
		Set("name", changes.Name).
		Set("category", changes.Category).
		Set("checked", changes.Checked).
		Set("price", changes.Price).
		Set("date_added", changes.DateAdded).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update item: %w", err)
	}

	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update item %d: %w", id, err)
	}
	return nil
}

func (s *ShoppingListStore) Delete(ctx context.Context, db DBTX, id int64) error {
	query, args, err := s.sb.Delete(shoppingListTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete item: %w", err)
	}

	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete item %d: %w", id, err)
	}
	return nil
}
