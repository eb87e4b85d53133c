//go:build integration

package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dukerupert/shoppinglist/internal/database"
	"github.com/dukerupert/shoppinglist/internal/model"
)

// setupPostgresTestDB connects to TEST_DB_URL when set, otherwise starts a
// throwaway PostgreSQL container.
func setupPostgresTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	dsn := os.Getenv("TEST_DB_URL")
	if dsn == "" {
		pgContainer, err := postgres.Run(ctx,
			"postgres:alpine",
			postgres.WithDatabase("shopping_test"),
			postgres.WithUsername("testuser"),
			postgres.WithPassword("testpass"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second)),
		)
		if err != nil {
			t.Fatalf("start postgres container: %v", err)
		}
		t.Cleanup(func() {
			if err := pgContainer.Terminate(ctx); err != nil {
				t.Logf("terminate container: %v", err)
			}
		})
		dsn, err = pgContainer.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			t.Fatalf("connection string: %v", err)
		}
	}

	db, err := database.Open(ctx, database.Postgres, dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPostgresShoppingList(t *testing.T) {
	db := setupPostgresTestDB(t)
	s := NewShoppingListStore(database.Postgres.Placeholder())
	ctx := context.Background()

	truncate := func(t *testing.T) {
		t.Helper()
		if err := database.Truncate(ctx, db, database.Postgres, "shopping_list"); err != nil {
			t.Fatalf("truncate: %v", err)
		}
	}
	truncate(t)

	t.Run("list all resolves every item", func(t *testing.T) {
		t.Cleanup(func() { truncate(t) })
		items := seedItems(t, s, db)

		got, err := s.ListAll(ctx, db)
		if err != nil {
			t.Fatalf("list all: %v", err)
		}
		assertItemsEqual(t, got, items)
	})

	t.Run("get by id resolves the third item", func(t *testing.T) {
		t.Cleanup(func() { truncate(t) })
		items := seedItems(t, s, db)

		got, err := s.GetByID(ctx, db, 3)
		if err != nil || got == nil {
			t.Fatalf("get by id = %v, %v", got, err)
		}
		assertItemEqual(t, *got, items[2])
	})

	t.Run("delete removes the item", func(t *testing.T) {
		t.Cleanup(func() { truncate(t) })
		items := seedItems(t, s, db)

		if err := s.Delete(ctx, db, 3); err != nil {
			t.Fatalf("delete: %v", err)
		}
		got, _ := s.ListAll(ctx, db)
		assertItemsEqual(t, got, items[:2])
	})

	t.Run("update replaces fields", func(t *testing.T) {
		t.Cleanup(func() { truncate(t) })
		seedItems(t, s, db)

		changes := model.ItemChanges{
			Name: "updated name", Category: "Lunch", Price: "33.33",
			DateAdded: time.Now(),
		}
		if err := s.Update(ctx, db, 3, changes); err != nil {
			t.Fatalf("update: %v", err)
		}
		got, _ := s.GetByID(ctx, db, 3)
		n := changes.Normalize()
		assertItemEqual(t, *got, model.ShoppingListItem{
			ID: 3, Name: n.Name, Category: n.Category, Checked: n.Checked, Price: n.Price, DateAdded: n.DateAdded,
		})
	})

	t.Run("empty table resolves an empty slice", func(t *testing.T) {
		got, err := s.ListAll(ctx, db)
		if err != nil {
			t.Fatalf("list all: %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("got %v, want empty slice", got)
		}
	})

	t.Run("insert resolves the item and rejects duplicates", func(t *testing.T) {
		t.Cleanup(func() { truncate(t) })
		newItem := model.ShoppingListItem{
			ID: 1, Name: "new item", Category: "Lunch", Price: "33.33", DateAdded: time.Now(),
		}
		created, err := s.Insert(ctx, db, newItem)
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
		assertItemEqual(t, *created, newItem.Normalize())

		_, err = s.Insert(ctx, db, newItem)
		if !errors.Is(err, ErrDuplicateKey) {
			t.Errorf("err = %v, want ErrDuplicateKey", err)
		}
	})

	t.Run("ids beyond int4 round-trip", func(t *testing.T) {
		t.Cleanup(func() { truncate(t) })
		item := testItems()[0]
		item.ID = 1 << 40
		item.Price = "9999999999.99"
		if _, err := s.Insert(ctx, db, item); err != nil {
			t.Fatalf("insert: %v", err)
		}
		got, err := s.GetByID(ctx, db, 1<<40)
		if err != nil || got == nil {
			t.Fatalf("get by id = %v, %v", got, err)
		}
		assertItemEqual(t, *got, item)

		missing, err := s.GetByID(ctx, db, 1<<41)
		if err != nil || missing != nil {
			t.Errorf("GetByID(1<<41) = %v, %v; want nil, nil", missing, err)
		}
	})
}

func TestPostgresArticles(t *testing.T) {
	db := setupPostgresTestDB(t)
	s := NewArticleStore(database.Postgres.Placeholder())
	ctx := context.Background()
	if err := database.Truncate(ctx, db, database.Postgres, "blogful_articles"); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	for _, a := range testArticles {
		if _, err := s.Insert(ctx, db, a, time.Time{}); err != nil {
			t.Fatalf("insert %q: %v", a.Title, err)
		}
	}
	got, err := s.ListAll(ctx, db)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(got) != len(testArticles) {
		t.Fatalf("got %d articles, want %d", len(got), len(testArticles))
	}
}
