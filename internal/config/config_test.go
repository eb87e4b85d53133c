package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dukerupert/shoppinglist/internal/database"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DB.Driver != "sqlite" {
		t.Errorf("driver = %q, want %q", cfg.DB.Driver, "sqlite")
	}
	if cfg.DB.URL != "shoppinglist.db" {
		t.Errorf("url = %q, want %q", cfg.DB.URL, "shoppinglist.db")
	}
	if !cfg.DB.Migrate {
		t.Error("expected migrate to default to true")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log level = %q, want %q", cfg.Log.Level, "info")
	}
	if cfg.DB.BusyTimeout != 5000 {
		t.Errorf("busy timeout = %d, want 5000", cfg.DB.BusyTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("validate defaults: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SHOPPING_DB_DRIVER", "postgres")
	t.Setenv("SHOPPING_DB_URL", "postgres://localhost/shopping_test")
	t.Setenv("SHOPPING_LOG_FORMAT", "json")
	t.Setenv("SHOPPING_DB_BUSY_TIMEOUT", "250")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	d, err := cfg.Driver()
	if err != nil {
		t.Fatalf("driver: %v", err)
	}
	if d != database.Postgres {
		t.Errorf("driver = %q, want %q", d, database.Postgres)
	}
	if cfg.DB.URL != "postgres://localhost/shopping_test" {
		t.Errorf("url = %q", cfg.DB.URL)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("log format = %q, want %q", cfg.Log.Format, "json")
	}
	if cfg.DB.BusyTimeout != 250 {
		t.Errorf("busy timeout = %d, want 250", cfg.DB.BusyTimeout)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	body := "db:\n  driver: sqlite\n  url: /tmp/list.db\nlog:\n  format: json\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SHOPPING_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DB.URL != "/tmp/list.db" {
		t.Errorf("url = %q, want %q", cfg.DB.URL, "/tmp/list.db")
	}
	if cfg.Log.Format != "json" {
		t.Errorf("log format = %q, want %q", cfg.Log.Format, "json")
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log level = %q, want %q from env", cfg.Log.Level, "warn")
	}
	if !cfg.DB.Migrate {
		t.Error("expected migrate default to fill the omitted field")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"bad driver", Config{DB: DB{Driver: "oracle", URL: "x"}, Log: Log{Format: "text"}}, "unknown database driver"},
		{"empty url", Config{DB: DB{Driver: "sqlite"}, Log: Log{Format: "text"}}, "url"},
		{"bad format", Config{DB: DB{Driver: "sqlite", URL: "x"}, Log: Log{Format: "xml"}}, "log format"},
		{"negative busy timeout", Config{DB: DB{Driver: "sqlite", URL: "x", BusyTimeout: -1}, Log: Log{Format: "text"}}, "busy timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}
