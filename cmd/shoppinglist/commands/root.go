package commands

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dukerupert/shoppinglist/internal/config"
	"github.com/dukerupert/shoppinglist/internal/database"
	"github.com/dukerupert/shoppinglist/internal/logging"
)

// app carries the flags and lazily opened resources shared by all commands.
type app struct {
	out    io.Writer
	errOut io.Writer

	configPath string
	driver     string
	dbURL      string
	logLevel   string
	jsonOutput bool

	cfg      *config.Config
	logger   *slog.Logger
	db       *sql.DB
	dbDriver database.Driver
}

// Execute runs the CLI with args and returns the process exit code.
func Execute(ctx context.Context, out, errOut io.Writer, args []string) int {
	a := &app{out: out, errOut: errOut}
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		printError(errOut, "%v", err)
		return 1
	}
	if err := a.close(); err != nil {
		printError(errOut, "%v", err)
		return 1
	}
	return 0
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "shoppinglist",
		Short: "Manage the shopping_list and blogful_articles tables",
		Long: `shoppinglist runs CRUD operations against the shopping_list and
blogful_articles tables on PostgreSQL or SQLite.

Connection settings come from the environment (SHOPPING_DB_DRIVER,
SHOPPING_DB_URL, SHOPPING_LOG_LEVEL, SHOPPING_LOG_FORMAT, SHOPPING_MIGRATE),
an optional --config file, and the --driver / --db flags, in increasing order
of precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (yaml, toml, json or .env)")
	root.PersistentFlags().StringVar(&a.driver, "driver", "", "Database engine: postgres or sqlite")
	root.PersistentFlags().StringVar(&a.dbURL, "db", "", "Database connection URL or SQLite path")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "Output in JSON format")

	root.AddCommand(newMigrateCmd(a), newItemsCmd(a), newArticlesCmd(a), newEnvCmd(a))
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.driver != "" {
		cfg.DB.Driver = a.driver
	}
	if a.dbURL != "" {
		cfg.DB.URL = a.dbURL
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	driver, err := cfg.Driver()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.dbDriver = driver
	a.logger = logging.Setup(cfg.Log.Level, cfg.Log.Format, a.errOut)
	return nil
}

// conn opens the database on first use.
func (a *app) conn(ctx context.Context) (*sql.DB, error) {
	if a.db != nil {
		return a.db, nil
	}
	opts := a.openOptions()
	if !a.cfg.DB.Migrate {
		opts = append(opts, database.WithoutMigrations())
	}
	db, err := database.Open(ctx, a.dbDriver, a.cfg.DB.URL, opts...)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("database opened", "component", "database", "driver", a.dbDriver)
	a.db = db
	return db, nil
}

func (a *app) openOptions() []database.Option {
	return []database.Option{database.WithBusyTimeout(a.cfg.DB.BusyTimeout)}
}

func (a *app) close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	if err != nil {
		return fmt.Errorf("close db: %w", err)
	}
	return nil
}

func newEnvCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Describe the environment variables",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(a.out, config.Usage())
			return nil
		},
	}
}
