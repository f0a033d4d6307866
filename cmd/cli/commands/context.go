package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tmccall/deskcover/internal/config"
	"github.com/tmccall/deskcover/pkg/postgres"
	"github.com/tmccall/deskcover/pkg/utils/logging"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Env      string
	Cfg      *config.Config
	Database *postgres.DB
	Logger   *zap.Logger
	Ctx      context.Context
}

// Init sets up logger, config, and database; called once before any command runs
func (app *AppContext) Init(ctx context.Context) error {
	var err error
	app.Ctx = ctx

	app.Logger, err = logging.InitLogger(app.Env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", app.Env))

	app.Cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully")

	app.Database, err = postgres.NewDB(ctx, app.Cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := app.Database.RunMigrations(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	app.Logger.Info("Database initialized successfully")

	return nil
}

// Close releases the application's resources
func (app *AppContext) Close() {
	if app.Database != nil {
		app.Database.Close()
	}
	if app.Logger != nil {
		app.Logger.Sync()
	}
}
