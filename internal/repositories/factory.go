package repositories

import (
	"context"
	"fmt"
	"log/slog"

	portsrepo "github.com/SscSPs/balance_updater/internal/core/ports/repositories"
	"github.com/SscSPs/balance_updater/internal/platform/config"
	"github.com/SscSPs/balance_updater/internal/repositories/database/pgsql"
	"github.com/SscSPs/balance_updater/internal/repositories/database/sqlite"
	"github.com/SscSPs/balance_updater/pkg/database"
)

// Open connects to the store selected by DB_DRIVER, applying migrations first when
// RUN_MIGRATIONS is set. The caller owns the returned provider and must call Close.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.DBDriver {
	case config.DBDriverPostgres:
		return openPostgres(ctx, cfg, logger)
	case config.DBDriverSQLite:
		return openSQLite(ctx, cfg, logger)
	default:
		return portsrepo.RepositoryProvider{}, fmt.Errorf("unsupported database driver: %s", cfg.DBDriver)
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, error) {
	if cfg.RunMigrations {
		logger.Info("Running database migrations...")
		if err := database.RunPostgresMigrations(cfg.DatabaseURL, logger); err != nil {
			return portsrepo.RepositoryProvider{}, fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return portsrepo.RepositoryProvider{}, err
	}

	provider := pgsql.NewRepositoryProvider(pool)
	provider.Close = func() { database.ClosePgxPool(pool, logger) }
	return provider, nil
}

func openSQLite(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, error) {
	// Opening first creates the directory the migration connection needs.
	db, err := database.NewSQLiteDB(ctx, cfg.SQLitePath, logger)
	if err != nil {
		return portsrepo.RepositoryProvider{}, err
	}

	if cfg.RunMigrations {
		logger.Info("Running database migrations...")
		if err := database.RunSQLiteMigrations(cfg.SQLitePath, logger); err != nil {
			db.Close()
			return portsrepo.RepositoryProvider{}, fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	return sqlite.NewRepositoryProvider(db), nil
}
