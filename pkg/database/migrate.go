package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/balance_updater/migrations"
	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// RunPostgresMigrations applies the embedded postgres schema using a temporary sql.DB.
func RunPostgresMigrations(databaseURL string, logger *slog.Logger) error {
	// Open a temporary standard sql.DB connection for migrations
	// Using pgx/v5/stdlib driver to be compatible with the main pool
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}
	defer migrationDB.Close()

	if err := migrationDB.Ping(); err != nil {
		return fmt.Errorf("ping migration database: %w", err)
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create postgres driver: %w", err)
	}
	return runMigrations(driver, "postgres", logger)
}

// dirtyRetries bounds how long RunSQLiteMigrations waits for another process to finish
// the migration it has marked dirty.
const (
	dirtyRetries    = 20
	dirtyRetryDelay = 250 * time.Millisecond
)

// RunSQLiteMigrations applies the embedded sqlite schema. A separate connection is used so
// the main handle keeps its pool settings. SQLite has no cross-process migration lock, so a
// version left dirty by a concurrent run is waited on; the schema statements are idempotent.
func RunSQLiteMigrations(dbPath string, logger *slog.Logger) error {
	var err error
	for attempt := 0; attempt <= dirtyRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(dirtyRetryDelay)
		}
		err = runSQLiteMigrationsOnce(dbPath, logger)
		var dirty migrate.ErrDirty
		if !errors.As(err, &dirty) {
			return err
		}
		logger.Info("Migration in progress elsewhere, waiting", slog.Int("version", dirty.Version), slog.Int("attempt", attempt+1))
	}
	return err
}

func runSQLiteMigrationsOnce(dbPath string, logger *slog.Logger) error {
	migrateDB, err := sql.Open("sqlite", SQLiteDSN(dbPath))
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}
	defer migrateDB.Close()

	driver, err := sqlite.WithInstance(migrateDB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite driver: %w", err)
	}
	return runMigrations(driver, "sqlite", logger)
}

func runMigrations(driver migratedb.Driver, name string, logger *slog.Logger) error {
	fsys := migrations.SQLite
	if name == "postgres" {
		fsys = migrations.Postgres
	}

	src, err := iofs.New(fsys, name)
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, name, driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}

	upErr := m.Up()
	// Check for dirty migrations after running Up.
	sourceErr, dbErr := m.Close()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", upErr)
	}
	if sourceErr != nil {
		return fmt.Errorf("migration source error: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("migration database error: %w", dbErr)
	}

	if errors.Is(upErr, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.", slog.String("driver", name))
	} else {
		logger.Info("Database migrations applied successfully.", slog.String("driver", name))
	}
	return nil
}
