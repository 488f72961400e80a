package repositories

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/SscSPs/balance_updater/internal/apperrors"
	"github.com/SscSPs/balance_updater/internal/platform/config"
	"github.com/SscSPs/balance_updater/internal/repositories/database/repotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		DBDriver:      config.DBDriverSQLite,
		SQLitePath:    filepath.Join(t.TempDir(), "data", "balance.db"),
		RunMigrations: true,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	provider, err := Open(ctx, cfg, logger)
	require.NoError(t, err)

	require.NoError(t, provider.Health.Ping(ctx))

	_, err = provider.BalanceRepo.FindLatestBalance(ctx, "Voya 401(k)")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	rec := repotest.NewRecord("Voya 401(k)", time.Now(), "10.00")
	require.NoError(t, provider.BalanceRepo.InsertBalanceRecord(ctx, rec))

	// Reopening runs migrations again without touching existing rows.
	provider.Close()
	provider, err = Open(ctx, cfg, logger)
	require.NoError(t, err)
	defer provider.Close()
	got, err := provider.BalanceRepo.FindLatestBalance(ctx, "Voya 401(k)")
	require.NoError(t, err)
	assert.Equal(t, rec.RecordID, got.RecordID)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{DBDriver: "oracle"}, nil)
	assert.Error(t, err)
}
