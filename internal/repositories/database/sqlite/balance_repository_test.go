package sqlite

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/SscSPs/balance_updater/internal/apperrors"
	"github.com/SscSPs/balance_updater/internal/repositories/database/repotest"
	"github.com/SscSPs/balance_updater/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) (*SQLiteBalanceRepository, func()) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	path := filepath.Join(t.TempDir(), "balance.db")

	require.NoError(t, database.RunSQLiteMigrations(path, logger))
	db, err := database.NewSQLiteDB(context.Background(), path, logger)
	require.NoError(t, err)

	return NewSQLiteBalanceRepository(db), func() { _ = db.Close() }
}

func TestSQLiteBalanceRepository_Contract(t *testing.T) {
	repo, closeDB := newTestRepo(t)
	defer closeDB()

	var n atomic.Int32
	repotest.RunBalanceRepositoryContract(t, repo, func() string {
		return fmt.Sprintf("account-%d", n.Add(1))
	})
}

func TestSQLiteBalanceRepository_ClosedDatabaseIsConnectionFailure(t *testing.T) {
	repo, closeDB := newTestRepo(t)
	closeDB()

	_, err := repo.FindLatestBalance(context.Background(), "x")
	assert.ErrorIs(t, err, apperrors.ErrConnectionFailure)
	assert.ErrorIs(t, repo.Ping(context.Background()), apperrors.ErrConnectionFailure)
}

func TestIsUniqueViolation_FallsBackToMessage(t *testing.T) {
	assert.True(t, isUniqueViolation(errors.New("constraint failed: UNIQUE constraint failed: balance_records.account_name")))
	assert.False(t, isUniqueViolation(errors.New("no such table")))
}
