package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/balance_updater/internal/core/domain"
)

// BalanceReader defines read operations for balance records
type BalanceReader interface {
	// FindLatestBalance returns the most recent record by date for the account.
	// It returns apperrors.ErrNotFound when the account has no records.
	FindLatestBalance(ctx context.Context, accountName string) (*domain.BalanceRecord, error)

	// ListBalances returns up to limit records dated strictly before `before`
	// (or all, when before is nil), newest first.
	ListBalances(ctx context.Context, accountName string, before *time.Time, limit int) ([]domain.BalanceRecord, error)
}

// BalanceWriter defines write operations for balance records
type BalanceWriter interface {
	// InsertBalanceRecord inserts the record unless one already exists for the same
	// account and RecordDate. The check and the insert are a single atomic statement;
	// a clash returns apperrors.ErrDuplicateEntryForDay and writes nothing.
	InsertBalanceRecord(ctx context.Context, record domain.BalanceRecord) error
}

// BalanceRepositoryFacade combines all balance-related repository interfaces
type BalanceRepositoryFacade interface {
	BalanceReader
	BalanceWriter
}
