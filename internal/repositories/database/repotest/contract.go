// Package repotest holds the behaviour every balance store must share, run against each
// backend from its own package tests.
package repotest

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SscSPs/balance_updater/internal/apperrors"
	"github.com/SscSPs/balance_updater/internal/core/domain"
	portsrepo "github.com/SscSPs/balance_updater/internal/core/ports/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// NewRecord builds a record for account on the given day.
func NewRecord(account string, day time.Time, amount string) domain.BalanceRecord {
	return domain.BalanceRecord{
		RecordID:    uuid.NewString(),
		AccountName: account,
		Amount:      decimal.RequireFromString(amount),
		RecordDate:  domain.CalendarDay(day, time.UTC),
		AuditFields: domain.AuditFields{
			CreatedAt: time.Now().UTC(),
			CreatedBy: "contract-test",
		},
	}
}

// RunBalanceRepositoryContract exercises repo. newAccount must return an account name with no
// records so subtests stay independent on a shared database.
func RunBalanceRepositoryContract(t *testing.T, repo portsrepo.BalanceRepositoryFacade, newAccount func() string) {
	ctx := context.Background()
	day := time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC)

	t.Run("empty store reports not found", func(t *testing.T) {
		_, err := repo.FindLatestBalance(ctx, newAccount())
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("insert then read latest", func(t *testing.T) {
		account := newAccount()
		rec := NewRecord(account, day, "12345.67")
		require.NoError(t, repo.InsertBalanceRecord(ctx, rec))

		got, err := repo.FindLatestBalance(ctx, account)
		require.NoError(t, err)
		assert.Equal(t, rec.RecordID, got.RecordID)
		assert.Equal(t, "12345.67", got.Amount.StringFixed(2))
		assert.Equal(t, rec.RecordDate, got.RecordDate)
		assert.Equal(t, "contract-test", got.CreatedBy)
	})

	t.Run("second insert on the same day is rejected and leaves the first untouched", func(t *testing.T) {
		account := newAccount()
		first := NewRecord(account, day, "100.00")
		require.NoError(t, repo.InsertBalanceRecord(ctx, first))

		err := repo.InsertBalanceRecord(ctx, NewRecord(account, day.Add(2*time.Hour), "999.99"))
		require.ErrorIs(t, err, apperrors.ErrDuplicateEntryForDay)
		assert.Equal(t, apperrors.KindDuplicateEntryForDay, apperrors.Kind(err))

		got, err := repo.FindLatestBalance(ctx, account)
		require.NoError(t, err)
		assert.Equal(t, first.RecordID, got.RecordID)
		assert.Equal(t, "100.00", got.Amount.StringFixed(2))
	})

	t.Run("same day for another account is allowed", func(t *testing.T) {
		require.NoError(t, repo.InsertBalanceRecord(ctx, NewRecord(newAccount(), day, "1.00")))
		require.NoError(t, repo.InsertBalanceRecord(ctx, NewRecord(newAccount(), day, "2.00")))
	})

	t.Run("concurrent writers on one day yield exactly one success", func(t *testing.T) {
		account := newAccount()
		const writers = 8
		var ok, dup atomic.Int32

		var g errgroup.Group
		for i := 0; i < writers; i++ {
			g.Go(func() error {
				err := repo.InsertBalanceRecord(ctx, NewRecord(account, day, "50.00"))
				switch {
				case err == nil:
					ok.Add(1)
				case apperrors.Kind(err) == apperrors.KindDuplicateEntryForDay:
					dup.Add(1)
				default:
					return err
				}
				return nil
			})
		}
		require.NoError(t, g.Wait())
		assert.Equal(t, int32(1), ok.Load())
		assert.Equal(t, int32(writers-1), dup.Load())
	})

	t.Run("latest is by record date and history pages newest first", func(t *testing.T) {
		account := newAccount()
		for i, amount := range []string{"10.00", "20.00", "30.00", "40.00"} {
			require.NoError(t, repo.InsertBalanceRecord(ctx, NewRecord(account, day.AddDate(0, 0, i), amount)))
		}

		latest, err := repo.FindLatestBalance(ctx, account)
		require.NoError(t, err)
		assert.Equal(t, "40.00", latest.Amount.StringFixed(2))

		page, err := repo.ListBalances(ctx, account, nil, 2)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "40.00", page[0].Amount.StringFixed(2))
		assert.Equal(t, "30.00", page[1].Amount.StringFixed(2))

		before := page[1].RecordDate
		rest, err := repo.ListBalances(ctx, account, &before, 10)
		require.NoError(t, err)
		require.Len(t, rest, 2)
		assert.Equal(t, "20.00", rest[0].Amount.StringFixed(2))
		assert.Equal(t, "10.00", rest[1].Amount.StringFixed(2))
	})
}
