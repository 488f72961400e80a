package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/balance_updater/internal/apperrors"
	"github.com/SscSPs/balance_updater/internal/core/domain"
	portsrepo "github.com/SscSPs/balance_updater/internal/core/ports/repositories"
	"github.com/SscSPs/balance_updater/internal/models"
	"github.com/SscSPs/balance_updater/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxBalanceRepository struct {
	BaseRepository
}

// newPgxBalanceRepository creates a new repository for balance records.
func newPgxBalanceRepository(pool *pgxpool.Pool) *PgxBalanceRepository {
	return &PgxBalanceRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.BalanceRepositoryFacade = (*PgxBalanceRepository)(nil)

// InsertBalanceRecord relies on uq_balance_records_account_day, so the day check and the
// insert happen in one statement.
func (r *PgxBalanceRepository) InsertBalanceRecord(ctx context.Context, record domain.BalanceRecord) error {
	modelRec := mapping.ToModelBalanceRecord(record)

	query := `
		INSERT INTO balance_records (record_id, account_name, amount, record_date, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6);
	`

	_, err := r.Pool.Exec(ctx, query,
		modelRec.RecordID,
		modelRec.AccountName,
		modelRec.Amount,
		modelRec.RecordDate,
		modelRec.CreatedAt,
		modelRec.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w (%s)", apperrors.ErrDuplicateEntryForDay, modelRec.RecordDate.Format(domain.DateLayout))
		}
		return translateError(err, "failed to insert balance record")
	}
	return nil
}

// FindLatestBalance retrieves the most recent record by date.
func (r *PgxBalanceRepository) FindLatestBalance(ctx context.Context, accountName string) (*domain.BalanceRecord, error) {
	query := `
		SELECT record_id, account_name, amount, record_date, created_at, created_by
		FROM balance_records
		WHERE account_name = $1
		ORDER BY record_date DESC
		LIMIT 1;
	`
	var modelRec models.BalanceRecord
	err := r.Pool.QueryRow(ctx, query, accountName).Scan(
		&modelRec.RecordID,
		&modelRec.AccountName,
		&modelRec.Amount,
		&modelRec.RecordDate,
		&modelRec.CreatedAt,
		&modelRec.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, translateError(err, "failed to find latest balance")
	}

	domainRec := mapping.ToDomainBalanceRecord(modelRec)
	return &domainRec, nil
}

// ListBalances retrieves records newest first, optionally strictly before a date.
func (r *PgxBalanceRepository) ListBalances(ctx context.Context, accountName string, before *time.Time, limit int) ([]domain.BalanceRecord, error) {
	query := `
		SELECT record_id, account_name, amount, record_date, created_at, created_by
		FROM balance_records
		WHERE account_name = $1 AND ($2::date IS NULL OR record_date < $2::date)
		ORDER BY record_date DESC
		LIMIT $3;
	`
	var beforeArg any
	if before != nil {
		beforeArg = *before
	}

	rows, err := r.Pool.Query(ctx, query, accountName, beforeArg, limit)
	if err != nil {
		return nil, translateError(err, "failed to list balances")
	}
	defer rows.Close()

	var modelRecs []models.BalanceRecord
	for rows.Next() {
		var m models.BalanceRecord
		if err := rows.Scan(&m.RecordID, &m.AccountName, &m.Amount, &m.RecordDate, &m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan balance record: %w", err)
		}
		modelRecs = append(modelRecs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "error iterating balance records")
	}

	return mapping.ToDomainBalanceRecords(modelRecs), nil
}
