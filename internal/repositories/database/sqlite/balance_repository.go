package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/balance_updater/internal/apperrors"
	"github.com/SscSPs/balance_updater/internal/core/domain"
	portsrepo "github.com/SscSPs/balance_updater/internal/core/ports/repositories"
	"github.com/SscSPs/balance_updater/internal/models"
	"github.com/SscSPs/balance_updater/internal/utils/accounting"
	"github.com/SscSPs/balance_updater/internal/utils/mapping"
	"github.com/shopspring/decimal"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteBalanceRepository stores amounts as fixed-point text and dates as YYYY-MM-DD so
// ordering by record_date is plain string ordering.
type SQLiteBalanceRepository struct {
	db *sql.DB
}

// NewSQLiteBalanceRepository wraps an already opened and migrated database.
func NewSQLiteBalanceRepository(db *sql.DB) *SQLiteBalanceRepository {
	return &SQLiteBalanceRepository{db: db}
}

var _ portsrepo.BalanceRepositoryFacade = (*SQLiteBalanceRepository)(nil)

// NewRepositoryProvider exposes db through the repository ports.
func NewRepositoryProvider(db *sql.DB) portsrepo.RepositoryProvider {
	repo := NewSQLiteBalanceRepository(db)
	return portsrepo.RepositoryProvider{
		BalanceRepo: repo,
		Health:      repo,
		Close:       func() { _ = db.Close() },
	}
}

// Ping checks the database handle is still usable.
func (r *SQLiteBalanceRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrConnectionFailure, err)
	}
	return nil
}

// InsertBalanceRecord depends on UNIQUE(account_name, record_date) for the one-per-day rule.
func (r *SQLiteBalanceRepository) InsertBalanceRecord(ctx context.Context, record domain.BalanceRecord) error {
	m := mapping.ToModelBalanceRecord(record)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO balance_records (record_id, account_name, amount, record_date, created_at, created_by)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.RecordID,
		m.AccountName,
		m.Amount.StringFixed(accounting.BalancePrecision),
		m.RecordDate.Format(domain.DateLayout),
		m.CreatedAt.Format(time.RFC3339Nano),
		m.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w (%s)", apperrors.ErrDuplicateEntryForDay, m.RecordDate.Format(domain.DateLayout))
		}
		return translateError(err, "insert balance record")
	}
	return nil
}

// FindLatestBalance returns the record with the greatest record_date.
func (r *SQLiteBalanceRepository) FindLatestBalance(ctx context.Context, accountName string) (*domain.BalanceRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT record_id, account_name, amount, record_date, created_at, created_by
		FROM balance_records
		WHERE account_name = ?
		ORDER BY record_date DESC
		LIMIT 1`, accountName)

	m, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, translateError(err, "find latest balance")
	}

	d := mapping.ToDomainBalanceRecord(m)
	return &d, nil
}

// ListBalances returns records newest first, strictly before `before` when set.
func (r *SQLiteBalanceRepository) ListBalances(ctx context.Context, accountName string, before *time.Time, limit int) ([]domain.BalanceRecord, error) {
	query := `
		SELECT record_id, account_name, amount, record_date, created_at, created_by
		FROM balance_records
		WHERE account_name = ?`
	args := []any{accountName}
	if before != nil {
		query += ` AND record_date < ?`
		args = append(args, before.UTC().Format(domain.DateLayout))
	}
	query += ` ORDER BY record_date DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, "list balances")
	}
	defer rows.Close()

	var ms []models.BalanceRecord
	for rows.Next() {
		m, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan balance record: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "iterate balance records")
	}
	return mapping.ToDomainBalanceRecords(ms), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(s rowScanner) (models.BalanceRecord, error) {
	var (
		m                                models.BalanceRecord
		amount, recordDate, createdAtStr string
	)
	if err := s.Scan(&m.RecordID, &m.AccountName, &amount, &recordDate, &createdAtStr, &m.CreatedBy); err != nil {
		return m, err
	}

	var err error
	if m.Amount, err = decimal.NewFromString(amount); err != nil {
		return m, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	if m.RecordDate, err = time.Parse(domain.DateLayout, recordDate); err != nil {
		return m, fmt.Errorf("parse record_date %q: %w", recordDate, err)
	}
	if m.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAtStr); err != nil {
		return m, fmt.Errorf("parse created_at %q: %w", createdAtStr, err)
	}
	return m, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isConnectionError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		// Extended codes carry the primary code in the low byte.
		switch sqliteErr.Code() & 0xff {
		case sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED, sqlite3.SQLITE_IOERR, sqlite3.SQLITE_NOTADB:
			return true
		}
	}
	return strings.Contains(err.Error(), "database is closed")
}

func translateError(err error, op string) error {
	if isConnectionError(err) {
		return fmt.Errorf("%s: %w: %v", op, apperrors.ErrConnectionFailure, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
