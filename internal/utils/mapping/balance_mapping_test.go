package mapping

import (
	"testing"
	"time"

	"github.com/SscSPs/balance_updater/internal/core/domain"
	"github.com/SscSPs/balance_updater/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestToDomainBalanceRecord_NormalizesDateZone(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	row := models.BalanceRecord{
		RecordID:    "r1",
		AccountName: "Voya 401(k)",
		Amount:      decimal.RequireFromString("12345.67"),
		RecordDate:  time.Date(2024, 3, 9, 0, 0, 0, 0, est),
		AuditFields: models.AuditFields{CreatedBy: "operator"},
	}

	got := ToDomainBalanceRecord(row)

	assert.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), got.RecordDate)
	assert.True(t, got.Amount.Equal(row.Amount))
	assert.Equal(t, "operator", got.CreatedBy)
}

func TestToModelBalanceRecord(t *testing.T) {
	created := time.Date(2024, 3, 9, 23, 30, 0, 0, time.FixedZone("X", 3600))
	rec := domain.BalanceRecord{
		RecordID:    "r1",
		AccountName: "Voya 401(k)",
		Amount:      decimal.RequireFromString("1000"),
		RecordDate:  time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
		AuditFields: domain.AuditFields{CreatedAt: created, CreatedBy: "op"},
	}

	row := ToModelBalanceRecord(rec)

	assert.Equal(t, time.UTC, row.CreatedAt.Location())
	assert.True(t, row.CreatedAt.Equal(created))
	assert.Equal(t, rec.RecordDate, row.RecordDate)
	assert.Len(t, ToDomainBalanceRecords([]models.BalanceRecord{row, row}), 2)
}
