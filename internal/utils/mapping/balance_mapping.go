package mapping

import (
	"time"

	"github.com/SscSPs/balance_updater/internal/core/domain"
	"github.com/SscSPs/balance_updater/internal/models"
)

// ToModelBalanceRecord converts a domain record to its row form.
func ToModelBalanceRecord(d domain.BalanceRecord) models.BalanceRecord {
	return models.BalanceRecord{
		RecordID:    d.RecordID,
		AccountName: d.AccountName,
		Amount:      d.Amount,
		RecordDate:  dateOnly(d.RecordDate),
		AuditFields: models.AuditFields{
			CreatedAt: d.CreatedAt.UTC(),
			CreatedBy: d.CreatedBy,
		},
	}
}

// ToDomainBalanceRecord converts a row back to the domain type.
func ToDomainBalanceRecord(m models.BalanceRecord) domain.BalanceRecord {
	return domain.BalanceRecord{
		RecordID:    m.RecordID,
		AccountName: m.AccountName,
		Amount:      m.Amount,
		RecordDate:  dateOnly(m.RecordDate),
		AuditFields: domain.AuditFields{
			CreatedAt: m.CreatedAt,
			CreatedBy: m.CreatedBy,
		},
	}
}

// ToDomainBalanceRecords converts a slice of rows.
func ToDomainBalanceRecords(ms []models.BalanceRecord) []domain.BalanceRecord {
	ds := make([]domain.BalanceRecord, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainBalanceRecord(m)
	}
	return ds
}

// dateOnly keeps the wall-clock date and pins it to midnight UTC. Drivers hand DATE columns
// back in varying zones; the stored date is what matters.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
