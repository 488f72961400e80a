package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditFields mirrors the creation columns shared by persisted rows.
type AuditFields struct {
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy"`
}

// BalanceRecord is the persisted row of the balance_records table.
type BalanceRecord struct {
	RecordID    string          `json:"recordID"`    // Primary Key (uuid)
	AccountName string          `json:"accountName"` // Unique together with RecordDate
	Amount      decimal.Decimal `json:"amount"`      // numeric(17,2)
	RecordDate  time.Time       `json:"recordDate"`  // DATE, no time part
	AuditFields
}
