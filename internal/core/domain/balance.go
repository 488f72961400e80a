package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-day format used for record dates.
const DateLayout = "2006-01-02"

// BalanceRecord is one dated snapshot of the tracked account's value.
type BalanceRecord struct {
	RecordID    string          `json:"recordID"`
	AccountName string          `json:"accountName"`
	Amount      decimal.Decimal `json:"amount"`
	RecordDate  time.Time       `json:"recordDate"` // Midnight UTC of the calendar day
	AuditFields
}

// CurrentBalance is what the reader hands back for display.
// HasData is false when no record exists yet; Amount is then zero.
type CurrentBalance struct {
	AccountName string
	Amount      decimal.Decimal
	RecordDate  *time.Time
	HasData     bool
}

// NoBalance returns the "no data" sentinel for accountName.
func NoBalance(accountName string) CurrentBalance {
	return CurrentBalance{AccountName: accountName, Amount: decimal.Zero}
}

// CalendarDay truncates t to its calendar day in loc, expressed as midnight UTC so the
// value compares and stores identically regardless of the server's zone.
func CalendarDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
