package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// BalanceRecordedTopic is the routing key / topic used for BalanceRecorded events.
const BalanceRecordedTopic = "balance_recorded"

// BalanceRecorded is emitted after a balance record has been committed.
type BalanceRecorded struct {
	RecordID    string          `json:"record_id"`
	AccountName string          `json:"account_name"`
	Amount      decimal.Decimal `json:"amount"`
	RecordDate  string          `json:"record_date"`
	RecordedBy  string          `json:"recorded_by"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

// Publisher delivers domain events to an external broker.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
