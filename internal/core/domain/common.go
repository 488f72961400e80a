package domain

import "time"

// AuditFields holds creation metadata for domain entities.
// Balance records are never updated, so there are no last-updated fields.
type AuditFields struct {
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy"` // Operator reference
}
