package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// publishTimeout bounds one broker write.
const publishTimeout = 5 * time.Second

// Envelope is the wire form shared by every transport.
type Envelope struct {
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload"`
}

func encode(eventType string, event any, now time.Time) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	body, err := json.Marshal(Envelope{Type: eventType, OccurredAt: now.UTC(), Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", eventType, err)
	}
	return body, nil
}
