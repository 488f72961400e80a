package events

import (
	"context"

	portsevents "github.com/SscSPs/balance_updater/internal/core/ports/events"
)

// NoopPublisher drops every event. Used when EVENTS_BACKEND=none or the broker was unreachable.
type NoopPublisher struct{}

var _ portsevents.Publisher = NoopPublisher{}

func (NoopPublisher) Publish(context.Context, string, any) error { return nil }
func (NoopPublisher) Close() error                              { return nil }
