package events

import (
	"fmt"
	"log/slog"

	portsevents "github.com/SscSPs/balance_updater/internal/core/ports/events"
	"github.com/SscSPs/balance_updater/internal/platform/config"
)

// NewPublisher builds the publisher selected by EVENTS_BACKEND. A broker that cannot be
// reached at start-up degrades to NoopPublisher; only an unknown backend is an error.
func NewPublisher(cfg *config.Config, logger *slog.Logger) (portsevents.Publisher, error) {
	switch cfg.EventsBackend {
	case "", config.EventsBackendNone:
		return NoopPublisher{}, nil
	case config.EventsBackendAMQP:
		p, err := NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			// Events are best effort.
			logger.Warn("AMQP broker unavailable, balance events will not be published",
				slog.String("error", err.Error()))
			return NoopPublisher{}, nil
		}
		logger.Info("Publishing balance events to AMQP", slog.String("exchange", cfg.AMQPExchange), slog.String("queue", cfg.AMQPQueue))
		return p, nil
	case config.EventsBackendKafka:
		logger.Info("Publishing balance events to Kafka", slog.Any("brokers", cfg.KafkaBrokers), slog.String("topic", cfg.KafkaTopic))
		return NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic), nil
	default:
		return nil, fmt.Errorf("unsupported events backend: %s", cfg.EventsBackend)
	}
}
