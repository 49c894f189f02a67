package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nagumeena22/ColabSphere/internal/config"
)

const (
	TypeJoinRequestSubmitted = "joinrequest.submitted"
	TypeJoinRequestResponded = "joinrequest.responded"
)

// Event is a join-request lifecycle notification for downstream consumers.
type Event struct {
	Type            string    `json:"type"`
	RequestID       int64     `json:"requestId"`
	ProjectID       int64     `json:"projectId"`
	UserID          int64     `json:"userId"`
	Status          string    `json:"status"`
	ResponseMessage string    `json:"responseMessage,omitempty"`
	OccurredAt      time.Time `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// New builds the publisher selected by cfg.Driver. An empty driver or "none" disables publishing.
func New(cfg config.EventsConfig, logger *slog.Logger) (Publisher, error) {
	switch cfg.Driver {
	case "", "none":
		logger.Info("event publishing disabled")
		return Noop{}, nil
	case "nats":
		return NewNATSPublisher(cfg.URL, cfg.Subject, logger)
	case "kafka":
		return NewKafkaPublisher(cfg.Brokers, cfg.Subject, logger)
	default:
		return nil, fmt.Errorf("unknown events driver %q", cfg.Driver)
	}
}

type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }

func (Noop) Close() error { return nil }
