package natsjs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/phrazzld/buyone/internal/events"
)

// streamPublisher is the part of jetstream.JetStream the publisher uses.
type streamPublisher interface {
	Publish(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// EventPublisher publishes domain events to a JetStream stream as JSON.
type EventPublisher struct {
	js      streamPublisher
	subject string
	logger  *slog.Logger
}

var _ events.Publisher = (*EventPublisher)(nil)

// EnsureStream creates the stream, or updates it, so it captures subject.
func EnsureStream(ctx context.Context, js jetstream.JetStream, stream, subject string) error {
	_, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:        stream,
		Description: "Product lifecycle events",
		Subjects:    []string{subject},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      7 * 24 * time.Hour,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
	})
	if err != nil {
		return fmt.Errorf("failed to create stream %s: %w", stream, err)
	}
	return nil
}

// NewEventPublisher creates a publisher for subject. The stream must exist;
// see EnsureStream.
func NewEventPublisher(js streamPublisher, subject string, logger *slog.Logger) *EventPublisher {
	return &EventPublisher{
		js:      js,
		subject: subject,
		logger:  logger.With("component", "event_publisher", "subject", subject),
	}
}

// PublishProductDeleted implements events.Publisher. The product id doubles
// as the message id so JetStream discards duplicates within its window.
func (p *EventPublisher) PublishProductDeleted(ctx context.Context, event events.ProductDeletedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal product deleted event: %w", err)
	}

	ack, err := p.js.Publish(ctx, p.subject, data, jetstream.WithMsgID("product-deleted-"+event.ProductID))
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.subject, err)
	}

	p.logger.Debug("event published",
		"product_id", event.ProductID,
		"stream", ack.Stream,
		"sequence", ack.Sequence,
		"duplicate", ack.Duplicate)
	return nil
}
