package natsjs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/phrazzld/buyone/internal/events"
	"github.com/phrazzld/buyone/internal/redact"
)

// redeliveryDelay is how long a failed event waits before JetStream retries it.
const redeliveryDelay = 5 * time.Second

// ProductDeletedHandler reacts to a deleted product.
type ProductDeletedHandler func(ctx context.Context, event events.ProductDeletedEvent) error

// consumerManager is the part of jetstream.JetStream the subscriber uses.
type consumerManager interface {
	CreateOrUpdateConsumer(ctx context.Context, stream string, cfg jetstream.ConsumerConfig) (jetstream.Consumer, error)
}

// Subscriber feeds product-deleted events from a durable consumer to a handler.
type Subscriber struct {
	handler        ProductDeletedHandler
	handlerTimeout time.Duration
	logger         *slog.Logger

	consumeCtx jetstream.ConsumeContext
}

// NewSubscriber creates a Subscriber. Each event gets handlerTimeout to finish.
func NewSubscriber(handler ProductDeletedHandler, handlerTimeout time.Duration, logger *slog.Logger) *Subscriber {
	return &Subscriber{
		handler:        handler,
		handlerTimeout: handlerTimeout,
		logger:         logger.With("component", "event_subscriber"),
	}
}

// Start creates or updates the durable consumer on stream, filtered to
// subject, and begins delivering messages. Call Stop to end delivery.
func (s *Subscriber) Start(ctx context.Context, js consumerManager, stream, subject, durable string) error {
	consumer, err := js.CreateOrUpdateConsumer(ctx, stream, jetstream.ConsumerConfig{
		Name:          durable,
		Durable:       durable,
		FilterSubject: subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       30 * time.Second,
		MaxDeliver:    5,
		DeliverPolicy: jetstream.DeliverAllPolicy,
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer %s: %w", durable, err)
	}

	consumeCtx, err := consumer.Consume(func(msg jetstream.Msg) {
		s.handle(context.WithoutCancel(ctx), msg)
	})
	if err != nil {
		return fmt.Errorf("failed to start consumer %s: %w", durable, err)
	}
	s.consumeCtx = consumeCtx

	s.logger.Info("consuming events", "stream", stream, "subject", subject, "consumer", durable)
	return nil
}

// Stop ends delivery. Messages in flight finish first.
func (s *Subscriber) Stop() {
	if s.consumeCtx != nil {
		s.consumeCtx.Stop()
	}
}

func (s *Subscriber) handle(ctx context.Context, msg jetstream.Msg) {
	var event events.ProductDeletedEvent
	if err := json.Unmarshal(msg.Data(), &event); err != nil || event.ProductID == "" {
		s.logger.Error("dropping malformed event", "subject", msg.Subject())
		if termErr := msg.Term(); termErr != nil {
			s.logger.Warn("failed to terminate message", "error", redact.Error(termErr))
		}
		return
	}

	ctx, cancel := context.WithTimeout(ctx, s.handlerTimeout)
	defer cancel()

	if err := s.handler(ctx, event); err != nil {
		s.logger.Error("event handler failed, will retry",
			"error", redact.Error(err),
			"product_id", event.ProductID)
		if nakErr := msg.NakWithDelay(redeliveryDelay); nakErr != nil {
			s.logger.Warn("failed to nak message", "error", redact.Error(nakErr))
		}
		return
	}

	if err := msg.Ack(); err != nil {
		s.logger.Warn("failed to ack message", "error", redact.Error(err), "product_id", event.ProductID)
	}
}
