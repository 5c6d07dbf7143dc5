package natsjs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/phrazzld/buyone/internal/events"
	"github.com/phrazzld/buyone/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMsg records how a message was settled.
type fakeMsg struct {
	jetstream.Msg
	data    []byte
	settled string
}

func (m *fakeMsg) Data() []byte    { return m.data }
func (m *fakeMsg) Subject() string { return "product.deleted" }
func (m *fakeMsg) Ack() error      { m.settled = "ack"; return nil }
func (m *fakeMsg) Term() error     { m.settled = "term"; return nil }
func (m *fakeMsg) NakWithDelay(time.Duration) error {
	m.settled = "nak"
	return nil
}

// fakeConsumers captures the consumer config and fails on request.
type fakeConsumers struct {
	cfg jetstream.ConsumerConfig
	err error
}

func (f *fakeConsumers) CreateOrUpdateConsumer(_ context.Context, _ string, cfg jetstream.ConsumerConfig) (jetstream.Consumer, error) {
	f.cfg = cfg
	return nil, f.err
}

func TestSubscriber_Handle(t *testing.T) {
	_, log, cleanup := logger.SetupTestLogger(t)
	defer cleanup()

	var got []events.ProductDeletedEvent
	var handlerErr error
	sub := NewSubscriber(func(_ context.Context, e events.ProductDeletedEvent) error {
		got = append(got, e)
		return handlerErr
	}, time.Second, log)

	t.Run("handled event is acked", func(t *testing.T) {
		msg := &fakeMsg{data: []byte(`{"productId":"p1","sellerId":"s1"}`)}
		sub.handle(context.Background(), msg)

		assert.Equal(t, "ack", msg.settled)
		require.NotEmpty(t, got)
		assert.Equal(t, "p1", got[len(got)-1].ProductID)
	})

	t.Run("handler failure is redelivered", func(t *testing.T) {
		handlerErr = errors.New("db down")
		defer func() { handlerErr = nil }()

		msg := &fakeMsg{data: []byte(`{"productId":"p2"}`)}
		sub.handle(context.Background(), msg)

		assert.Equal(t, "nak", msg.settled)
	})

	t.Run("malformed payload is terminated", func(t *testing.T) {
		before := len(got)
		msg := &fakeMsg{data: []byte(`not json`)}
		sub.handle(context.Background(), msg)

		assert.Equal(t, "term", msg.settled)
		assert.Len(t, got, before)
	})

	t.Run("event without product id is terminated", func(t *testing.T) {
		msg := &fakeMsg{data: []byte(`{}`)}
		sub.handle(context.Background(), msg)

		assert.Equal(t, "term", msg.settled)
	})
}

func TestSubscriber_StartConsumerError(t *testing.T) {
	_, log, cleanup := logger.SetupTestLogger(t)
	defer cleanup()

	consumers := &fakeConsumers{err: errors.New("stream not found")}
	sub := NewSubscriber(func(context.Context, events.ProductDeletedEvent) error { return nil }, time.Second, log)

	err := sub.Start(context.Background(), consumers, "PRODUCTS", "product.deleted", "media-cleanup")

	require.Error(t, err)
	assert.Equal(t, "media-cleanup", consumers.cfg.Durable)
	assert.Equal(t, "product.deleted", consumers.cfg.FilterSubject)
	assert.Equal(t, jetstream.AckExplicitPolicy, consumers.cfg.AckPolicy)
	sub.Stop()
}
