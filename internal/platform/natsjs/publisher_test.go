package natsjs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/phrazzld/buyone/internal/events"
	"github.com/phrazzld/buyone/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStream struct {
	subject string
	payload []byte
	opts    int
	err     error
}

func (f *fakeStream) Publish(_ context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.subject = subject
	f.payload = payload
	f.opts = len(opts)
	return &jetstream.PubAck{Stream: "PRODUCTS", Sequence: 1}, nil
}

func TestEventPublisher_PublishesJSON(t *testing.T) {
	_, log, cleanup := logger.SetupTestLogger(t)
	defer cleanup()

	js := &fakeStream{}
	pub := NewEventPublisher(js, "product.deleted", log)

	err := pub.PublishProductDeleted(context.Background(), events.NewProductDeletedEvent("p1", "s1"))
	require.NoError(t, err)

	assert.Equal(t, "product.deleted", js.subject)
	assert.Equal(t, 1, js.opts, "message id option is set")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(js.payload, &decoded))
	assert.Equal(t, "p1", decoded["productId"])
	assert.Equal(t, "s1", decoded["sellerId"])
}

func TestEventPublisher_WrapsError(t *testing.T) {
	_, log, cleanup := logger.SetupTestLogger(t)
	defer cleanup()

	busErr := errors.New("no responders")
	pub := NewEventPublisher(&fakeStream{err: busErr}, "product.deleted", log)

	err := pub.PublishProductDeleted(context.Background(), events.NewProductDeletedEvent("p1", "s1"))
	assert.ErrorIs(t, err, busErr)
	assert.Contains(t, err.Error(), "product.deleted")
}
