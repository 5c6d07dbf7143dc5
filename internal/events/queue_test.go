package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/buyone/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingPublisher holds every publish until release is closed.
type blockingPublisher struct {
	release chan struct{}
	mu      sync.Mutex
	got     []ProductDeletedEvent
}

func (b *blockingPublisher) PublishProductDeleted(ctx context.Context, e ProductDeletedEvent) error {
	select {
	case <-b.release:
	case <-ctx.Done():
		return ctx.Err()
	}
	b.mu.Lock()
	b.got = append(b.got, e)
	b.mu.Unlock()
	return nil
}

func TestQueue_PublishesEnqueuedEvents(t *testing.T) {
	_, log, cleanup := logger.SetupTestLogger(t)
	defer cleanup()

	rec := &RecordingPublisher{}
	q := NewQueue(rec, QueueConfig{Size: 10, Workers: 2}, log)
	q.Start(context.Background())

	for _, id := range []string{"p1", "p2", "p3"} {
		require.NoError(t, q.PublishProductDeleted(context.Background(), NewProductDeletedEvent(id, "s1")))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, q.Stop(ctx))

	ids := map[string]bool{}
	for _, e := range rec.Events() {
		ids[e.ProductID] = true
		assert.Equal(t, "s1", e.SellerID)
	}
	assert.Equal(t, map[string]bool{"p1": true, "p2": true, "p3": true}, ids)
}

func TestQueue_FullQueueDropsWithoutBlocking(t *testing.T) {
	_, log, cleanup := logger.SetupTestLogger(t)
	defer cleanup()

	// Not started: nothing drains the buffer.
	q := NewQueue(NoopPublisher{}, QueueConfig{Size: 1, Workers: 1}, log)

	require.NoError(t, q.PublishProductDeleted(context.Background(), NewProductDeletedEvent("p1", "s1")))
	err := q.PublishProductDeleted(context.Background(), NewProductDeletedEvent("p2", "s1"))
	assert.ErrorIs(t, err, ErrQueueFull)
	assert.Equal(t, 1, q.Len())
}

func TestQueue_RejectsAfterStop(t *testing.T) {
	_, log, cleanup := logger.SetupTestLogger(t)
	defer cleanup()

	q := NewQueue(NoopPublisher{}, QueueConfig{Size: 1, Workers: 1}, log)
	q.Start(context.Background())
	require.NoError(t, q.Stop(context.Background()))
	require.NoError(t, q.Stop(context.Background()), "second stop is a no-op")

	err := q.PublishProductDeleted(context.Background(), NewProductDeletedEvent("p1", "s1"))
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestQueue_StopHonorsDeadline(t *testing.T) {
	_, log, cleanup := logger.SetupTestLogger(t)
	defer cleanup()

	pub := &blockingPublisher{release: make(chan struct{})}
	q := NewQueue(pub, QueueConfig{Size: 4, Workers: 1}, log)
	q.Start(context.Background())
	require.NoError(t, q.PublishProductDeleted(context.Background(), NewProductDeletedEvent("p1", "s1")))
	require.NoError(t, q.PublishProductDeleted(context.Background(), NewProductDeletedEvent("p2", "s1")))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := q.Stop(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Empty(t, pub.got)
}

func TestQueue_PublishErrorsAreAbsorbed(t *testing.T) {
	buf, log, cleanup := logger.SetupTestLogger(t)
	defer cleanup()

	rec := &RecordingPublisher{Err: errors.New("bus down")}
	q := NewQueue(rec, QueueConfig{Size: 2, Workers: 1}, log)
	q.Start(context.Background())
	require.NoError(t, q.PublishProductDeleted(context.Background(), NewProductDeletedEvent("p1", "s1")))
	require.NoError(t, q.Stop(context.Background()))

	assert.Len(t, rec.Events(), 1)
	assert.Contains(t, buf.String(), "failed to publish product deleted event")
}
