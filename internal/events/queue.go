package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Common errors returned by the Queue
var (
	ErrQueueClosed = errors.New("event queue is closed")
	ErrQueueFull   = errors.New("event queue is full")
)

// QueueConfig sizes the queue buffer and its worker pool.
type QueueConfig struct {
	// Size is the channel buffer; zero or negative means 1.
	Size int
	// Workers is the number of publishing goroutines; zero or negative means 1.
	Workers int
}

// Queue is a Publisher that hands events to a buffered channel and publishes
// them from a pool of workers, so request handlers never wait on the bus.
type Queue struct {
	next    Publisher
	events  chan ProductDeletedEvent
	workers int
	logger  *slog.Logger

	mu     sync.RWMutex
	closed bool

	group  *errgroup.Group
	cancel context.CancelFunc
}

var _ Publisher = (*Queue)(nil)

// NewQueue creates a queue in front of next. Call Start to begin publishing.
func NewQueue(next Publisher, cfg QueueConfig, logger *slog.Logger) *Queue {
	size := cfg.Size
	if size <= 0 {
		size = 1
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
		logger.Warn("invalid worker count specified, using default",
			"specified_count", cfg.Workers,
			"default_count", 1)
	}

	return &Queue{
		next:    next,
		events:  make(chan ProductDeletedEvent, size),
		workers: workers,
		logger:  logger.With("component", "event_queue"),
	}
}

// Start launches the workers. ctx supplies values for publishing; its
// cancellation does not stop the workers, Stop does.
func (q *Queue) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	q.cancel = cancel
	q.group, workerCtx = errgroup.WithContext(workerCtx)

	for i := 0; i < q.workers; i++ {
		workerID := i
		q.group.Go(func() error {
			q.work(workerCtx, workerID)
			return nil
		})
	}

	q.logger.Info("event queue started",
		"workers", q.workers,
		"capacity", cap(q.events))
}

func (q *Queue) work(ctx context.Context, workerID int) {
	log := q.logger.With("worker_id", workerID)
	for event := range q.events {
		if ctx.Err() != nil {
			log.Error("dropping event after shutdown deadline",
				"product_id", event.ProductID)
			continue
		}
		if err := q.next.PublishProductDeleted(ctx, event); err != nil {
			log.Error("failed to publish product deleted event",
				"error", err,
				"product_id", event.ProductID,
				"seller_id", event.SellerID)
			continue
		}
		log.Debug("published product deleted event",
			"product_id", event.ProductID)
	}
}

// PublishProductDeleted enqueues the event without blocking.
// Returns ErrQueueFull or ErrQueueClosed when the event is dropped.
func (q *Queue) PublishProductDeleted(_ context.Context, event ProductDeletedEvent) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.events <- event:
		return nil
	default:
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(q.events))
	}
}

// Len reports how many events are waiting.
func (q *Queue) Len() int {
	return len(q.events)
}

// Stop closes the queue and waits for buffered events to be published.
// If ctx expires first the remaining events are dropped and ctx.Err() is returned.
func (q *Queue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.events)
	q.mu.Unlock()

	if q.group == nil {
		return nil
	}

	done := make(chan struct{})
	go func() {
		_ = q.group.Wait()
		close(done)
	}()

	select {
	case <-done:
		q.cancel()
		q.logger.Info("event queue drained")
		return nil
	case <-ctx.Done():
		q.cancel()
		<-done
		q.logger.Warn("event queue stopped before draining", "error", ctx.Err())
		return ctx.Err()
	}
}
