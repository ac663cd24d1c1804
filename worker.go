package marketplace

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const writeQueueSize = 1000

type writeTask struct {
	write func(ctx context.Context) error
	ack   *Ack
}

// WriteQueue runs cart writes one at a time, in submission order.
type WriteQueue struct {
	mu      sync.RWMutex
	closed  bool
	tasks   chan writeTask
	done    chan struct{}
	timeout time.Duration
	logger  *zap.Logger
}

func NewWriteQueue(timeout time.Duration, logger *zap.Logger) *WriteQueue {
	q := &WriteQueue{
		tasks:   make(chan writeTask, writeQueueSize),
		done:    make(chan struct{}),
		timeout: timeout,
		logger:  logger,
	}

	go q.worker()

	return q
}

func (q *WriteQueue) worker() {
	defer close(q.done)

	for task := range q.tasks {
		ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
		err := task.write(ctx)
		cancel()

		if err != nil {
			q.logger.Error("Failed to persist cart", zap.Error(err))
		}
		task.ack.complete(err)
	}
}

// Submit queues write. It blocks only when the queue is full.
func (q *WriteQueue) Submit(write func(ctx context.Context) error) *Ack {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return completedAck(ErrClosed)
	}

	ack := newAck()
	q.tasks <- writeTask{write: write, ack: ack}
	return ack
}

// Shutdown stops accepting writes and waits for the queued ones to finish.
func (q *WriteQueue) Shutdown(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.tasks)
	}
	q.mu.Unlock()

	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
