package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrDispatcherClosed is returned by Publish after Close.
var ErrDispatcherClosed = errors.New("event dispatcher closed")

const publishTimeout = 5 * time.Second

// Dispatcher is a Publisher that queues events and hands them to the target
// publisher from a pool of workers, so callers never wait on the broker.
type Dispatcher struct {
	size   int
	jobs   chan Event
	target Publisher
	logger *zap.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a dispatcher with size workers and a queue of queueSize events.
func NewDispatcher(size, queueSize int, target Publisher, logger *zap.Logger) *Dispatcher {
	if size <= 0 {
		size = 1
	}
	if queueSize <= 0 {
		queueSize = size
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		size:   size,
		jobs:   make(chan Event, queueSize),
		target: target,
		logger: logger,
	}
}

// Start launches the worker goroutines. Workers stop when ctx is done or after Close drains the queue.
func (d *Dispatcher) Start(ctx context.Context) {
	for i := 0; i < d.size; i++ {
		d.wg.Add(1)
		go d.worker(ctx, i)
	}
}

func (d *Dispatcher) worker(ctx context.Context, id int) {
	defer d.wg.Done()
	d.logger.Debug("event worker started", zap.Int("worker", id))
	for {
		select {
		case ev, ok := <-d.jobs:
			if !ok {
				d.logger.Debug("event worker drained", zap.Int("worker", id))
				return
			}
			d.deliver(ctx, ev)
		case <-ctx.Done():
			d.logger.Debug("event worker shutting down", zap.Int("worker", id))
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, ev Event) {
	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := d.target.Publish(pubCtx, ev); err != nil {
		d.logger.Warn("failed to deliver event",
			zap.String("type", ev.Type),
			zap.String("reservationId", ev.Reservation.ID),
			zap.Error(err))
	}
}

// Publish queues ev. It blocks only while the queue is full.
func (d *Dispatcher) Publish(ctx context.Context, ev Event) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrDispatcherClosed
	}
	select {
	case d.jobs <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting events, waits for the queue to drain and closes the target.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.jobs)
	d.mu.Unlock()

	d.wg.Wait()
	return d.target.Close()
}
