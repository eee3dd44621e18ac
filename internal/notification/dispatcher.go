package notification

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Dispatcher fans order snapshots out to a Notifier on background workers.
type Dispatcher struct {
	notifier Notifier
	queue    chan OrderSnapshot
	timeout  time.Duration
	logger   *zap.Logger

	wg        sync.WaitGroup
	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

func NewDispatcher(notifier Notifier, workers, queueSize int, timeout time.Duration, logger *zap.Logger) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}
	d := &Dispatcher{
		notifier: notifier,
		queue:    make(chan OrderSnapshot, queueSize),
		timeout:  timeout,
		logger:   logger,
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.run()
	}
	return d
}

// Dispatch enqueues a snapshot without blocking. It reports false when the
// queue is full or the dispatcher is closed; the snapshot is dropped.
func (d *Dispatcher) Dispatch(order OrderSnapshot) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.logger.Warn("notification dropped, dispatcher closed", zap.String("reference", order.Reference))
		return false
	}

	select {
	case d.queue <- order:
		return true
	default:
		d.logger.Warn("notification dropped, queue full", zap.String("reference", order.Reference))
		return false
	}
}

// Close stops accepting snapshots and waits for queued ones to be delivered
// or for ctx to end.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.queue)
		d.mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for order := range d.queue {
		d.deliver(order)
	}
}

func (d *Dispatcher) deliver(order OrderSnapshot) {
	ctx := context.Background()
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("notifier panicked", zap.String("reference", order.Reference), zap.Any("panic", r))
		}
	}()

	if err := d.notifier.Notify(ctx, order); err != nil {
		d.logger.Error("order notification failed",
			zap.String("reference", order.Reference),
			zap.Error(err),
		)
		return
	}
	d.logger.Info("order notification sent", zap.String("reference", order.Reference))
}
