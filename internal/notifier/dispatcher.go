package notifier

import (
	"context"
	"log/slog"
	"time"

	"github.com/adiwidodo/gerai/internal/metrics"
	"github.com/adiwidodo/gerai/internal/port"
)

// Dispatcher drains the notification outbox. Delivery failures are logged
// and retried with exponential backoff; they never propagate to whatever
// wrote the outbox row. A message that exhausts its attempt budget stays
// in the table for inspection but is no longer picked up.
type Dispatcher struct {
	outbox      port.OutboxRepository
	notifier    port.Notifier
	interval    time.Duration
	baseBackoff time.Duration
	maxAttempts int32
	batchSize   int
	logger      *slog.Logger
	metrics     *metrics.ServerMetrics
}

type DispatcherOption func(*Dispatcher)

func WithMetrics(m *metrics.ServerMetrics) DispatcherOption {
	return func(d *Dispatcher) { d.metrics = m }
}

func WithBackoff(base time.Duration, maxAttempts int32) DispatcherOption {
	return func(d *Dispatcher) {
		d.baseBackoff = base
		d.maxAttempts = maxAttempts
	}
}

func NewDispatcher(outbox port.OutboxRepository, notifier port.Notifier, interval time.Duration, logger *slog.Logger, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		outbox:      outbox,
		notifier:    notifier,
		interval:    interval,
		baseBackoff: 30 * time.Second,
		maxAttempts: 8,
		batchSize:   20,
		logger:      logger,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Run polls until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("notification dispatcher shutting down")
			return
		case <-ticker.C:
			d.DispatchDue(ctx)
		}
	}
}

// DispatchDue sends every currently due outbox message once.
func (d *Dispatcher) DispatchDue(ctx context.Context) {
	messages, err := d.outbox.FetchDue(ctx, d.batchSize, d.maxAttempts)
	if err != nil {
		d.logger.Error("fetch due notifications", "err", err)
		return
	}

	for _, msg := range messages {
		if err := d.notifier.Send(ctx, msg.RecipientID, msg.Text); err != nil {
			d.countSend("error")
			d.logger.Warn("notification send failed",
				"outbox_id", msg.ID, "order_id", msg.OrderID, "attempts", msg.Attempts+1, "err", err)

			nextAttempt := time.Now().Add(d.backoffAfter(msg.Attempts))
			if err := d.outbox.MarkFailed(ctx, msg.ID, nextAttempt); err != nil {
				d.logger.Error("mark notification failed", "outbox_id", msg.ID, "err", err)
			}
			continue
		}

		d.countSend("ok")
		if err := d.outbox.MarkSent(ctx, msg.ID); err != nil {
			d.logger.Error("mark notification sent", "outbox_id", msg.ID, "err", err)
		}
	}
}

func (d *Dispatcher) backoffAfter(attempts int32) time.Duration {
	backoff := d.baseBackoff
	for i := int32(0); i < attempts; i++ {
		backoff *= 2
	}
	return backoff
}

func (d *Dispatcher) countSend(result string) {
	if d.metrics != nil {
		d.metrics.NotificationSend.WithLabelValues(result).Inc()
	}
}
