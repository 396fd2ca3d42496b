package port

import (
	"context"
	"time"

	"github.com/adiwidodo/gerai/internal/domain"
)

type OutboxRepository interface {
	Enqueue(ctx context.Context, msg domain.OutboxMessage) error

	// FetchDue returns unsent messages whose next attempt time has passed
	// and whose attempt budget is not exhausted.
	FetchDue(ctx context.Context, limit int, maxAttempts int32) ([]domain.OutboxMessage, error)

	MarkSent(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, nextAttempt time.Time) error
}

// Notifier delivers one message to one recipient of the external chat
// channel. Implementations must not retry internally; the dispatcher owns
// the retry policy.
type Notifier interface {
	Send(ctx context.Context, recipientID, text string) error
}
