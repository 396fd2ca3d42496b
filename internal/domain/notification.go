package domain

import (
	"time"

	"github.com/google/uuid"
)

// OutboxMessage is a queued chat notification. A row is written in the
// same transaction as its order, so the message exists iff the order does.
type OutboxMessage struct {
	ID          int64
	OrderID     uuid.UUID
	RecipientID string
	Text        string
	Attempts    int32
	NextAttempt time.Time

	CreatedAt time.Time
	SentAt    *time.Time
}
