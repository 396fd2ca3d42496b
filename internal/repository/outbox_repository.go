package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/adiwidodo/gerai/internal/domain"
	"github.com/adiwidodo/gerai/internal/port"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type outboxRepository struct {
	db DBTX
}

func NewOutbox(pool *pgxpool.Pool) port.OutboxRepository {
	return &outboxRepository{db: pool}
}

func NewOutboxWithTx(tx pgx.Tx) port.OutboxRepository {
	return &outboxRepository{db: tx}
}

func (r *outboxRepository) Enqueue(ctx context.Context, msg domain.OutboxMessage) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO notification_outbox (order_id, recipient_id, message)
		VALUES ($1, $2, $3)`,
		msg.OrderID, msg.RecipientID, msg.Text)
	if err != nil {
		return fmt.Errorf("db.Exec: %w", err)
	}

	return nil
}

func (r *outboxRepository) FetchDue(ctx context.Context, limit int, maxAttempts int32) ([]domain.OutboxMessage, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, recipient_id, message, attempts, next_attempt_at, created_at, sent_at
		FROM notification_outbox
		WHERE sent_at IS NULL AND next_attempt_at <= now() AND attempts < $2
		ORDER BY id
		LIMIT $1`, limit, maxAttempts)
	if err != nil {
		return nil, fmt.Errorf("db.Query: %w", err)
	}
	defer rows.Close()

	var messages []domain.OutboxMessage

	for rows.Next() {
		var msg domain.OutboxMessage
		if err := rows.Scan(&msg.ID, &msg.OrderID, &msg.RecipientID, &msg.Text,
			&msg.Attempts, &msg.NextAttempt, &msg.CreatedAt, &msg.SentAt); err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}

func (r *outboxRepository) MarkSent(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE notification_outbox SET sent_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db.Exec: %w", err)
	}

	return nil
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id int64, nextAttempt time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE notification_outbox
		SET attempts = attempts + 1, next_attempt_at = $2
		WHERE id = $1`, id, nextAttempt)
	if err != nil {
		return fmt.Errorf("db.Exec: %w", err)
	}

	return nil
}
