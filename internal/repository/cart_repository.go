package repository

import (
	"context"
	"fmt"

	"github.com/adiwidodo/gerai/internal/domain"
	"github.com/adiwidodo/gerai/internal/port"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type cartRepository struct {
	db DBTX
}

func NewCart(pool *pgxpool.Pool) port.CartRepository {
	return &cartRepository{db: pool}
}

func NewCartWithTx(tx pgx.Tx) port.CartRepository {
	return &cartRepository{db: tx}
}

func (r *cartRepository) GetCart(ctx context.Context, ownerID string) (domain.Cart, error) {
	var c domain.Cart

	rows, err := r.db.Query(ctx, `
		SELECT id, owner_id, variant_id, quantity, created_at, updated_at
		FROM cart_lines
		WHERE owner_id = $1
		ORDER BY created_at`, ownerID)
	if err != nil {
		return c, fmt.Errorf("db.Query: %w", err)
	}
	defer rows.Close()

	var lines []domain.CartLine

	for rows.Next() {
		var line domain.CartLine
		if err := rows.Scan(&line.ID, &line.OwnerID, &line.VariantID,
			&line.Quantity, &line.CreatedAt, &line.UpdatedAt); err != nil {
			return c, fmt.Errorf("rows.Scan: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return c, fmt.Errorf("rows.Err: %w", err)
	}

	return domain.Cart{
		OwnerID: ownerID,
		Lines:   lines,
	}, nil
}

func (r *cartRepository) AddLine(ctx context.Context, ownerID string, variantID uuid.UUID, quantity int32) error {
	if quantity <= 0 {
		return domain.ErrQuantityInvalid
	}

	// One line per (owner, variant): re-adding merges quantities.
	_, err := r.db.Exec(ctx, `
		INSERT INTO cart_lines (owner_id, variant_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner_id, variant_id)
		DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity, updated_at = now()`,
		ownerID, variantID, quantity)
	if err != nil {
		return fmt.Errorf("db.Exec: %w", err)
	}

	return nil
}

func (r *cartRepository) SetQuantity(ctx context.Context, ownerID string, variantID uuid.UUID, quantity int32) error {
	if quantity <= 0 {
		return domain.ErrQuantityInvalid
	}

	cmdTag, err := r.db.Exec(ctx, `
		UPDATE cart_lines
		SET quantity = $3, updated_at = now()
		WHERE owner_id = $1 AND variant_id = $2`,
		ownerID, variantID, quantity)
	if err != nil {
		return fmt.Errorf("db.Exec: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *cartRepository) DeleteLine(ctx context.Context, ownerID string, variantID uuid.UUID) (bool, error) {
	cmdTag, err := r.db.Exec(ctx, `
		DELETE FROM cart_lines
		WHERE owner_id = $1 AND variant_id = $2`,
		ownerID, variantID)
	if err != nil {
		return false, fmt.Errorf("db.Exec: %w", err)
	}

	return cmdTag.RowsAffected() > 0, nil
}
