package port

import (
	"context"

	"github.com/adiwidodo/gerai/internal/domain"
	"github.com/google/uuid"
)

type CartRepository interface {
	GetCart(ctx context.Context, ownerID string) (domain.Cart, error)

	// AddLine merges quantities when the (owner, variant) line already exists.
	AddLine(ctx context.Context, ownerID string, variantID uuid.UUID, quantity int32) error

	SetQuantity(ctx context.Context, ownerID string, variantID uuid.UUID, quantity int32) error

	// DeleteLine is idempotent: deleting an absent line reports found=false
	// and is not an error.
	DeleteLine(ctx context.Context, ownerID string, variantID uuid.UUID) (bool, error)
}
