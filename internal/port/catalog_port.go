package port

import (
	"context"

	"github.com/adiwidodo/gerai/internal/domain"
	"github.com/google/uuid"
)

type CatalogRepository interface {
	GetVariant(ctx context.Context, variantID uuid.UUID) (domain.Variant, error)

	// DecrementStock is the atomic compare-and-decrement: it subtracts
	// quantity from the variant's stock, bumps the variant's and the parent
	// product's sold counters, and reports ok=false without mutating
	// anything when stock is below quantity.
	DecrementStock(ctx context.Context, variantID uuid.UUID, quantity int32) (bool, error)

	InsertProduct(ctx context.Context, product domain.Product) (uuid.UUID, error)
	InsertVariant(ctx context.Context, variant domain.Variant) (uuid.UUID, error)
}
