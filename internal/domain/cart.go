package domain

import (
	"time"

	"github.com/google/uuid"
)

type Cart struct {
	OwnerID string
	Lines   []CartLine
}

// CartLine is a persisted intent to buy. There is exactly one line per
// (owner, variant); adding the same variant again merges quantities.
type CartLine struct {
	ID        uuid.UUID
	OwnerID   string
	VariantID uuid.UUID
	Quantity  int32

	CreatedAt time.Time
	UpdatedAt time.Time
}
