package domain

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	SoldCount   int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Variant is a purchasable color/size combination of a product, carrying
// its own price and stock. StockQuantity never goes below zero; the
// repository enforces that with a guarded decrement.
type Variant struct {
	ID            uuid.UUID
	ProductID     uuid.UUID
	ProductName   string
	Color         string
	Size          string
	Price         Money
	OriginalPrice *Money
	StockQuantity int32
	SoldCount     int64

	CreatedAt time.Time
	UpdatedAt time.Time
}
