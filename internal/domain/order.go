package domain

import (
	"time"

	"github.com/google/uuid"
)

type Order struct {
	ID              uuid.UUID
	OwnerID         string
	Status          OrderStatus
	Total           Money
	ShippingCost    Money
	AdminFee        Money
	ShippingAddress string // denormalized snapshot, not a live reference
	PaymentMethod   PaymentMethod
	TrackingNumber  *string
	Lines           []OrderLine

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderLine is immutable after checkout; UnitPrice is the price at
// purchase time, decoupled from later catalog price changes.
type OrderLine struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	VariantID uuid.UUID
	Quantity  int32
	UnitPrice Money

	CreatedAt time.Time
}

func (o Order) Subtotal() (Money, error) {
	sum := NewIDR(0)

	for _, line := range o.Lines {
		var err error
		sum, err = sum.Add(line.UnitPrice.Mul(line.Quantity))
		if err != nil {
			return Money{}, err
		}
	}

	return sum, nil
}
