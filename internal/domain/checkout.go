package domain

import (
	"github.com/google/uuid"
)

// Fixed fees, in whole currency units. Flat-rate shipping is a known
// simplification: fees are not computed from weight or distance.
const (
	ShippingCost int64 = 15000
	AdminFee     int64 = 1000
)

// CheckoutRequest is the inbound checkout action. Client-sent prices and
// totals are advisory only; the workflow prices every line from the
// current variant row and recomputes the total server-side.
type CheckoutRequest struct {
	AddressID     uuid.UUID
	PaymentMethod PaymentMethod
	Items         []CheckoutItem
}

type CheckoutItem struct {
	VariantID uuid.UUID
	Quantity  int32
}

// ValidatedItem is a checkout item enriched with the price snapshot read
// inside the checkout transaction.
type ValidatedItem struct {
	VariantID   uuid.UUID
	ProductName string
	Quantity    int32
	UnitPrice   Money
}

type CheckoutResult struct {
	OrderID uuid.UUID
	Total   Money
}
