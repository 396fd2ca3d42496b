package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrUnauthenticated  = errors.New("no identity on request")
	ErrAddressNotFound  = errors.New("address not found")
	ErrAddressForbidden = errors.New("address belongs to another user")
	ErrVariantNotFound  = errors.New("variant not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrEmptyCheckout    = errors.New("checkout has no items")
	ErrQuantityInvalid  = errors.New("quantity must be positive")
	ErrStatusTransition = errors.New("illegal order status transition")
)

// InsufficientStockError names the offending variant so the storefront can
// tell the customer which line to fix.
type InsufficientStockError struct {
	VariantID   uuid.UUID
	ProductName string
	Requested   int32
	Available   int32
}

func (e InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (variant %s): requested %d, available %d",
		e.ProductName, e.VariantID, e.Requested, e.Available)
}
