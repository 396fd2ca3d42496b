package port

import (
	"context"

	"github.com/adiwidodo/gerai/internal/domain"
	"github.com/google/uuid"
)

type OrderRepository interface {
	GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error)
	ListOrders(ctx context.Context, ownerID string) ([]domain.Order, error)

	SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)

	InsertOrder(ctx context.Context, order domain.Order) (uuid.UUID, error)

	UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error

	// MarkShipped records the courier tracking number and moves the order to
	// shipped in the same transaction: a refused transition leaves the order
	// untouched.
	MarkShipped(ctx context.Context, orderID uuid.UUID, trackingNumber string) error
}
