package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/adiwidodo/gerai/internal/domain"
	"github.com/adiwidodo/gerai/internal/port"
	"github.com/google/uuid"
)

// OrderService covers the post-checkout lifecycle: owners read and confirm
// their orders, the back office ships and cancels them. Status transitions
// are enforced by the repository.
type OrderService struct {
	orders port.OrderRepository
	logger *slog.Logger
}

func NewOrder(orders port.OrderRepository, logger *slog.Logger) *OrderService {
	return &OrderService{
		orders: orders,
		logger: logger,
	}
}

func (s *OrderService) GetOrder(ctx context.Context, ownerID string, orderID uuid.UUID) (domain.Order, error) {
	var o domain.Order

	if ownerID == "" {
		return o, domain.ErrUnauthenticated
	}

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return o, fmt.Errorf("orders.GetOrder: %w", err)
	}

	// Owners only see their own orders; leak nothing about other ids.
	if order.OwnerID != ownerID {
		return o, domain.ErrOrderNotFound
	}

	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, ownerID string) ([]domain.Order, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}

	orders, err := s.orders.ListOrders(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("orders.ListOrders: %w", err)
	}

	return orders, nil
}

// MarkShipped is a back-office action: sets the tracking number and moves
// paid -> shipped. Both writes happen in one transaction, so a refused
// transition never leaves a tracking number behind.
func (s *OrderService) MarkShipped(ctx context.Context, orderID uuid.UUID, trackingNumber string) error {
	if trackingNumber == "" {
		return fmt.Errorf("tracking number is empty")
	}

	if err := s.orders.MarkShipped(ctx, orderID, trackingNumber); err != nil {
		return fmt.Errorf("orders.MarkShipped: %w", err)
	}

	s.logger.Info("order shipped", "order_id", orderID, "tracking_number", trackingNumber)
	return nil
}

// ConfirmDelivered is the owner's delivery confirmation.
func (s *OrderService) ConfirmDelivered(ctx context.Context, ownerID string, orderID uuid.UUID) error {
	if _, err := s.GetOrder(ctx, ownerID, orderID); err != nil {
		return err
	}

	if err := s.orders.UpdateStatus(ctx, orderID, domain.OrderStatusDelivered); err != nil {
		return fmt.Errorf("orders.UpdateStatus: %w", err)
	}

	s.logger.Info("order delivered", "order_id", orderID, "owner_id", ownerID)
	return nil
}

func (s *OrderService) CancelOrder(ctx context.Context, ownerID string, orderID uuid.UUID) error {
	if _, err := s.GetOrder(ctx, ownerID, orderID); err != nil {
		return err
	}

	if err := s.orders.UpdateStatus(ctx, orderID, domain.OrderStatusCancelled); err != nil {
		return fmt.Errorf("orders.UpdateStatus: %w", err)
	}

	s.logger.Info("order cancelled", "order_id", orderID, "owner_id", ownerID)
	return nil
}
