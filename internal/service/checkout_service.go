package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/adiwidodo/gerai/internal/domain"
	"github.com/adiwidodo/gerai/internal/metrics"
	"github.com/adiwidodo/gerai/internal/notifier"
	"github.com/adiwidodo/gerai/internal/port"
	"github.com/adiwidodo/gerai/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CheckoutService runs the whole checkout as one database transaction:
// address resolution, per-line validation, pricing, order + line inserts,
// guarded stock decrements, cart cleanup and the notification enqueue
// either all commit together or none of them do.
type CheckoutService struct {
	pool       *pgxpool.Pool
	recipients []string
	logger     *slog.Logger
	metrics    *metrics.ServerMetrics
}

type CheckoutOption func(*CheckoutService)

func WithCheckoutMetrics(m *metrics.ServerMetrics) CheckoutOption {
	return func(s *CheckoutService) { s.metrics = m }
}

func NewCheckout(pool *pgxpool.Pool, recipients []string, logger *slog.Logger, opts ...CheckoutOption) *CheckoutService {
	s := &CheckoutService{
		pool:       pool,
		recipients: recipients,
		logger:     logger,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *CheckoutService) Checkout(ctx context.Context, ownerID string, req domain.CheckoutRequest) (domain.CheckoutResult, error) {
	var result domain.CheckoutResult

	if ownerID == "" {
		return result, domain.ErrUnauthenticated
	}
	if len(req.Items) == 0 {
		return result, domain.ErrEmptyCheckout
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return result, domain.ErrQuantityInvalid
		}
	}

	result, err := s.checkoutTx(ctx, ownerID, req)
	if err != nil {
		s.countCheckout(outcomeOf(err))
		return domain.CheckoutResult{}, err
	}

	s.countCheckout("ok")
	s.logger.Info("checkout completed",
		"owner_id", ownerID, "order_id", result.OrderID, "total", result.Total.String(),
		"payment", req.PaymentMethod.Label(), "lines", len(req.Items))

	return result, nil
}

func (s *CheckoutService) checkoutTx(ctx context.Context, ownerID string, req domain.CheckoutRequest) (_ domain.CheckoutResult, txErr error) {
	var result domain.CheckoutResult

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return result, fmt.Errorf("pool.Begin: %w", err)
	}

	defer func() {
		if txErr != nil {
			rollbackErr := tx.Rollback(ctx)
			if rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				txErr = errors.Join(txErr, fmt.Errorf("tx.Rollback: %w", rollbackErr))
			}
		}
	}()

	addresses := repository.NewAddressWithTx(tx)
	catalog := repository.NewCatalogWithTx(tx)
	orders := repository.NewOrderWithTx(tx)
	carts := repository.NewCartWithTx(tx)
	outbox := repository.NewOutboxWithTx(tx)

	// Address resolver: must exist and belong to the requester.
	address, err := addresses.GetAddress(ctx, req.AddressID, ownerID)
	if err != nil {
		return result, fmt.Errorf("addresses.GetAddress: %w", err)
	}

	// Line-item validator: current price and stock, whole checkout fails on
	// the first short line before anything is written.
	validated, err := s.validateItems(ctx, catalog, req.Items)
	if err != nil {
		return result, err
	}

	total, err := aggregateTotal(validated)
	if err != nil {
		return result, fmt.Errorf("aggregateTotal: %w", err)
	}

	// Order writer: header is created at paid, the settlement trust model
	// of this shop. The address is snapshotted as text on purpose.
	order := domain.Order{
		OwnerID:         ownerID,
		Status:          domain.OrderStatusPaid,
		Total:           total,
		ShippingCost:    domain.NewIDR(domain.ShippingCost),
		AdminFee:        domain.NewIDR(domain.AdminFee),
		ShippingAddress: address.Snapshot(),
		PaymentMethod:   req.PaymentMethod,
		Lines:           orderLines(validated),
	}

	orderID, err := orders.InsertOrder(ctx, order)
	if err != nil {
		return result, fmt.Errorf("orders.InsertOrder: %w", err)
	}
	order.ID = orderID

	// Inventory mutator: the guarded decrement is where a concurrent
	// checkout that won the race surfaces, validation above may be stale.
	for _, item := range validated {
		ok, err := catalog.DecrementStock(ctx, item.VariantID, item.Quantity)
		if err != nil {
			return result, fmt.Errorf("catalog.DecrementStock: %w", err)
		}
		if !ok {
			// re-read so the error reports what a concurrent winner left
			// behind, not the stale validation snapshot
			current, err := catalog.GetVariant(ctx, item.VariantID)
			if err != nil {
				return result, fmt.Errorf("catalog.GetVariant: %w", err)
			}
			return result, domain.InsufficientStockError{
				VariantID:   item.VariantID,
				ProductName: item.ProductName,
				Requested:   item.Quantity,
				Available:   current.StockQuantity,
			}
		}
	}

	// Cart cleaner: absent lines are fine, direct purchases never had one.
	for _, item := range validated {
		if _, err := carts.DeleteLine(ctx, ownerID, item.VariantID); err != nil {
			return result, fmt.Errorf("carts.DeleteLine: %w", err)
		}
	}

	// Notifier enqueue: committed with the order, delivered by the
	// dispatcher afterwards.
	text := notifier.FormatOrderSummary(order, address.Recipient)
	for _, recipient := range s.recipients {
		if err := outbox.Enqueue(ctx, domain.OutboxMessage{
			OrderID:     orderID,
			RecipientID: recipient,
			Text:        text,
		}); err != nil {
			return result, fmt.Errorf("outbox.Enqueue: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return result, fmt.Errorf("tx.Commit: %w", err)
	}

	return domain.CheckoutResult{OrderID: orderID, Total: total}, nil
}

func (s *CheckoutService) validateItems(ctx context.Context, catalog port.CatalogRepository, items []domain.CheckoutItem) ([]domain.ValidatedItem, error) {
	validated := make([]domain.ValidatedItem, 0, len(items))

	for _, item := range items {
		variant, err := catalog.GetVariant(ctx, item.VariantID)
		if err != nil {
			return nil, fmt.Errorf("catalog.GetVariant: %w", err)
		}

		if variant.StockQuantity < item.Quantity {
			return nil, domain.InsufficientStockError{
				VariantID:   variant.ID,
				ProductName: variant.ProductName,
				Requested:   item.Quantity,
				Available:   variant.StockQuantity,
			}
		}

		validated = append(validated, domain.ValidatedItem{
			VariantID:   variant.ID,
			ProductName: variant.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   variant.Price,
		})
	}

	return validated, nil
}

// aggregateTotal is exact: whole-unit amounts summed as decimals, plus the
// flat shipping and admin fees.
func aggregateTotal(items []domain.ValidatedItem) (domain.Money, error) {
	total := domain.NewIDR(domain.ShippingCost + domain.AdminFee)

	for _, item := range items {
		var err error
		total, err = total.Add(item.UnitPrice.Mul(item.Quantity))
		if err != nil {
			return domain.Money{}, err
		}
	}

	return total, nil
}

func orderLines(items []domain.ValidatedItem) []domain.OrderLine {
	lines := make([]domain.OrderLine, 0, len(items))

	for _, item := range items {
		lines = append(lines, domain.OrderLine{
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	return lines
}

func (s *CheckoutService) countCheckout(outcome string) {
	if s.metrics != nil {
		s.metrics.Checkouts.WithLabelValues(outcome).Inc()
	}
}

func outcomeOf(err error) string {
	var stockErr domain.InsufficientStockError

	switch {
	case errors.As(err, &stockErr):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrAddressNotFound), errors.Is(err, domain.ErrAddressForbidden):
		return "invalid_address"
	case errors.Is(err, domain.ErrEmptyCheckout), errors.Is(err, domain.ErrQuantityInvalid):
		return "invalid_request"
	default:
		return "error"
	}
}
