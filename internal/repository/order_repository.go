package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/adiwidodo/gerai/internal/domain"
	"github.com/adiwidodo/gerai/internal/port"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var (
	ErrNotFound = errors.New("not found")
)

type orderRepository struct {
	db DBTX
}

func NewOrder(pool *pgxpool.Pool) port.OrderRepository {
	return &orderRepository{db: pool}
}

func NewOrderWithTx(tx pgx.Tx) port.OrderRepository {
	return &orderRepository{db: tx}
}

const selectOrder = `
	SELECT id, owner_id, status, total_amount, total_currency, shipping_cost, admin_fee,
	       shipping_address, payment_method, tracking_number, created_at, updated_at
	FROM orders`

func (r *orderRepository) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	var o domain.Order

	order, err := withTx(ctx, r.db, func(tx pgx.Tx) (domain.Order, error) {
		row := tx.QueryRow(ctx, selectOrder+` WHERE id = $1`, orderID)

		dbOrder, err := scanOrder(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return o, fmt.Errorf("scanOrder: %w", domain.ErrOrderNotFound)
			}
			return o, fmt.Errorf("scanOrder: %w", err)
		}

		lines, err := getOrderLines(ctx, tx, orderID)
		if err != nil {
			return o, fmt.Errorf("getOrderLines: %w", err)
		}

		dbOrder.Lines = lines
		return dbOrder, nil
	})
	if err != nil {
		return o, fmt.Errorf("r.withTx: %w", err)
	}

	return order, nil
}

func (r *orderRepository) ListOrders(ctx context.Context, ownerID string) ([]domain.Order, error) {
	return r.SearchOrders(ctx, domain.OrderFilter{OwnerIDs: []string{ownerID}})
}

func (r *orderRepository) SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("filter.Validate: %w", err)
	}

	var (
		statuses                    []string
		createdAfter, createdBefore *time.Time
	)

	for _, status := range filter.Statuses {
		statuses = append(statuses, string(status))
	}

	if filter.CreatedAt != nil {
		createdAfter = filter.CreatedAt.After
		createdBefore = filter.CreatedAt.Before
	}

	rows, err := r.db.Query(ctx, `
		SELECT o.id, o.owner_id, o.status, o.total_amount, o.total_currency, o.shipping_cost, o.admin_fee,
		       o.shipping_address, o.payment_method, o.tracking_number, o.created_at, o.updated_at,
		       l.id, l.variant_id, l.quantity, l.price_amount, l.price_currency, l.created_at
		FROM orders o
		JOIN order_lines l ON l.order_id = o.id
		WHERE ($1::uuid[] IS NULL OR o.id = ANY ($1))
		  AND ($2::text[] IS NULL OR o.owner_id = ANY ($2))
		  AND ($3::text[] IS NULL OR o.status = ANY ($3))
		  AND ($4::timestamptz IS NULL OR o.created_at > $4)
		  AND ($5::timestamptz IS NULL OR o.created_at < $5)
		ORDER BY o.created_at DESC, l.created_at`,
		nilSliceIfEmpty(filter.IDs),
		nilSliceIfEmpty(filter.OwnerIDs),
		nilSliceIfEmpty(statuses),
		createdAfter, createdBefore)
	if err != nil {
		return nil, fmt.Errorf("db.Query: %w", err)
	}
	defer rows.Close()

	// Use a map to group orders and their lines
	orderMap := make(map[uuid.UUID]domain.Order)
	var orderIDs []uuid.UUID

	for rows.Next() {
		order, line, err := scanOrderWithLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scanOrderWithLine: %w", err)
		}

		if _, exists := orderMap[order.ID]; !exists {
			orderMap[order.ID] = order
			orderIDs = append(orderIDs, order.ID)
		}

		grouped := orderMap[order.ID]
		grouped.Lines = append(grouped.Lines, line)
		orderMap[order.ID] = grouped
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	// keep the query's ordering, a map alone would not
	orders := make([]domain.Order, 0, len(orderMap))
	for _, id := range orderIDs {
		orders = append(orders, orderMap[id])
	}

	return orders, nil
}

func (r *orderRepository) InsertOrder(ctx context.Context, order domain.Order) (uuid.UUID, error) {
	if len(order.Lines) == 0 {
		return uuid.Nil, errors.New("no lines in order")
	}

	orderID, err := withTx(ctx, r.db, func(tx pgx.Tx) (uuid.UUID, error) {
		var orderID uuid.UUID

		err := tx.QueryRow(ctx, `
			INSERT INTO orders (owner_id, status, total_amount, total_currency, shipping_cost, admin_fee,
			                    shipping_address, payment_method)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id`,
			order.OwnerID, string(order.Status),
			order.Total.Amount, order.Total.Currency.String(),
			order.ShippingCost.Amount, order.AdminFee.Amount,
			order.ShippingAddress, string(order.PaymentMethod),
		).Scan(&orderID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("insert order: %w", err)
		}

		for _, line := range order.Lines {
			_, err := tx.Exec(ctx, `
				INSERT INTO order_lines (order_id, variant_id, quantity, price_amount, price_currency)
				VALUES ($1, $2, $3, $4, $5)`,
				orderID, line.VariantID, line.Quantity,
				line.UnitPrice.Amount, line.UnitPrice.Currency.String())
			if err != nil {
				return uuid.Nil, fmt.Errorf("insert order line: %w", err)
			}
		}

		return orderID, nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("r.withTx: %w", err)
	}

	return orderID, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error {
	if orderID == uuid.Nil {
		return fmt.Errorf("orderID is empty")
	}

	if _, err := withTx(ctx, r.db, func(tx pgx.Tx) (struct{}, error) {
		var zero struct{}

		currentStatus, err := lockStatus(ctx, tx, orderID)
		if err != nil {
			return zero, err
		}

		if !currentStatus.CanTransitionTo(status) {
			return zero, fmt.Errorf("%s -> %s: %w", currentStatus, status, domain.ErrStatusTransition)
		}

		_, err = tx.Exec(ctx, `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`,
			orderID, string(status))
		if err != nil {
			return zero, fmt.Errorf("update status: %w", err)
		}

		return zero, nil
	}); err != nil {
		return fmt.Errorf("r.withTx: %w", err)
	}

	return nil
}

// MarkShipped writes the tracking number and the shipped status in one
// transaction. A refused transition leaves the order untouched, in
// particular no tracking number sticks to a cancelled order.
func (r *orderRepository) MarkShipped(ctx context.Context, orderID uuid.UUID, trackingNumber string) error {
	if orderID == uuid.Nil {
		return fmt.Errorf("orderID is empty")
	}

	if _, err := withTx(ctx, r.db, func(tx pgx.Tx) (struct{}, error) {
		var zero struct{}

		currentStatus, err := lockStatus(ctx, tx, orderID)
		if err != nil {
			return zero, err
		}

		if !currentStatus.CanTransitionTo(domain.OrderStatusShipped) {
			return zero, fmt.Errorf("%s -> %s: %w", currentStatus, domain.OrderStatusShipped, domain.ErrStatusTransition)
		}

		_, err = tx.Exec(ctx, `
			UPDATE orders SET status = $2, tracking_number = $3, updated_at = now() WHERE id = $1`,
			orderID, string(domain.OrderStatusShipped), trackingNumber)
		if err != nil {
			return zero, fmt.Errorf("update order: %w", err)
		}

		return zero, nil
	}); err != nil {
		return fmt.Errorf("r.withTx: %w", err)
	}

	return nil
}

func lockStatus(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (domain.OrderStatus, error) {
	var current string

	err := tx.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, orderID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrOrderNotFound
		}
		return "", fmt.Errorf("select status: %w", err)
	}

	status, err := domain.ToOrderStatus(current)
	if err != nil {
		return "", fmt.Errorf("domain.ToOrderStatus[%s]: %w", current, err)
	}

	return status, nil
}

func getOrderLines(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]domain.OrderLine, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, order_id, variant_id, quantity, price_amount, price_currency, created_at
		FROM order_lines
		WHERE order_id = $1
		ORDER BY created_at`, orderID)
	if err != nil {
		return nil, fmt.Errorf("tx.Query: %w", err)
	}
	defer rows.Close()

	var lines []domain.OrderLine

	for rows.Next() {
		var (
			line          domain.OrderLine
			priceAmount   decimal.Decimal
			priceCurrency string
		)

		if err := rows.Scan(&line.ID, &line.OrderID, &line.VariantID, &line.Quantity,
			&priceAmount, &priceCurrency, &line.CreatedAt); err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}

		parsedCurrency, err := currency.ParseISO(priceCurrency)
		if err != nil {
			return nil, fmt.Errorf("currency[%s] is not valid: %w", priceCurrency, err)
		}

		line.UnitPrice = domain.Money{Amount: priceAmount, Currency: parsedCurrency}
		lines = append(lines, line)
	}

	return lines, rows.Err()
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var (
		o              domain.Order
		status         string
		totalAmount    decimal.Decimal
		totalCurrency  string
		shippingCost   decimal.Decimal
		adminFee       decimal.Decimal
		paymentMethod  string
		trackingNumber *string
	)

	err := row.Scan(&o.ID, &o.OwnerID, &status, &totalAmount, &totalCurrency,
		&shippingCost, &adminFee, &o.ShippingAddress, &paymentMethod,
		&trackingNumber, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return o, err
	}

	parsedStatus, err := domain.ToOrderStatus(status)
	if err != nil {
		return o, fmt.Errorf("domain.ToOrderStatus[%s]: %w", status, err)
	}

	parsedCurrency, err := currency.ParseISO(totalCurrency)
	if err != nil {
		return o, fmt.Errorf("currency[%s] is not valid: %w", totalCurrency, err)
	}

	o.Status = parsedStatus
	o.Total = domain.Money{Amount: totalAmount, Currency: parsedCurrency}
	o.ShippingCost = domain.Money{Amount: shippingCost, Currency: parsedCurrency}
	o.AdminFee = domain.Money{Amount: adminFee, Currency: parsedCurrency}
	o.PaymentMethod = domain.PaymentMethod(paymentMethod)
	o.TrackingNumber = trackingNumber

	return o, nil
}

func scanOrderWithLine(rows pgx.Rows) (domain.Order, domain.OrderLine, error) {
	var (
		o              domain.Order
		line           domain.OrderLine
		status         string
		totalAmount    decimal.Decimal
		totalCurrency  string
		shippingCost   decimal.Decimal
		adminFee       decimal.Decimal
		paymentMethod  string
		trackingNumber *string
		lineAmount     decimal.Decimal
		lineCurrency   string
	)

	err := rows.Scan(&o.ID, &o.OwnerID, &status, &totalAmount, &totalCurrency,
		&shippingCost, &adminFee, &o.ShippingAddress, &paymentMethod,
		&trackingNumber, &o.CreatedAt, &o.UpdatedAt,
		&line.ID, &line.VariantID, &line.Quantity, &lineAmount, &lineCurrency, &line.CreatedAt)
	if err != nil {
		return o, line, err
	}

	parsedStatus, err := domain.ToOrderStatus(status)
	if err != nil {
		return o, line, fmt.Errorf("domain.ToOrderStatus[%s]: %w", status, err)
	}

	parsedCurrency, err := currency.ParseISO(totalCurrency)
	if err != nil {
		return o, line, fmt.Errorf("currency[%s] is not valid: %w", totalCurrency, err)
	}

	parsedLineCurrency, err := currency.ParseISO(lineCurrency)
	if err != nil {
		return o, line, fmt.Errorf("currency[%s] is not valid: %w", lineCurrency, err)
	}

	o.Status = parsedStatus
	o.Total = domain.Money{Amount: totalAmount, Currency: parsedCurrency}
	o.ShippingCost = domain.Money{Amount: shippingCost, Currency: parsedCurrency}
	o.AdminFee = domain.Money{Amount: adminFee, Currency: parsedCurrency}
	o.PaymentMethod = domain.PaymentMethod(paymentMethod)
	o.TrackingNumber = trackingNumber

	line.OrderID = o.ID
	line.UnitPrice = domain.Money{Amount: lineAmount, Currency: parsedLineCurrency}

	return o, line, nil
}

func nilSliceIfEmpty[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	return s
}
