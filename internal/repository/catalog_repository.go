package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/adiwidodo/gerai/internal/domain"
	"github.com/adiwidodo/gerai/internal/port"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type catalogRepository struct {
	db DBTX
}

func NewCatalog(pool *pgxpool.Pool) port.CatalogRepository {
	return &catalogRepository{db: pool}
}

func NewCatalogWithTx(tx pgx.Tx) port.CatalogRepository {
	return &catalogRepository{db: tx}
}

func (r *catalogRepository) GetVariant(ctx context.Context, variantID uuid.UUID) (domain.Variant, error) {
	var v domain.Variant

	row := r.db.QueryRow(ctx, `
		SELECT v.id, v.product_id, p.name, v.color, v.size,
		       v.price_amount, v.price_currency, v.original_price_amount,
		       v.stock_quantity, v.sold_count, v.created_at, v.updated_at
		FROM variants v
		JOIN products p ON p.id = v.product_id
		WHERE v.id = $1`, variantID)

	variant, err := scanVariant(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return v, domain.ErrVariantNotFound
		}
		return v, fmt.Errorf("scanVariant: %w", err)
	}

	return variant, nil
}

// DecrementStock subtracts quantity from the variant's stock and bumps both
// sold counters in a single guarded statement. The WHERE clause is the
// compare-and-decrement: under concurrent checkouts the row lock serializes
// the updates and the loser sees ok=false, so stock never goes negative.
func (r *catalogRepository) DecrementStock(ctx context.Context, variantID uuid.UUID, quantity int32) (bool, error) {
	if quantity <= 0 {
		return false, domain.ErrQuantityInvalid
	}

	cmdTag, err := r.db.Exec(ctx, `
		WITH decremented AS (
			UPDATE variants
			SET stock_quantity = stock_quantity - $2,
			    sold_count = sold_count + $2,
			    updated_at = now()
			WHERE id = $1 AND stock_quantity >= $2
			RETURNING product_id
		)
		UPDATE products p
		SET sold_count = p.sold_count + $2, updated_at = now()
		FROM decremented d
		WHERE p.id = d.product_id`,
		variantID, quantity)
	if err != nil {
		return false, fmt.Errorf("db.Exec: %w", err)
	}

	return cmdTag.RowsAffected() > 0, nil
}

func (r *catalogRepository) InsertProduct(ctx context.Context, product domain.Product) (uuid.UUID, error) {
	var productID uuid.UUID

	err := r.db.QueryRow(ctx, `
		INSERT INTO products (name, description)
		VALUES ($1, $2)
		RETURNING id`,
		product.Name, product.Description,
	).Scan(&productID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("db.QueryRow: %w", err)
	}

	return productID, nil
}

func (r *catalogRepository) InsertVariant(ctx context.Context, variant domain.Variant) (uuid.UUID, error) {
	var variantID uuid.UUID

	var originalPrice *decimal.Decimal
	if variant.OriginalPrice != nil {
		originalPrice = lo.ToPtr(variant.OriginalPrice.Amount)
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO variants (product_id, color, size, price_amount, price_currency, original_price_amount, stock_quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		variant.ProductID, variant.Color, variant.Size,
		variant.Price.Amount, variant.Price.Currency.String(),
		originalPrice, variant.StockQuantity,
	).Scan(&variantID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("db.QueryRow: %w", err)
	}

	return variantID, nil
}

func scanVariant(row pgx.Row) (domain.Variant, error) {
	var (
		v             domain.Variant
		priceAmount   decimal.Decimal
		priceCurrency string
		originalPrice *decimal.Decimal
	)

	err := row.Scan(&v.ID, &v.ProductID, &v.ProductName, &v.Color, &v.Size,
		&priceAmount, &priceCurrency, &originalPrice,
		&v.StockQuantity, &v.SoldCount, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return v, err
	}

	parsedCurrency, err := currency.ParseISO(priceCurrency)
	if err != nil {
		return v, fmt.Errorf("currency[%s] is not valid: %w", priceCurrency, err)
	}

	v.Price = domain.Money{Amount: priceAmount, Currency: parsedCurrency}
	if originalPrice != nil {
		v.OriginalPrice = lo.ToPtr(domain.Money{Amount: *originalPrice, Currency: parsedCurrency})
	}

	return v, nil
}
