package repository_test

import (
	"context"
	"testing"

	"github.com/adiwidodo/gerai/internal/domain"
	"github.com/adiwidodo/gerai/internal/port"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"
)

func fakeAddress(ownerID string) domain.Address {
	return domain.Address{
		OwnerID:    ownerID,
		Recipient:  gofakeit.Name(),
		Phone:      gofakeit.Phone(),
		Street:     gofakeit.Street(),
		City:       gofakeit.City(),
		Province:   gofakeit.State(),
		PostalCode: gofakeit.Zip(),
	}
}

// seedVariant inserts a product with one variant and returns the variant as
// stored, including its generated ids.
func seedVariant(t *testing.T, ctx context.Context, catalog port.CatalogRepository, price int64, stock int32) domain.Variant {
	t.Helper()

	productID, err := catalog.InsertProduct(ctx, domain.Product{
		Name:        gofakeit.ProductName(),
		Description: gofakeit.ProductDescription(),
	})
	require.NoError(t, err)

	variantID, err := catalog.InsertVariant(ctx, domain.Variant{
		ProductID:     productID,
		Color:         gofakeit.Color(),
		Size:          gofakeit.RandomString([]string{"S", "M", "L", "XL"}),
		Price:         domain.NewIDR(price),
		StockQuantity: stock,
	})
	require.NoError(t, err)

	variant, err := catalog.GetVariant(ctx, variantID)
	require.NoError(t, err)

	return variant
}
