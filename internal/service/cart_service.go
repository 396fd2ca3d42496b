package service

import (
	"context"
	"fmt"

	"github.com/adiwidodo/gerai/internal/domain"
	"github.com/adiwidodo/gerai/internal/port"
	"github.com/google/uuid"
)

type CartService struct {
	carts   port.CartRepository
	catalog port.CatalogRepository
}

func NewCart(carts port.CartRepository, catalog port.CatalogRepository) *CartService {
	return &CartService{
		carts:   carts,
		catalog: catalog,
	}
}

func (s *CartService) GetCart(ctx context.Context, ownerID string) (domain.Cart, error) {
	if ownerID == "" {
		return domain.Cart{}, domain.ErrUnauthenticated
	}

	cart, err := s.carts.GetCart(ctx, ownerID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("carts.GetCart: %w", err)
	}

	return cart, nil
}

// AddToCart merges quantities when the variant is already in the cart.
// Stock is not reserved here; availability is checked again at checkout.
func (s *CartService) AddToCart(ctx context.Context, ownerID string, variantID uuid.UUID, quantity int32) error {
	if ownerID == "" {
		return domain.ErrUnauthenticated
	}
	if quantity <= 0 {
		return domain.ErrQuantityInvalid
	}

	if _, err := s.catalog.GetVariant(ctx, variantID); err != nil {
		return fmt.Errorf("catalog.GetVariant: %w", err)
	}

	if err := s.carts.AddLine(ctx, ownerID, variantID, quantity); err != nil {
		return fmt.Errorf("carts.AddLine: %w", err)
	}

	return nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, ownerID string, variantID uuid.UUID, quantity int32) error {
	if ownerID == "" {
		return domain.ErrUnauthenticated
	}

	if err := s.carts.SetQuantity(ctx, ownerID, variantID, quantity); err != nil {
		return fmt.Errorf("carts.SetQuantity: %w", err)
	}

	return nil
}

// RemoveFromCart is idempotent, removing an absent line is not an error.
func (s *CartService) RemoveFromCart(ctx context.Context, ownerID string, variantID uuid.UUID) error {
	if ownerID == "" {
		return domain.ErrUnauthenticated
	}

	if _, err := s.carts.DeleteLine(ctx, ownerID, variantID); err != nil {
		return fmt.Errorf("carts.DeleteLine: %w", err)
	}

	return nil
}
