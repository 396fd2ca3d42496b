package port

import (
	"context"

	"github.com/adiwidodo/gerai/internal/domain"
	"github.com/google/uuid"
)

type AddressRepository interface {
	// GetAddress fails with domain.ErrAddressNotFound when the id does not
	// exist and domain.ErrAddressForbidden when it is owned by someone else.
	GetAddress(ctx context.Context, addressID uuid.UUID, ownerID string) (domain.Address, error)

	ListAddresses(ctx context.Context, ownerID string) ([]domain.Address, error)

	InsertAddress(ctx context.Context, address domain.Address) (uuid.UUID, error)
}
