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
)

type addressRepository struct {
	db DBTX
}

func NewAddress(pool *pgxpool.Pool) port.AddressRepository {
	return &addressRepository{db: pool}
}

func NewAddressWithTx(tx pgx.Tx) port.AddressRepository {
	return &addressRepository{db: tx}
}

const selectAddress = `
	SELECT id, owner_id, recipient, phone, street, city, province, postal_code, is_default, created_at
	FROM addresses`

func (r *addressRepository) GetAddress(ctx context.Context, addressID uuid.UUID, ownerID string) (domain.Address, error) {
	var a domain.Address

	row := r.db.QueryRow(ctx, selectAddress+` WHERE id = $1`, addressID)

	address, err := scanAddress(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return a, domain.ErrAddressNotFound
		}
		return a, fmt.Errorf("scanAddress: %w", err)
	}

	// Ownership check happens here, not in SQL, so not-found and forbidden
	// stay distinguishable for the caller.
	if address.OwnerID != ownerID {
		return a, domain.ErrAddressForbidden
	}

	return address, nil
}

func (r *addressRepository) ListAddresses(ctx context.Context, ownerID string) ([]domain.Address, error) {
	rows, err := r.db.Query(ctx, selectAddress+` WHERE owner_id = $1 ORDER BY is_default DESC, created_at`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db.Query: %w", err)
	}
	defer rows.Close()

	var addresses []domain.Address

	for rows.Next() {
		address, err := scanAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("scanAddress: %w", err)
		}
		addresses = append(addresses, address)
	}

	return addresses, rows.Err()
}

func (r *addressRepository) InsertAddress(ctx context.Context, address domain.Address) (uuid.UUID, error) {
	var addressID uuid.UUID

	err := r.db.QueryRow(ctx, `
		INSERT INTO addresses (owner_id, recipient, phone, street, city, province, postal_code, is_default)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		address.OwnerID, address.Recipient, address.Phone, address.Street,
		address.City, address.Province, address.PostalCode, address.IsDefault,
	).Scan(&addressID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("db.QueryRow: %w", err)
	}

	return addressID, nil
}

func scanAddress(row pgx.Row) (domain.Address, error) {
	var a domain.Address

	err := row.Scan(&a.ID, &a.OwnerID, &a.Recipient, &a.Phone, &a.Street,
		&a.City, &a.Province, &a.PostalCode, &a.IsDefault, &a.CreatedAt)
	if err != nil {
		return a, err
	}

	return a, nil
}
