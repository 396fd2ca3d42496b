package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Address struct {
	ID         uuid.UUID
	OwnerID    string
	Recipient  string
	Phone      string
	Street     string
	City       string
	Province   string
	PostalCode string
	IsDefault  bool

	CreatedAt time.Time
}

// Snapshot renders the address as the denormalized string stored on an
// order, so later edits to the address book never change order history.
func (a Address) Snapshot() string {
	return fmt.Sprintf("%s (%s), %s, %s, %s %s",
		a.Recipient, a.Phone, a.Street, a.City, a.Province, a.PostalCode)
}
