package notifier

import (
	"fmt"
	"strings"

	"github.com/adiwidodo/gerai/internal/domain"
)

// FormatOrderSummary renders the chat message for a fresh order: truncated
// order id, customer name, total, payment label, status, shipping address
// and the itemized lines.
func FormatOrderSummary(order domain.Order, customerName string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Order #%s\n", shortID(order.ID.String()))
	fmt.Fprintf(&b, "Customer: %s\n", customerName)
	fmt.Fprintf(&b, "Total: %s\n", order.Total)
	fmt.Fprintf(&b, "Payment: %s\n", order.PaymentMethod.Label())
	fmt.Fprintf(&b, "Status: %s\n", order.Status)
	fmt.Fprintf(&b, "Ship to: %s\n", order.ShippingAddress)

	b.WriteString("Items:\n")
	for _, line := range order.Lines {
		fmt.Fprintf(&b, "- %s x%d @ %s\n", shortID(line.VariantID.String()), line.Quantity, line.UnitPrice)
	}

	return b.String()
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
