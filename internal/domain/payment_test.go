package domain_test

import (
	"testing"

	"github.com/adiwidodo/gerai/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestPaymentMethodLabel(t *testing.T) {
	tests := []struct {
		method domain.PaymentMethod
		want   string
	}{
		{domain.PaymentQRIS, "QRIS"},
		{domain.PaymentGoPay, "GoPay"},
		{domain.PaymentOVO, "OVO"},
		{domain.PaymentDana, "DANA"},
		{domain.PaymentShopeePay, "ShopeePay"},
		{domain.PaymentBCA, "BCA Virtual Account"},
		{domain.PaymentMandiri, "Mandiri Virtual Account"},
		{domain.PaymentBNI, "BNI Virtual Account"},
		{domain.PaymentBRI, "BRI Virtual Account"},
		{domain.PaymentShopeePaylater, "Shopee PayLater"},
		{domain.PaymentGoPayLater, "GoPay Later"},
		// unrecognized codes keep their raw value but display the fallback
		{"cash-on-delivery", "Unknown Payment"},
		{"", "Unknown Payment"},
	}

	for _, tt := range tests {
		t.Run(string(tt.method), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.method.Label())
		})
	}
}

func TestPaymentMethods(t *testing.T) {
	methods := domain.PaymentMethods()
	assert.Len(t, methods, 11)
	assert.Contains(t, methods, domain.PaymentQRIS)
}
