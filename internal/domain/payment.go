package domain

type PaymentMethod string

const (
	PaymentQRIS           PaymentMethod = "qris"
	PaymentGoPay          PaymentMethod = "gopay"
	PaymentOVO            PaymentMethod = "ovo"
	PaymentDana           PaymentMethod = "dana"
	PaymentShopeePay      PaymentMethod = "shopeepay"
	PaymentBCA            PaymentMethod = "bca"
	PaymentMandiri        PaymentMethod = "mandiri"
	PaymentBNI            PaymentMethod = "bni"
	PaymentBRI            PaymentMethod = "bri"
	PaymentShopeePaylater PaymentMethod = "shopee_paylater"
	PaymentGoPayLater     PaymentMethod = "gopay_later"
)

var paymentLabels = map[PaymentMethod]string{
	PaymentQRIS:           "QRIS",
	PaymentGoPay:          "GoPay",
	PaymentOVO:            "OVO",
	PaymentDana:           "DANA",
	PaymentShopeePay:      "ShopeePay",
	PaymentBCA:            "BCA Virtual Account",
	PaymentMandiri:        "Mandiri Virtual Account",
	PaymentBNI:            "BNI Virtual Account",
	PaymentBRI:            "BRI Virtual Account",
	PaymentShopeePaylater: "Shopee PayLater",
	PaymentGoPayLater:     "GoPay Later",
}

// Label returns the display name for a payment method. Unrecognized codes
// keep their raw value in the order record and display as "Unknown
// Payment"; they never abort a checkout.
func (p PaymentMethod) Label() string {
	if label, ok := paymentLabels[p]; ok {
		return label
	}
	return "Unknown Payment"
}

func PaymentMethods() []PaymentMethod {
	result := make([]PaymentMethod, 0, len(paymentLabels))
	for method := range paymentLabels {
		result = append(result, method)
	}
	return result
}
