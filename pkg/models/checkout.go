package models

// ShippingInfo is the form data collected on the shipping step.
type ShippingInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// PaymentDetails is the form data collected on the payment step. Card
// fields are only required when Method is "credit_card".
type PaymentDetails struct {
	Method     string `json:"method"`
	CardNumber string `json:"card_number,omitempty"`
	Expiry     string `json:"expiry,omitempty"`
	CVV        string `json:"cvv,omitempty"`
}

// Pricing is the order quote derived from the live cart. It is recomputed
// on every request, never stored.
type Pricing struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}
