package checkout

import "shopfront/pkg/models"

const (
	flatShippingFee   = 10.0
	freeShippingAbove = 100.0
	taxRate           = 0.10
)

// Quote computes the order pricing from the current cart subtotal.
// Shipping is free strictly above the threshold; a subtotal of exactly
// 100 still pays the flat fee. Tax applies to the subtotal only.
func Quote(subtotal float64) models.Pricing {
	shipping := flatShippingFee
	if subtotal > freeShippingAbove {
		shipping = 0
	}
	tax := subtotal * taxRate
	return models.Pricing{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal + shipping + tax,
	}
}
