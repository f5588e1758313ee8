package models

// LineItem is one product entry in a cart, uniquely keyed by ProductID.
// Display attributes are captured at add time so the cart renders without
// another catalog round trip.
type LineItem struct {
	ProductID   string  `json:"product_id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Image       string  `json:"image,omitempty"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	Brand       string  `json:"brand,omitempty"`
}

// CartView is the cart plus its derived totals, as returned to the UI.
type CartView struct {
	Items     []LineItem `json:"items"`
	Total     float64    `json:"total"`
	ItemCount int        `json:"item_count"`
}

type AddItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// UpdateQuantityRequest deliberately has no binding tags: a quantity of
// zero or below is a valid request meaning "remove the line item".
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}
