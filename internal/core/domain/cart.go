package domain

// CartItem is one line of the user's cart.
type CartItem struct {
	ID        string  `json:"_id,omitempty"`
	ProductID string  `json:"productId,omitempty"`
	Name      string  `json:"name,omitempty"`
	Price     float64 `json:"price,omitempty"`
	Quantity  int     `json:"quantity"`
}

// Cart is the resource returned by GET /cart and every cart mutation.
type Cart struct {
	Items []CartItem `json:"items"`
}

// Count is the cart summary shown on the navbar badge.
func (c Cart) Count() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// Total is the cart value at listed prices.
func (c Cart) Total() float64 {
	var sum float64
	for _, it := range c.Items {
		sum += it.Price * float64(it.Quantity)
	}
	return sum
}
