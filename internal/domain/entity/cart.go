package entity

// CartItem is one line of the cart. UnitPrice is the price snapshot taken the
// first time the product was added; later adds only bump the quantity.
type CartItem struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// CartItems is the ordered cart content, keyed by item ID (unique within the cart).
type CartItems []CartItem

// Subtotal sums unit price times quantity over all lines.
func (c CartItems) Subtotal() float64 {
	var total float64
	for _, it := range c {
		total += it.UnitPrice * float64(it.Quantity)
	}
	return total
}

// Count sums the quantities of all lines.
func (c CartItems) Count() int {
	n := 0
	for _, it := range c {
		n += it.Quantity
	}
	return n
}

// Clone returns a deep copy so callers cannot mutate engine state.
func (c CartItems) Clone() CartItems {
	if c == nil {
		return nil
	}
	out := make(CartItems, len(c))
	copy(out, c)
	return out
}
