package cart

// Item is one cart line: a product reference plus a positive quantity.
type Item struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Cart is an ordered collection of lines, unique by product id. It is a plain
// value: every mutator takes a Cart and returns the updated Cart, the caller
// owns the single mutable reference.
type Cart []Item

// Quantity returns the quantity of productID in the cart, or 0 when absent.
func (c Cart) Quantity(productID string) int {
	for _, it := range c {
		if it.ProductID == productID {
			return it.Quantity
		}
	}
	return 0
}

// Contains reports whether the cart has a line for productID.
func (c Cart) Contains(productID string) bool {
	for _, it := range c {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}

// clone returns a copy so mutators never alias the caller's backing array.
func (c Cart) clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}
