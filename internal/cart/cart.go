// Package cart holds the cart value type and its stock-gated mutators.
//
// All functions are pure: they never touch storage and never modify the cart
// they are given. Callers embedding this in a concurrent host must serialize
// mutations themselves; there is one logical cart per process.
package cart

import (
	"github.com/storecart/go-cart-pricing/internal/catalog"
)

// RemainingStock is the product's stock minus the quantity already in the
// cart. A value <= 0 means "cannot add more".
func RemainingStock(p catalog.Product, c Cart) int {
	return p.Stock - c.Quantity(p.ProductID)
}

// Add puts one unit of p into the cart: a new line with quantity 1, or an
// increment of the existing line.
//
// Fails with ErrStockInsufficient when no stock remains for the cart, and with
// *StockExceededError when incrementing would pass the product's stock. On
// failure the returned cart equals the input cart.
func Add(c Cart, p catalog.Product) (Cart, error) {
	if RemainingStock(p, c) <= 0 {
		return c, ErrStockInsufficient
	}
	for i, it := range c {
		if it.ProductID == p.ProductID {
			if it.Quantity+1 > p.Stock {
				return c, &StockExceededError{MaxStock: p.Stock}
			}
			out := c.clone()
			out[i].Quantity++
			return out, nil
		}
	}
	out := c.clone()
	return append(out, Item{ProductID: p.ProductID, Quantity: 1}), nil
}

// UpdateQuantity sets the quantity of productID's line.
//
// A quantity <= 0 removes the line and is a success, not an error. A quantity
// above the product's stock fails with *StockExceededError and leaves the cart
// unchanged.
func UpdateQuantity(c Cart, productID string, quantity int, p catalog.Product) (Cart, error) {
	if quantity <= 0 {
		return Remove(c, productID), nil
	}
	if quantity > p.Stock {
		return c, &StockExceededError{MaxStock: p.Stock}
	}
	out := c.clone()
	for i, it := range out {
		if it.ProductID == productID {
			out[i].Quantity = quantity
			return out, nil
		}
	}
	// no existing line: setting a quantity inserts one
	return append(out, Item{ProductID: productID, Quantity: quantity}), nil
}

// Remove drops productID's line unconditionally. Removing an absent line is a
// no-op.
func Remove(c Cart, productID string) Cart {
	out := make(Cart, 0, len(c))
	for _, it := range c {
		if it.ProductID != productID {
			out = append(out, it)
		}
	}
	return out
}
