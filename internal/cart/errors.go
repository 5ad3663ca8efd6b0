package cart

import (
	"errors"
	"fmt"
)

// ErrStockInsufficient is returned by Add when a product has no remaining
// stock left for the current cart.
var ErrStockInsufficient = errors.New("stock insufficient")

// StockExceededError is returned when a requested quantity would exceed a
// product's available stock. MaxStock carries the limit so the host layer can
// surface it to the user.
type StockExceededError struct {
	MaxStock int
}

func (e *StockExceededError) Error() string {
	return fmt.Sprintf("stock exceeded: at most %d available", e.MaxStock)
}
