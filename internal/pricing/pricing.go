// Package pricing computes deterministic order totals from a cart.
//
// Everything here is pure integer arithmetic over minor currency units. Each
// computed quantity is rounded exactly once, half away from zero, so repeated
// computation over the same cart always yields the same totals.
package pricing

import (
	"fmt"
	"math"

	"github.com/storecart/go-cart-pricing/internal/cart"
	"github.com/storecart/go-cart-pricing/internal/catalog"
	"github.com/storecart/go-cart-pricing/internal/coupons"
)

const (
	// BulkQuantityThreshold is the line quantity that triggers the
	// cart-wide bulk bonus.
	BulkQuantityThreshold = 10
	// BulkBonusRate is added to every line's rate when any line in the
	// cart reaches the bulk threshold.
	BulkBonusRate = 0.05
	// MaxEffectiveRate caps the combined per-line discount.
	MaxEffectiveRate = 0.5
)

// OrderTotals is the derived before/after pair for a cart. Both values are
// non-negative and TotalAfterDiscount never exceeds TotalBeforeDiscount.
type OrderTotals struct {
	TotalBeforeDiscount int64 `json:"total_before_discount"`
	TotalAfterDiscount  int64 `json:"total_after_discount"`
}

// EffectiveRate resolves the discount rate for one line: the highest tier the
// quantity satisfies (ties between thresholds go to the highest rate), plus
// the bulk bonus when any line in the whole cart reaches the threshold,
// capped at MaxEffectiveRate. Always in [0, MaxEffectiveRate].
func EffectiveRate(p catalog.Product, quantity int, c cart.Cart) float64 {
	base := 0.0
	for _, tier := range p.Discounts {
		if quantity >= tier.Quantity && tier.Rate > base {
			base = tier.Rate
		}
	}
	if hasBulkLine(c) {
		base += BulkBonusRate
	}
	return math.Min(base, MaxEffectiveRate)
}

func hasBulkLine(c cart.Cart) bool {
	for _, it := range c {
		if it.Quantity >= BulkQuantityThreshold {
			return true
		}
	}
	return false
}

// LineTotal is the discounted price of one line, rounded once.
func LineTotal(p catalog.Product, quantity int, c cart.Cart) int64 {
	rate := EffectiveRate(p, quantity, c)
	return round(float64(p.Price) * float64(quantity) * (1 - rate))
}

// ComputeTotals aggregates the cart into before/after-discount sums, applying
// the coupon (if any) on top of the per-item discounts. Idempotent: the same
// cart and coupon always produce the same totals.
//
// The products map must contain every product referenced by the cart; a
// missing entry is a programming error in the host, reported as a plain
// error rather than a business failure.
func ComputeTotals(c cart.Cart, products map[string]catalog.Product, coupon *coupons.Coupon) (OrderTotals, error) {
	var before, after int64
	for _, it := range c {
		p, ok := products[it.ProductID]
		if !ok {
			return OrderTotals{}, fmt.Errorf("cart references unknown product %q", it.ProductID)
		}
		before += p.Price * int64(it.Quantity)
		after += LineTotal(p, it.Quantity, c)
	}
	if coupon != nil {
		after = coupons.Apply(after, *coupon)
	}
	if after < 0 {
		after = 0
	}
	return OrderTotals{TotalBeforeDiscount: before, TotalAfterDiscount: after}, nil
}

// round is the single rounding policy: nearest integer, half away from zero.
func round(x float64) int64 {
	return int64(math.Round(x))
}
