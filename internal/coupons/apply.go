package coupons

import "math"

// Apply reduces an order total by the coupon's discount. Amount coupons floor
// at zero; percentage coupons round half away from zero, once.
func Apply(total int64, c Coupon) int64 {
	switch c.DiscountType {
	case DiscountAmount:
		out := total - c.DiscountValue
		if out < 0 {
			return 0
		}
		return out
	case DiscountPercentage:
		return int64(math.Round(float64(total) * (1 - float64(c.DiscountValue)/100)))
	default:
		return total
	}
}

// CanSelect gates coupon selection. Percentage coupons require the current
// after-discount total to be at least MinPercentageOrderTotal; amount coupons
// have no minimum. The gate runs at selection time only: a coupon already
// selected stays applied even if later cart edits drop the total below the
// threshold.
func CanSelect(c Coupon, currentTotal int64) error {
	if c.DiscountType == DiscountPercentage && currentTotal < MinPercentageOrderTotal {
		return &IneligibleError{MinOrderAmount: MinPercentageOrderTotal}
	}
	return nil
}
