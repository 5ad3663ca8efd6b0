package coupons

import (
	"errors"
	"fmt"
)

// ErrDuplicateCode is returned when a coupon code is already registered
// (codes compare case-insensitively).
var ErrDuplicateCode = errors.New("coupon code already exists")

// ErrNotFound is returned when an operation references an unknown code.
var ErrNotFound = errors.New("coupon not found")

// IneligibleError is returned when a percentage coupon is selected below the
// minimum order total. MinOrderAmount carries the threshold for the host
// layer's message.
type IneligibleError struct {
	MinOrderAmount int64
}

func (e *IneligibleError) Error() string {
	return fmt.Sprintf("coupon ineligible: order total below %d", e.MinOrderAmount)
}

// InvalidCouponError reports a coupon field outside its allowed range.
type InvalidCouponError struct {
	Field  string
	Reason string
}

func (e *InvalidCouponError) Error() string {
	return fmt.Sprintf("invalid coupon: %s %s", e.Field, e.Reason)
}
