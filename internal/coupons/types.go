package coupons

import (
	"strings"
	"time"
)

// DiscountType enumerates how a coupon reduces the order total.
type DiscountType string

const (
	// DiscountAmount subtracts a flat number of minor currency units.
	DiscountAmount DiscountType = "amount"
	// DiscountPercentage reduces the total by value percent.
	DiscountPercentage DiscountType = "percentage"
)

const (
	// MinPercentageOrderTotal is the order total (after item discounts)
	// required before a percentage coupon may be selected.
	MinPercentageOrderTotal int64 = 10000
	// MaxAmountValue caps the flat discount accepted at coupon creation.
	MaxAmountValue int64 = 100000
)

// Coupon is the item stored in the coupons DynamoDB table.
// Code is unique and normalized to upper case on input.
type Coupon struct {
	Code          string       `dynamodbav:"code" json:"code"` // PK
	Name          string       `dynamodbav:"name" json:"name"`
	DiscountType  DiscountType `dynamodbav:"discount_type" json:"discount_type"`
	DiscountValue int64        `dynamodbav:"discount_value" json:"discount_value"`
	CreatedAt     time.Time    `dynamodbav:"created_at" json:"created_at"`
}

// NormalizeCode is the canonical form of a coupon code: trimmed, upper case.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate checks field ranges before a coupon is accepted.
func (c Coupon) Validate() error {
	if NormalizeCode(c.Code) == "" {
		return &InvalidCouponError{Field: "code", Reason: "must not be empty"}
	}
	if c.DiscountValue < 0 {
		return &InvalidCouponError{Field: "discount_value", Reason: "must not be negative"}
	}
	switch c.DiscountType {
	case DiscountPercentage:
		if c.DiscountValue > 100 {
			return &InvalidCouponError{Field: "discount_value", Reason: "percentage must be within [0, 100]"}
		}
	case DiscountAmount:
		if c.DiscountValue > MaxAmountValue {
			return &InvalidCouponError{Field: "discount_value", Reason: "amount exceeds maximum"}
		}
	default:
		return &InvalidCouponError{Field: "discount_type", Reason: "must be amount or percentage"}
	}
	return nil
}
