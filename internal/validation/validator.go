package validation

import (
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/storecart/go-cart-pricing/internal/coupons"
)

// New returns a configured validator with custom struct-level validation registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// register struct-level validation for CreateCouponRequest: the allowed
	// value range depends on the discount type.
	v.RegisterStructValidation(createCouponStructValidation, CreateCouponRequest{})

	return v
}

// createCouponStructValidation enforces per-type value ranges: percentage
// coupons are 0-100, amount coupons are capped at the configured maximum.
func createCouponStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(CreateCouponRequest)
	if req.DiscountValue == nil {
		return // the field-level required rule reports this
	}
	value := *req.DiscountValue

	switch coupons.DiscountType(req.DiscountType) {
	case coupons.DiscountPercentage:
		if value > 100 {
			sl.ReportError(req.DiscountValue, "discount_value", "DiscountValue", "percentage_range", "0-100")
		}
	case coupons.DiscountAmount:
		if value > coupons.MaxAmountValue {
			sl.ReportError(req.DiscountValue, "discount_value", "DiscountValue", "amount_max", "100000")
		}
	}
}
