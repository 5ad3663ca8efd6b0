package validation

// DiscountTierPayload is one quantity-threshold/rate pair on a product.
type DiscountTierPayload struct {
	Quantity int     `json:"quantity" validate:"required,min=1"` // threshold, >= 1
	Rate     float64 `json:"rate" validate:"gte=0,lte=1"`        // 0..1
}

// UpsertProductRequest is the payload for POST /products and PUT /products/:id.
type UpsertProductRequest struct {
	ProductID string                `json:"product_id" validate:"required"`
	Name      string                `json:"name" validate:"required"`
	Price     *int64                `json:"price" validate:"required,gte=0"` // minor units
	Stock     *int                  `json:"stock" validate:"required,gte=0"`
	Discounts []DiscountTierPayload `json:"discounts,omitempty" validate:"omitempty,dive"`
}

// CreateCouponRequest is the payload for POST /coupons. The cross-field value
// range (percentage 0-100, amount capped) is enforced by struct-level
// validation, see validator.go.
type CreateCouponRequest struct {
	Code          string `json:"code" validate:"required"`
	Name          string `json:"name" validate:"required"`
	DiscountType  string `json:"discount_type" validate:"required,oneof=amount percentage"`
	DiscountValue *int64 `json:"discount_value" validate:"required,gte=0"`
}

// AddToCartRequest is the payload for POST /cart/items.
type AddToCartRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

// UpdateQuantityRequest is the payload for PATCH /cart/items/:id. Quantity is
// a pointer so an explicit 0 (remove the line) survives binding.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// SelectCouponRequest is the payload for POST /cart/coupon.
type SelectCouponRequest struct {
	Code string `json:"code" validate:"required"`
}
