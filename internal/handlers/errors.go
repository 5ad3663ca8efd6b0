package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storecart/go-cart-pricing/internal/cart"
	"github.com/storecart/go-cart-pricing/internal/catalog"
	"github.com/storecart/go-cart-pricing/internal/coupons"
)

// writeEngineError maps engine taxonomy errors to a status code and a JSON
// body carrying the taxonomy key plus structured parameters. The engine never
// formats user-facing text; the UI layer localizes from these keys.
func writeEngineError(c *gin.Context, err error) {
	var stockExceeded *cart.StockExceededError
	var ineligible *coupons.IneligibleError
	var invalidCoupon *coupons.InvalidCouponError
	var invalidInput *catalog.InvalidInputError

	switch {
	case errors.Is(err, cart.ErrStockInsufficient):
		c.JSON(http.StatusConflict, gin.H{"error": "stock_insufficient"})
	case errors.As(err, &stockExceeded):
		c.JSON(http.StatusConflict, gin.H{"error": "stock_exceeded", "max_stock": stockExceeded.MaxStock})
	case errors.Is(err, coupons.ErrDuplicateCode):
		c.JSON(http.StatusConflict, gin.H{"error": "coupon_duplicate_code"})
	case errors.Is(err, coupons.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "coupon_not_found"})
	case errors.As(err, &ineligible):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "coupon_ineligible", "min_order_amount": ineligible.MinOrderAmount})
	case errors.As(err, &invalidCoupon):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "field": invalidCoupon.Field, "reason": invalidCoupon.Reason})
	case errors.As(err, &invalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "field": invalidInput.Field, "reason": invalidInput.Reason})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "detail": err.Error()})
	}
}
