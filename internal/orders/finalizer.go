package orders

import (
	"fmt"
	"time"

	"github.com/storecart/go-cart-pricing/internal/cart"
	"github.com/storecart/go-cart-pricing/internal/coupons"
)

// Receipt is the outcome of completing an order: the generated order id and
// the reset signals the host applies to its session state.
type Receipt struct {
	OrderID     string `json:"order_id"`
	ResetCart   bool   `json:"reset_cart"`
	ResetCoupon bool   `json:"reset_coupon"`
}

// Finalizer turns a priced cart into a receipt. It performs no validation:
// by the time it runs, totals were already computed and shown, so completion
// is a terminal transition.
type Finalizer struct {
	nowFunc func() time.Time
}

// NewFinalizer returns a Finalizer using wall-clock time.
func NewFinalizer() *Finalizer {
	return &Finalizer{nowFunc: time.Now}
}

// Complete generates the time-derived order id. ResetCart is always true;
// ResetCoupon is true only when a coupon was selected, so the host knows to
// clear its selection state.
func (f *Finalizer) Complete(c cart.Cart, selected *coupons.Coupon) Receipt {
	return Receipt{
		OrderID:     fmt.Sprintf("ORD-%d", f.nowFunc().UnixMilli()),
		ResetCart:   true,
		ResetCoupon: selected != nil,
	}
}
