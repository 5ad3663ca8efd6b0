package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storecart/go-cart-pricing/internal/cart"
	"github.com/storecart/go-cart-pricing/internal/catalog"
	"github.com/storecart/go-cart-pricing/internal/coupons"
	"github.com/storecart/go-cart-pricing/internal/pricing"
	"github.com/storecart/go-cart-pricing/internal/validation"
)

// cartLineView is one priced line as returned to the UI layer, so it can
// render without recomputing any pricing.
type cartLineView struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice int64   `json:"unit_price"`
	Rate      float64 `json:"rate"`
	LineTotal int64   `json:"line_total"`
}

type cartView struct {
	Lines          []cartLineView      `json:"lines"`
	Totals         pricing.OrderTotals `json:"totals"`
	SelectedCoupon *coupons.Coupon     `json:"selected_coupon,omitempty"`
}

// buildCartView prices the session cart. Callers must hold the session lock.
func (d *deps) buildCartView(ctx context.Context) (cartView, error) {
	products, err := d.loadCartProducts(ctx, d.session.Cart)
	if err != nil {
		return cartView{}, err
	}
	selected := d.session.Registry.Selected()
	totals, err := pricing.ComputeTotals(d.session.Cart, products, selected)
	if err != nil {
		return cartView{}, err
	}

	lines := make([]cartLineView, 0, len(d.session.Cart))
	for _, it := range d.session.Cart {
		p := products[it.ProductID]
		lines = append(lines, cartLineView{
			ProductID: it.ProductID,
			Name:      p.Name,
			Quantity:  it.Quantity,
			UnitPrice: p.Price,
			Rate:      pricing.EffectiveRate(p, it.Quantity, d.session.Cart),
			LineTotal: pricing.LineTotal(p, it.Quantity, d.session.Cart),
		})
	}
	return cartView{Lines: lines, Totals: totals, SelectedCoupon: selected}, nil
}

func (d *deps) respondWithCart(c *gin.Context, status int) {
	view, err := d.buildCartView(c.Request.Context())
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(status, view)
}

// registerCartRoutes wires the cart mutation and totals surface.
func registerCartRoutes(r *gin.Engine, d *deps) {
	r.GET("/cart", func(c *gin.Context) {
		d.session.mu.Lock()
		defer d.session.mu.Unlock()
		d.respondWithCart(c, http.StatusOK)
	})

	r.POST("/cart/items", func(c *gin.Context) {
		var req validation.AddToCartRequest
		if err := validation.BindAndValidate(c, &req, d.validate); err != nil {
			return
		}
		p, err := d.products.Get(c.Request.Context(), req.ProductID)
		if err != nil {
			writeEngineError(c, err)
			return
		}
		if p == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "product_not_found", "product_id": req.ProductID})
			return
		}

		d.session.mu.Lock()
		defer d.session.mu.Unlock()
		updated, err := cart.Add(d.session.Cart, *p)
		if err != nil {
			writeEngineError(c, err)
			return
		}
		d.session.Cart = updated
		d.respondWithCart(c, http.StatusOK)
	})

	r.PATCH("/cart/items/:id", func(c *gin.Context) {
		var req validation.UpdateQuantityRequest
		if err := validation.BindAndValidate(c, &req, d.validate); err != nil {
			return
		}
		productID := c.Param("id")

		// the product is only needed for the stock ceiling; a non-positive
		// quantity removes the line without consulting the catalog
		var p catalog.Product
		if *req.Quantity > 0 {
			got, err := d.products.Get(c.Request.Context(), productID)
			if err != nil {
				writeEngineError(c, err)
				return
			}
			if got == nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "product_not_found", "product_id": productID})
				return
			}
			p = *got
		}

		d.session.mu.Lock()
		defer d.session.mu.Unlock()
		updated, err := cart.UpdateQuantity(d.session.Cart, productID, *req.Quantity, p)
		if err != nil {
			writeEngineError(c, err)
			return
		}
		d.session.Cart = updated
		d.respondWithCart(c, http.StatusOK)
	})

	r.DELETE("/cart/items/:id", func(c *gin.Context) {
		d.session.mu.Lock()
		defer d.session.mu.Unlock()
		d.session.Cart = cart.Remove(d.session.Cart, c.Param("id"))
		d.respondWithCart(c, http.StatusOK)
	})

	r.POST("/cart/coupon", func(c *gin.Context) {
		var req validation.SelectCouponRequest
		if err := validation.BindAndValidate(c, &req, d.validate); err != nil {
			return
		}

		d.session.mu.Lock()
		defer d.session.mu.Unlock()

		// eligibility is gated on the current after-item-discount total,
		// before any coupon
		products, err := d.loadCartProducts(c.Request.Context(), d.session.Cart)
		if err != nil {
			writeEngineError(c, err)
			return
		}
		totals, err := pricing.ComputeTotals(d.session.Cart, products, nil)
		if err != nil {
			writeEngineError(c, err)
			return
		}
		if err := d.session.Registry.Select(req.Code, totals.TotalAfterDiscount); err != nil {
			writeEngineError(c, err)
			return
		}
		d.respondWithCart(c, http.StatusOK)
	})

	r.DELETE("/cart/coupon", func(c *gin.Context) {
		d.session.mu.Lock()
		defer d.session.mu.Unlock()
		d.session.Registry.ClearSelection()
		d.respondWithCart(c, http.StatusOK)
	})
}
