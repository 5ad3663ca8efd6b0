package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storecart/go-cart-pricing/internal/coupons"
	"github.com/storecart/go-cart-pricing/internal/validation"
)

// registerCouponRoutes wires the admin coupon surface. The in-memory registry
// is the source of truth for the running session; the coupon table is written
// best-effort after a successful registry mutation and never gates the
// response.
func registerCouponRoutes(r *gin.Engine, d *deps) {
	r.GET("/coupons", func(c *gin.Context) {
		d.session.mu.Lock()
		list := d.session.Registry.List()
		d.session.mu.Unlock()
		c.JSON(http.StatusOK, gin.H{"coupons": list})
	})

	r.POST("/coupons", func(c *gin.Context) {
		var req validation.CreateCouponRequest
		if err := validation.BindAndValidate(c, &req, d.validate); err != nil {
			return
		}

		d.session.mu.Lock()
		stored, err := d.session.Registry.Add(coupons.Coupon{
			Code:          req.Code,
			Name:          req.Name,
			DiscountType:  coupons.DiscountType(req.DiscountType),
			DiscountValue: *req.DiscountValue,
		})
		d.session.mu.Unlock()
		if err != nil {
			writeEngineError(c, err)
			return
		}

		if err := d.coupStore.Create(c.Request.Context(), stored); err != nil {
			log.Printf("persist coupon %s: %v", stored.Code, err)
		}
		c.JSON(http.StatusCreated, gin.H{"coupon": stored})
	})

	r.DELETE("/coupons/:code", func(c *gin.Context) {
		code := c.Param("code")

		d.session.mu.Lock()
		err := d.session.Registry.Remove(code)
		d.session.mu.Unlock()
		if err != nil {
			writeEngineError(c, err)
			return
		}

		if err := d.coupStore.Delete(c.Request.Context(), code); err != nil {
			log.Printf("delete coupon %s: %v", code, err)
		}
		c.JSON(http.StatusOK, gin.H{"code": coupons.NormalizeCode(code)})
	})
}
