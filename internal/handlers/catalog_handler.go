package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storecart/go-cart-pricing/internal/catalog"
	"github.com/storecart/go-cart-pricing/internal/validation"
)

// registerCatalogRoutes wires the admin product CRUD surface.
func registerCatalogRoutes(r *gin.Engine, d *deps) {
	r.GET("/products", func(c *gin.Context) {
		list, err := d.products.List(c.Request.Context())
		if err != nil {
			writeEngineError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": list})
	})

	r.POST("/products", func(c *gin.Context) {
		var req validation.UpsertProductRequest
		if err := validation.BindAndValidate(c, &req, d.validate); err != nil {
			return
		}
		if err := d.products.Put(c.Request.Context(), productFromRequest(req)); err != nil {
			writeEngineError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"product_id": req.ProductID})
	})

	r.PUT("/products/:id", func(c *gin.Context) {
		var req validation.UpsertProductRequest
		if err := validation.BindAndValidate(c, &req, d.validate); err != nil {
			return
		}
		req.ProductID = c.Param("id")
		if err := d.products.Put(c.Request.Context(), productFromRequest(req)); err != nil {
			writeEngineError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"product_id": req.ProductID})
	})

	r.DELETE("/products/:id", func(c *gin.Context) {
		if err := d.products.Delete(c.Request.Context(), c.Param("id")); err != nil {
			writeEngineError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"product_id": c.Param("id")})
	})
}

func productFromRequest(req validation.UpsertProductRequest) catalog.Product {
	tiers := make([]catalog.DiscountTier, 0, len(req.Discounts))
	for _, t := range req.Discounts {
		tiers = append(tiers, catalog.DiscountTier{Quantity: t.Quantity, Rate: t.Rate})
	}
	return catalog.Product{
		ProductID: req.ProductID,
		Name:      req.Name,
		Price:     *req.Price,
		Stock:     *req.Stock,
		Discounts: tiers,
	}
}
