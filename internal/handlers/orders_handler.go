package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/storecart/go-cart-pricing/internal/idempotency"
	"github.com/storecart/go-cart-pricing/internal/orders"
	"github.com/storecart/go-cart-pricing/internal/pricing"
)

// registerOrderRoutes wires order completion and lookup.
//
// POST /orders is the terminal transition for the cart: totals were already
// computed and shown by the time it runs, so no stock or coupon revalidation
// happens here. The Idempotency-Key header makes client retries safe.
func registerOrderRoutes(r *gin.Engine, d *deps) {
	r.POST("/orders", func(c *gin.Context) {
		ctx := c.Request.Context()

		idempKey := c.GetHeader("Idempotency-Key")
		if idempKey == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing_idempotency_key"})
			return
		}

		d.session.mu.Lock()
		defer d.session.mu.Unlock()

		products, err := d.loadCartProducts(ctx, d.session.Cart)
		if err != nil {
			writeEngineError(c, err)
			return
		}
		selected := d.session.Registry.Selected()
		totals, err := pricing.ComputeTotals(d.session.Cart, products, selected)
		if err != nil {
			writeEngineError(c, err)
			return
		}

		receipt := d.finalizer.Complete(d.session.Cart, selected)

		now := time.Now().UTC()
		idempItem := map[string]interface{}{
			"idempotency_key": idempKey,
			"status":          idempotency.StatusInProgress,
			"created_at":      now.Format(time.RFC3339),
			"updated_at":      now.Format(time.RFC3339),
			"order_id":        receipt.OrderID,
		}

		order := orders.Order{
			OrderID:             receipt.OrderID,
			Status:              orders.StatusPlaced,
			TotalBeforeDiscount: totals.TotalBeforeDiscount,
			TotalAfterDiscount:  totals.TotalAfterDiscount,
			CorrelationID:       uuid.NewString(),
			CreatedAt:           now,
			UpdatedAt:           now,
		}
		if selected != nil {
			order.CouponCode = selected.Code
		}
		lines := make([]orders.Line, 0, len(d.session.Cart))
		for _, it := range d.session.Cart {
			p := products[it.ProductID]
			lines = append(lines, orders.Line{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitPrice: p.Price,
				Rate:      pricing.EffectiveRate(p, it.Quantity, d.session.Cart),
				Total:     pricing.LineTotal(p, it.Quantity, d.session.Cart),
			})
		}
		order.Lines = lines

		// create idempotency record + order atomically
		err = d.ordStore.CreateWithIdempotencyTransaction(ctx, d.cfg.IdempotencyTable, idempItem, order, d.cfg.TTLWindow)
		if err != nil {
			// the transaction usually cancels because the idempotency key
			// exists; inspect the record and answer the replay
			rec, getErr := d.idemStore.Get(ctx, idempKey)
			if getErr != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "idempotency_check_failed", "detail": getErr.Error()})
				return
			}
			if rec == nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "transaction_failed_no_idempotency_record", "detail": err.Error()})
				return
			}
			switch rec.Status {
			case idempotency.StatusDone:
				if rec.ResponseBody != "" {
					c.Data(rec.ResponseStatus, "application/json", []byte(rec.ResponseBody))
					return
				}
				c.JSON(http.StatusOK, gin.H{"order_id": rec.OrderID})
				return
			case idempotency.StatusInProgress:
				c.JSON(http.StatusAccepted, gin.H{"message": "request already in progress", "order_id": rec.OrderID})
				return
			case idempotency.StatusFailed:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "previous_attempt_failed", "order_id": rec.OrderID})
				return
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "unknown_idempotency_status"})
				return
			}
		}

		// records created; enqueue the completion event. If SQS send fails
		// we mark the idempotency record FAILED so the client can retry.
		msgPayload := map[string]string{
			"order_id":        receipt.OrderID,
			"idempotency_key": idempKey,
		}
		payloadBytes, _ := json.Marshal(msgPayload)

		attrs := map[string]string{
			"idempotency_key": idempKey,
			"order_id":        receipt.OrderID,
			"correlation_id":  order.CorrelationID,
		}

		if err := d.publisher.SendOrderEvent(ctx, string(payloadBytes), attrs); err != nil {
			_ = d.idemStore.MarkFailed(ctx, idempKey, fmt.Sprintf("sqs_send_failed: %v", err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "enqueue_failed", "detail": err.Error()})
			return
		}

		// apply the finalizer's reset signals to the session
		if receipt.ResetCart {
			d.session.Cart = nil
		}
		if receipt.ResetCoupon {
			d.session.Registry.ClearSelection()
		}

		body := gin.H{
			"order_id":              receipt.OrderID,
			"status":                orders.StatusPlaced,
			"total_before_discount": totals.TotalBeforeDiscount,
			"total_after_discount":  totals.TotalAfterDiscount,
		}
		responseBody, _ := json.Marshal(body)
		_ = d.idemStore.MarkDone(ctx, idempKey, string(responseBody), http.StatusCreated)

		c.Header("Location", fmt.Sprintf("/orders/%s", receipt.OrderID))
		c.JSON(http.StatusCreated, body)
	})

	r.GET("/orders/:id", func(c *gin.Context) {
		o, err := d.ordStore.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeEngineError(c, err)
			return
		}
		if o == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order_not_found"})
			return
		}
		c.JSON(http.StatusOK, o)
	})
}
