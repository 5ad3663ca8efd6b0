package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/storecart/go-cart-pricing/internal/awsx"
	"github.com/storecart/go-cart-pricing/internal/idempotency"
	"github.com/storecart/go-cart-pricing/internal/orders"
)

// metricNamespace groups the worker's CloudWatch counters.
const metricNamespace = "CartPricing/Orders"

// Processor handles SQS messages and performs order lifecycle transitions.
type Processor struct {
	idempStore *idempotency.Store
	orderStore *orders.Store
	metrics    *awsx.Metrics
}

// NewProcessor creates a worker processor with AWS clients injected.
func NewProcessor(clients *awsx.Clients, idempTable, ordersTable string) *Processor {
	return &Processor{
		idempStore: idempotency.NewStore(clients.DynamoDB, idempTable, 48*time.Hour),
		orderStore: orders.NewStore(clients.DynamoDB, ordersTable),
		metrics:    awsx.NewMetrics(clients.CloudWatch, metricNamespace),
	}
}

// Handle receives an SQS batch event and processes each message.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			// Return error: Lambda will retry. If failed too many times, message goes to DLQ.
			log.Printf("worker error: %v", err)
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var msg OrderEvent
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}

	log.Printf("[worker] received order=%s idempotency_key=%s corr=%s",
		msg.OrderID, msg.IdempotencyKey, msg.CorrelationID)

	order, err := p.orderStore.Get(ctx, msg.OrderID)
	if err != nil {
		return fmt.Errorf("failed to fetch order: %w", err)
	}
	if order == nil {
		// Should never happen — DLQ if it does
		return fmt.Errorf("order not found: %s", msg.OrderID)
	}

	// PLACED -> COMPLETED (idempotent: duplicate deliveries are swallowed)
	err = p.orderStore.UpdateStatus(ctx, msg.OrderID, orders.StatusPlaced, orders.StatusCompleted)
	if err == orders.ErrStatusMismatch {
		o2, _ := p.orderStore.Get(ctx, msg.OrderID)
		switch o2.Status {
		case orders.StatusCompleted:
			log.Printf("[worker] already completed order=%s", msg.OrderID)
			return nil
		case orders.StatusFailed:
			return fmt.Errorf("order=%s is already FAILED", msg.OrderID)
		default:
			return fmt.Errorf("unexpected status for order=%s: %s", msg.OrderID, o2.Status)
		}
	}
	if err != nil {
		if ierr := p.orderStore.IncrementAttempts(ctx, msg.OrderID); ierr != nil {
			log.Printf("[worker] increment attempts order=%s: %v", msg.OrderID, ierr)
		}
		return fmt.Errorf("failed to update status to COMPLETED: %w", err)
	}

	if merr := p.metrics.Count(ctx, "OrdersCompleted", 1); merr != nil {
		// metrics are best-effort; never fail the order for them
		log.Printf("[worker] metric emit failed order=%s: %v", msg.OrderID, merr)
	}

	response := fmt.Sprintf(`{"order_id":"%s","status":"COMPLETED"}`, msg.OrderID)
	if err := p.idempStore.MarkDone(ctx, msg.IdempotencyKey, response, 200); err != nil {
		return fmt.Errorf("failed to update idempotency: %w", err)
	}

	log.Printf("[worker] completed order=%s", msg.OrderID)
	return nil
}
