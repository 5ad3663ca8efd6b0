package main

// OrderEvent is the payload sent from API -> SQS -> Worker when an order is
// completed by the storefront.
type OrderEvent struct {
	OrderID        string `json:"order_id"`
	IdempotencyKey string `json:"idempotency_key"`
	CorrelationID  string `json:"correlation_id,omitempty"`
}
