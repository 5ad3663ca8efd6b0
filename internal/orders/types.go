package orders

import "time"

// Order statuses
const (
	StatusPlaced    = "PLACED"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

// Line is a priced cart line snapshot captured at completion time.
type Line struct {
	ProductID string  `dynamodbav:"product_id" json:"product_id"`
	Quantity  int     `dynamodbav:"quantity" json:"quantity"`
	UnitPrice int64   `dynamodbav:"unit_price" json:"unit_price"`
	Rate      float64 `dynamodbav:"rate" json:"rate"`
	Total     int64   `dynamodbav:"total" json:"total"`
}

// Order represents the item stored in the orders DynamoDB table. The receipt
// id doubles as the primary key.
type Order struct {
	OrderID             string    `dynamodbav:"order_id" json:"order_id"` // PK, ORD-<timestamp>
	Status              string    `dynamodbav:"status" json:"status"`     // PLACED | COMPLETED | FAILED
	Lines               []Line    `dynamodbav:"lines,omitempty" json:"lines,omitempty"`
	CouponCode          string    `dynamodbav:"coupon_code,omitempty" json:"coupon_code,omitempty"`
	TotalBeforeDiscount int64     `dynamodbav:"total_before_discount" json:"total_before_discount"`
	TotalAfterDiscount  int64     `dynamodbav:"total_after_discount" json:"total_after_discount"`
	CorrelationID       string    `dynamodbav:"correlation_id,omitempty" json:"correlation_id,omitempty"`
	CreatedAt           time.Time `dynamodbav:"created_at" json:"created_at"`
	UpdatedAt           time.Time `dynamodbav:"updated_at" json:"updated_at"`
	Attempts            int       `dynamodbav:"attempts,omitempty" json:"attempts,omitempty"`
}
