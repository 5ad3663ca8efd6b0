package catalog

import "time"

// DiscountTier grants a rate once a cart line reaches the quantity threshold.
// A product may carry several tiers; thresholds are not required to be unique,
// ties resolve to the highest rate when the discount is computed.
type DiscountTier struct {
	Quantity int     `dynamodbav:"quantity" json:"quantity"` // threshold, >= 1
	Rate     float64 `dynamodbav:"rate" json:"rate"`         // 0 <= rate <= 1
}

// Product is the item stored in the products DynamoDB table.
// Price is in minor currency units (e.g., cents) and never negative.
type Product struct {
	ProductID string         `dynamodbav:"product_id" json:"product_id"` // PK
	Name      string         `dynamodbav:"name" json:"name"`
	Price     int64          `dynamodbav:"price" json:"price"`
	Stock     int            `dynamodbav:"stock" json:"stock"`
	Discounts []DiscountTier `dynamodbav:"discounts,omitempty" json:"discounts,omitempty"`
	CreatedAt time.Time      `dynamodbav:"created_at" json:"created_at"`
	UpdatedAt time.Time      `dynamodbav:"updated_at" json:"updated_at"`
}

// Validate checks field ranges before a product is accepted into the catalog.
// Returns *InvalidInputError describing the first offending field.
func (p Product) Validate() error {
	if p.ProductID == "" {
		return &InvalidInputError{Field: "product_id", Reason: "must not be empty"}
	}
	if p.Price < 0 {
		return &InvalidInputError{Field: "price", Reason: "must not be negative"}
	}
	if p.Stock < 0 {
		return &InvalidInputError{Field: "stock", Reason: "must not be negative"}
	}
	for i, t := range p.Discounts {
		if t.Quantity < 1 {
			return &InvalidInputError{Field: "discounts", Reason: "quantity threshold must be >= 1", Index: i}
		}
		if t.Rate < 0 || t.Rate > 1 {
			return &InvalidInputError{Field: "discounts", Reason: "rate must be within [0, 1]", Index: i}
		}
	}
	return nil
}
