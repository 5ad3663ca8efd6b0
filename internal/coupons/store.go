package coupons

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/storecart/go-cart-pricing/internal/awsx"
)

// Store encapsulates coupon persistence in DynamoDB.
type Store struct {
	client    awsx.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore returns a configured Store.
func NewStore(client awsx.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Create persists a new coupon, guarded by attribute_not_exists(code) so a
// concurrently created duplicate surfaces as ErrDuplicateCode rather than a
// silent overwrite.
func (s *Store) Create(ctx context.Context, c Coupon) error {
	c.Code = NormalizeCode(c.Code)
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.nowFunc()
	}
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal coupon: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(code)"),
	})
	if err != nil {
		var ae smithy.APIError
		if errors.As(err, &ae) && ae.ErrorCode() == "ConditionalCheckFailedException" {
			return ErrDuplicateCode
		}
		return fmt.Errorf("put coupon: %w", err)
	}
	return nil
}

// Get fetches a coupon by code. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, code string) (*Coupon, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"code": &types.AttributeValueMemberS{Value: NormalizeCode(code)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get coupon: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var c Coupon
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, fmt.Errorf("unmarshal coupon: %w", err)
	}
	return &c, nil
}

// Delete removes a coupon by code.
func (s *Store) Delete(ctx context.Context, code string) error {
	_, err := s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"code": &types.AttributeValueMemberS{Value: NormalizeCode(code)},
		},
	})
	if err != nil {
		return fmt.Errorf("delete coupon: %w", err)
	}
	return nil
}

// List scans all coupons, used to seed the in-memory registry at startup.
func (s *Store) List(ctx context.Context) ([]Coupon, error) {
	out, err := s.client.Scan(ctx, &dyn.ScanInput{TableName: &s.tableName})
	if err != nil {
		return nil, fmt.Errorf("scan coupons: %w", err)
	}
	list := make([]Coupon, 0, len(out.Items))
	for _, item := range out.Items {
		var c Coupon
		if err := attributevalue.UnmarshalMap(item, &c); err != nil {
			return nil, fmt.Errorf("unmarshal coupon: %w", err)
		}
		list = append(list, c)
	}
	return list, nil
}

func awsString(s string) *string { return &s }
