package coupons

import (
	"context"
	"errors"
	"sync"
	"testing"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// mockDynamo is a minimal in-memory table keyed by the code attribute,
// supporting the operations the coupon Store uses.
type mockDynamo struct {
	mu    sync.Mutex
	table map[string]map[string]types.AttributeValue
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{table: map[string]map[string]types.AttributeValue{}}
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keyAttr := params.Item["code"]
	if keyAttr == nil {
		return nil, errors.New("missing code in put item")
	}
	k := keyAttr.(*types.AttributeValueMemberS).Value
	if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_not_exists(code)" {
		if _, exists := m.table[k]; exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	m.table[k] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := params.Key["code"].(*types.AttributeValueMemberS).Value
	item, ok := m.table[k]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *mockDynamo) DeleteItem(ctx context.Context, params *dyn.DeleteItemInput, optFns ...func(*dyn.Options)) (*dyn.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := params.Key["code"].(*types.AttributeValueMemberS).Value
	delete(m.table, k)
	return &dyn.DeleteItemOutput{}, nil
}

func (m *mockDynamo) Scan(ctx context.Context, params *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := make([]map[string]types.AttributeValue, 0, len(m.table))
	for _, item := range m.table {
		items = append(items, item)
	}
	return &dyn.ScanOutput{Items: items}, nil
}

func (m *mockDynamo) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	return nil, errors.New("not supported by coupon store mock")
}

func (m *mockDynamo) TransactWriteItems(ctx context.Context, params *dyn.TransactWriteItemsInput, optFns ...func(*dyn.Options)) (*dyn.TransactWriteItemsOutput, error) {
	return nil, errors.New("not supported by coupon store mock")
}

func TestStore_CreateGetDelete(t *testing.T) {
	mock := newMockDynamo()
	s := NewStore(mock, "coupons")
	ctx := context.Background()

	c := Coupon{Code: "save10", Name: "Save", DiscountType: DiscountPercentage, DiscountValue: 10}
	if err := s.Create(ctx, c); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	// stored under the normalized code
	got, err := s.Get(ctx, "SAVE10")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got == nil || got.Code != "SAVE10" || got.DiscountValue != 10 {
		t.Fatalf("unexpected coupon: %+v", got)
	}

	if err := s.Delete(ctx, "save10"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	got, err = s.Get(ctx, "SAVE10")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil after delete, got %+v", got)
	}
}

func TestStore_CreateDuplicate(t *testing.T) {
	mock := newMockDynamo()
	s := NewStore(mock, "coupons")
	ctx := context.Background()

	if err := s.Create(ctx, Coupon{Code: "SAVE10", Name: "Save", DiscountType: DiscountAmount, DiscountValue: 100}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	// same code, different case
	err := s.Create(ctx, Coupon{Code: "save10", Name: "Other", DiscountType: DiscountAmount, DiscountValue: 200})
	if !errors.Is(err, ErrDuplicateCode) {
		t.Fatalf("expected ErrDuplicateCode, got %v", err)
	}
}

func TestStore_List(t *testing.T) {
	mock := newMockDynamo()
	s := NewStore(mock, "coupons")
	ctx := context.Background()

	for _, code := range []string{"A1", "B2"} {
		if err := s.Create(ctx, Coupon{Code: code, Name: code, DiscountType: DiscountAmount, DiscountValue: 1}); err != nil {
			t.Fatalf("Create error: %v", err)
		}
	}
	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 coupons, got %d", len(list))
	}
}
