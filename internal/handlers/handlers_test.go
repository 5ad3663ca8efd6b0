package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	awsDynamo "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// --- mocks ---

// mockDynamo keeps per-table items keyed by whichever primary key attribute
// the item carries (product_id, code, order_id or idempotency_key).
type mockDynamo struct {
	mu     sync.Mutex
	tables map[string]map[string]map[string]types.AttributeValue
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{tables: map[string]map[string]map[string]types.AttributeValue{}}
}

var pkAttrs = []string{"product_id", "code", "order_id", "idempotency_key"}

func pkOf(item map[string]types.AttributeValue) (string, error) {
	for _, attr := range pkAttrs {
		if v, ok := item[attr]; ok {
			return v.(*types.AttributeValueMemberS).Value, nil
		}
	}
	return "", errors.New("no primary key in item")
}

func (m *mockDynamo) ensureTable(tbl string) map[string]map[string]types.AttributeValue {
	if _, ok := m.tables[tbl]; !ok {
		m.tables[tbl] = map[string]map[string]types.AttributeValue{}
	}
	return m.tables[tbl]
}

func (m *mockDynamo) PutItem(ctx context.Context, params *awsDynamo.PutItemInput, optFns ...func(*awsDynamo.Options)) (*awsDynamo.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tbl := m.ensureTable(*params.TableName)
	pk, err := pkOf(params.Item)
	if err != nil {
		return nil, err
	}
	if params.ConditionExpression != nil {
		if _, exists := tbl[pk]; exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	tbl[pk] = params.Item
	return &awsDynamo.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(ctx context.Context, params *awsDynamo.GetItemInput, optFns ...func(*awsDynamo.Options)) (*awsDynamo.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tbl := m.ensureTable(*params.TableName)
	pk, err := pkOf(params.Key)
	if err != nil {
		return nil, err
	}
	item, ok := tbl[pk]
	if !ok {
		return &awsDynamo.GetItemOutput{}, nil
	}
	return &awsDynamo.GetItemOutput{Item: item}, nil
}

func (m *mockDynamo) UpdateItem(ctx context.Context, params *awsDynamo.UpdateItemInput, optFns ...func(*awsDynamo.Options)) (*awsDynamo.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tbl := m.ensureTable(*params.TableName)
	pk, err := pkOf(params.Key)
	if err != nil {
		return nil, err
	}
	item, ok := tbl[pk]
	if !ok {
		return nil, errors.New("item not found")
	}
	for _, key := range []string{":done", ":failed", ":new"} {
		if v, ok := params.ExpressionAttributeValues[key]; ok {
			item["status"] = v
		}
	}
	if v, ok := params.ExpressionAttributeValues[":rb"]; ok {
		item["response_body"] = v
	}
	if v, ok := params.ExpressionAttributeValues[":rs"]; ok {
		item["response_status"] = v
	}
	tbl[pk] = item
	return &awsDynamo.UpdateItemOutput{}, nil
}

func (m *mockDynamo) DeleteItem(ctx context.Context, params *awsDynamo.DeleteItemInput, optFns ...func(*awsDynamo.Options)) (*awsDynamo.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tbl := m.ensureTable(*params.TableName)
	pk, err := pkOf(params.Key)
	if err != nil {
		return nil, err
	}
	delete(tbl, pk)
	return &awsDynamo.DeleteItemOutput{}, nil
}

func (m *mockDynamo) Scan(ctx context.Context, params *awsDynamo.ScanInput, optFns ...func(*awsDynamo.Options)) (*awsDynamo.ScanOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tbl := m.ensureTable(*params.TableName)
	items := make([]map[string]types.AttributeValue, 0, len(tbl))
	for _, item := range tbl {
		items = append(items, item)
	}
	return &awsDynamo.ScanOutput{Items: items}, nil
}

func (m *mockDynamo) TransactWriteItems(ctx context.Context, params *awsDynamo.TransactWriteItemsInput, optFns ...func(*awsDynamo.Options)) (*awsDynamo.TransactWriteItemsOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range params.TransactItems {
		if p := it.Put; p != nil && p.ConditionExpression != nil {
			tbl := m.ensureTable(*p.TableName)
			pk, err := pkOf(p.Item)
			if err != nil {
				return nil, err
			}
			if _, exists := tbl[pk]; exists {
				return nil, &types.TransactionCanceledException{}
			}
		}
	}
	for _, it := range params.TransactItems {
		if p := it.Put; p != nil {
			tbl := m.ensureTable(*p.TableName)
			pk, err := pkOf(p.Item)
			if err != nil {
				return nil, err
			}
			tbl[pk] = p.Item
		}
	}
	return &awsDynamo.TransactWriteItemsOutput{}, nil
}

type mockSQS struct {
	mu   sync.Mutex
	sent []string
}

func (m *mockSQS) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, *params.MessageBody)
	return &sqs.SendMessageOutput{}, nil
}

// --- helpers ---

func newTestRouter(t *testing.T) (*gin.Engine, *mockDynamo, *mockSQS) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dynamo := newMockDynamo()
	queue := &mockSQS{}
	r := gin.New()
	RegisterRoutes(r, HandlerConfig{
		DynamoDBClient:   dynamo,
		SQSClient:        queue,
		ProductsTable:    "products",
		CouponsTable:     "coupons",
		OrdersTable:      "orders",
		IdempotencyTable: "idempotency",
		QueueURL:         "https://queue.example/orders",
		TTLWindow:        48 * time.Hour,
	})
	return r, dynamo, queue
}

func do(t *testing.T, r *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	out := map[string]interface{}{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func createProduct(t *testing.T, r *gin.Engine, id string, price int64, stock int, tiers []map[string]interface{}) {
	t.Helper()
	w := do(t, r, http.MethodPost, "/products", map[string]interface{}{
		"product_id": id,
		"name":       "Product " + id,
		"price":      price,
		"stock":      stock,
		"discounts":  tiers,
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create product %s: status %d body %s", id, w.Code, w.Body.String())
	}
}

// --- test cases ---

func TestCartFlow_AddUpdateTotals(t *testing.T) {
	r, _, _ := newTestRouter(t)
	createProduct(t, r, "p1", 10000, 20, []map[string]interface{}{{"quantity": 10, "rate": 0.10}})

	// add p1 once and bump to 10
	w := do(t, r, http.MethodPost, "/cart/items", map[string]interface{}{"product_id": "p1"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("add to cart: %d %s", w.Code, w.Body.String())
	}
	w = do(t, r, http.MethodPatch, "/cart/items/p1", map[string]interface{}{"quantity": 10}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("update quantity: %d %s", w.Code, w.Body.String())
	}

	// tier 0.10 + bulk 0.05 -> 10000*10*0.85 = 85000
	body := decode(t, w)
	totals := body["totals"].(map[string]interface{})
	if got := int64(totals["total_before_discount"].(float64)); got != 100000 {
		t.Fatalf("expected before 100000, got %d", got)
	}
	if got := int64(totals["total_after_discount"].(float64)); got != 85000 {
		t.Fatalf("expected after 85000, got %d", got)
	}

	// quantity above stock leaves the cart unchanged
	w = do(t, r, http.MethodPatch, "/cart/items/p1", map[string]interface{}{"quantity": 21}, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for over-stock, got %d %s", w.Code, w.Body.String())
	}
	resp := decode(t, w)
	if resp["error"] != "stock_exceeded" {
		t.Fatalf("expected stock_exceeded, got %v", resp["error"])
	}
	if int(resp["max_stock"].(float64)) != 20 {
		t.Fatalf("expected max_stock 20, got %v", resp["max_stock"])
	}

	// quantity 0 removes the line
	w = do(t, r, http.MethodPatch, "/cart/items/p1", map[string]interface{}{"quantity": 0}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("zero quantity must succeed: %d %s", w.Code, w.Body.String())
	}
	body = decode(t, w)
	if lines := body["lines"].([]interface{}); len(lines) != 0 {
		t.Fatalf("expected empty cart, got %v", lines)
	}
}

func TestCartFlow_ZeroStockProduct(t *testing.T) {
	r, _, _ := newTestRouter(t)
	createProduct(t, r, "empty", 500, 0, nil)

	w := do(t, r, http.MethodPost, "/cart/items", map[string]interface{}{"product_id": "empty"}, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d %s", w.Code, w.Body.String())
	}
	if resp := decode(t, w); resp["error"] != "stock_insufficient" {
		t.Fatalf("expected stock_insufficient, got %v", resp["error"])
	}

	// cart stays empty
	w = do(t, r, http.MethodGet, "/cart", nil, nil)
	if lines := decode(t, w)["lines"].([]interface{}); len(lines) != 0 {
		t.Fatalf("expected no lines, got %v", lines)
	}
}

func TestCouponFlow_DuplicateAndSelection(t *testing.T) {
	r, _, _ := newTestRouter(t)
	createProduct(t, r, "p1", 10000, 20, nil)

	w := do(t, r, http.MethodPost, "/coupons", map[string]interface{}{
		"code": "SAVE10", "name": "Save 10%", "discount_type": "percentage", "discount_value": 10,
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create coupon: %d %s", w.Code, w.Body.String())
	}

	// duplicate code, different case
	w = do(t, r, http.MethodPost, "/coupons", map[string]interface{}{
		"code": "save10", "name": "Other", "discount_type": "amount", "discount_value": 500,
	}, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 duplicate, got %d %s", w.Code, w.Body.String())
	}
	if resp := decode(t, w); resp["error"] != "coupon_duplicate_code" {
		t.Fatalf("expected coupon_duplicate_code, got %v", resp["error"])
	}

	// percentage coupon on an empty cart is below the minimum
	w = do(t, r, http.MethodPost, "/cart/coupon", map[string]interface{}{"code": "SAVE10"}, nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 ineligible, got %d %s", w.Code, w.Body.String())
	}
	resp := decode(t, w)
	if resp["error"] != "coupon_ineligible" || int64(resp["min_order_amount"].(float64)) != 10000 {
		t.Fatalf("unexpected ineligible payload: %v", resp)
	}

	// put 2x10000 in the cart, then selection passes and totals drop 10%
	do(t, r, http.MethodPost, "/cart/items", map[string]interface{}{"product_id": "p1"}, nil)
	do(t, r, http.MethodPatch, "/cart/items/p1", map[string]interface{}{"quantity": 2}, nil)
	w = do(t, r, http.MethodPost, "/cart/coupon", map[string]interface{}{"code": "SAVE10"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("select coupon: %d %s", w.Code, w.Body.String())
	}
	totals := decode(t, w)["totals"].(map[string]interface{})
	if got := int64(totals["total_after_discount"].(float64)); got != 18000 {
		t.Fatalf("expected 18000 after coupon, got %d", got)
	}
}

func TestOrderFlow_CompleteAndReplay(t *testing.T) {
	r, dynamo, queue := newTestRouter(t)
	createProduct(t, r, "p1", 10000, 20, nil)
	do(t, r, http.MethodPost, "/cart/items", map[string]interface{}{"product_id": "p1"}, nil)

	w := do(t, r, http.MethodPost, "/orders", nil, map[string]string{"Idempotency-Key": "key-1"})
	if w.Code != http.StatusCreated {
		t.Fatalf("complete order: %d %s", w.Code, w.Body.String())
	}
	resp := decode(t, w)
	orderID, _ := resp["order_id"].(string)
	if len(orderID) < 5 || orderID[:4] != "ORD-" {
		t.Fatalf("expected ORD- receipt id, got %q", orderID)
	}

	// cart cleared
	w = do(t, r, http.MethodGet, "/cart", nil, nil)
	if lines := decode(t, w)["lines"].([]interface{}); len(lines) != 0 {
		t.Fatalf("expected cart cleared after order, got %v", lines)
	}

	// order persisted and event published
	if _, ok := dynamo.tables["orders"][orderID]; !ok {
		t.Fatalf("order %s not persisted", orderID)
	}
	if len(queue.sent) != 1 {
		t.Fatalf("expected 1 SQS message, got %d", len(queue.sent))
	}

	// replay with the same key returns the stored receipt, creates nothing new
	w = do(t, r, http.MethodPost, "/orders", nil, map[string]string{"Idempotency-Key": "key-1"})
	if w.Code != http.StatusCreated {
		t.Fatalf("replay: %d %s", w.Code, w.Body.String())
	}
	replay := decode(t, w)
	if replay["order_id"] != orderID {
		t.Fatalf("replay returned different order id: %v vs %v", replay["order_id"], orderID)
	}
	if len(dynamo.tables["orders"]) != 1 {
		t.Fatalf("replay must not create a second order")
	}
	if len(queue.sent) != 1 {
		t.Fatalf("replay must not publish again")
	}
}

func TestOrderFlow_MissingIdempotencyKey(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/orders", nil, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if resp := decode(t, w); resp["error"] != "missing_idempotency_key" {
		t.Fatalf("unexpected body: %v", resp)
	}
}

func TestProducts_InvalidInput(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/products", map[string]interface{}{
		"product_id": "bad", "name": "Bad", "price": -5, "stock": 1,
	}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d %s", w.Code, w.Body.String())
	}
	if resp := decode(t, w); resp["error"] != "invalid_input" {
		t.Fatalf("expected invalid_input, got %v", resp["error"])
	}
}
