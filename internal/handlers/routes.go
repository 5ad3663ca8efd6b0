package handlers

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/storecart/go-cart-pricing/internal/awsx"
	"github.com/storecart/go-cart-pricing/internal/cart"
	"github.com/storecart/go-cart-pricing/internal/catalog"
	"github.com/storecart/go-cart-pricing/internal/coupons"
	"github.com/storecart/go-cart-pricing/internal/idempotency"
	"github.com/storecart/go-cart-pricing/internal/orders"
	"github.com/storecart/go-cart-pricing/internal/validation"
)

// HandlerConfig groups dependencies for the API handlers.
type HandlerConfig struct {
	DynamoDBClient   awsx.DynamoDBAPI
	SQSClient        awsx.SQSAPI
	ProductsTable    string
	CouponsTable     string
	OrdersTable      string
	IdempotencyTable string
	QueueURL         string
	TTLWindow        time.Duration
}

// Session is the host-side state for the single logical cart: the cart value
// the engine functions transform, and the coupon registry with its selection.
// The mutex serializes mutation requests; the engine itself is pure.
type Session struct {
	mu       sync.Mutex
	Cart     cart.Cart
	Registry *coupons.Registry
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{Registry: coupons.NewRegistry()}
}

// deps bundles the constructed collaborators shared by all route groups.
type deps struct {
	cfg       HandlerConfig
	validate  *validatorv10.Validate
	products  *catalog.Store
	coupStore *coupons.Store
	ordStore  *orders.Store
	idemStore *idempotency.Store
	publisher *awsx.Publisher
	finalizer *orders.Finalizer
	session   *Session
}

// RegisterRoutes wires the full API surface onto r. The coupon registry is
// seeded from the coupon table; a seed failure is logged and the registry
// starts empty (admin re-creates coupons, or a restart picks them up).
func RegisterRoutes(r *gin.Engine, cfg HandlerConfig) {
	d := &deps{
		cfg:       cfg,
		validate:  validation.New(),
		products:  catalog.NewStore(cfg.DynamoDBClient, cfg.ProductsTable),
		coupStore: coupons.NewStore(cfg.DynamoDBClient, cfg.CouponsTable),
		ordStore:  orders.NewStore(cfg.DynamoDBClient, cfg.OrdersTable),
		idemStore: idempotency.NewStore(cfg.DynamoDBClient, cfg.IdempotencyTable, cfg.TTLWindow),
		publisher: awsx.NewPublisher(cfg.SQSClient, cfg.QueueURL),
		finalizer: orders.NewFinalizer(),
		session:   NewSession(),
	}

	if list, err := d.coupStore.List(context.Background()); err != nil {
		log.Printf("seed coupon registry: %v", err)
	} else {
		d.session.Registry.Load(list)
	}

	registerCatalogRoutes(r, d)
	registerCouponRoutes(r, d)
	registerCartRoutes(r, d)
	registerOrderRoutes(r, d)
}

// loadCartProducts fetches every product referenced by the cart. A missing
// product here means the catalog changed underneath the cart; the caller
// treats that as an internal error, not a business failure.
func (d *deps) loadCartProducts(ctx context.Context, c cart.Cart) (map[string]catalog.Product, error) {
	out := make(map[string]catalog.Product, len(c))
	for _, it := range c {
		p, err := d.products.Get(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if p != nil {
			out[it.ProductID] = *p
		}
	}
	return out, nil
}
