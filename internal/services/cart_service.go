package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/SaniatAzam/invoice-generator/internal/cache"
	"github.com/SaniatAzam/invoice-generator/internal/cart"
	"github.com/SaniatAzam/invoice-generator/internal/models"
)

// ICartStore keeps cart sessions between requests.
type ICartStore interface {
	Load(ctx context.Context, id string) (*cart.Cart, error)
	Save(ctx context.Context, id string, c *cart.Cart) error
	Delete(ctx context.Context, id string) error
}

// redisCartStore stores carts as JSON with a sliding TTL.
type redisCartStore struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewRedisCartStore creates a Redis-backed ICartStore.
func NewRedisCartStore(rdb redis.Cmdable, ttl time.Duration) ICartStore {
	return &redisCartStore{rdb: rdb, ttl: ttl}
}

func cartKey(id string) string { return "cart:" + id }

func (s *redisCartStore) Load(ctx context.Context, id string) (*cart.Cart, error) {
	c := cart.New()
	err := cache.GetJSON(ctx, s.rdb, cartKey(id), c)
	if errors.Is(err, cache.ErrMiss) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *redisCartStore) Save(ctx context.Context, id string, c *cart.Cart) error {
	return cache.SetJSON(ctx, s.rdb, cartKey(id), c, s.ttl)
}

func (s *redisCartStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, cartKey(id)).Err()
}

// LineRequest adds either an explicit line or, when Name is empty, the
// pending selection. A non-nil Quantity overrides the pending quantity.
type LineRequest struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity *int    `json:"quantity"`
}

// CheckoutRequest carries the invoice header for a cart checkout.
type CheckoutRequest struct {
	InvoiceNo    string  `json:"invoiceNo"`
	CustomerName string  `json:"customerName"`
	DateOfSale   string  `json:"dateOfSale"`
	Discount     float64 `json:"discount"`
}

// ICartService drives server-side cart sessions.
type ICartService interface {
	Open(ctx context.Context) (string, *cart.Cart, error)
	Get(ctx context.Context, id string) (*cart.Cart, error)
	Select(ctx context.Context, id, name string, quantity *int) (*cart.Cart, error)
	AddLine(ctx context.Context, id string, req LineRequest) (*cart.Cart, bool, error)
	Checkout(ctx context.Context, id string, req CheckoutRequest) (*models.Invoice, error)
}

// cartService implements ICartService.
type cartService struct {
	store    ICartStore
	catalog  ICatalogService
	invoices IInvoiceService
	now      func() time.Time
}

// NewCartService creates a new CartService.
func NewCartService(store ICartStore, catalog ICatalogService, invoices IInvoiceService) ICartService {
	return &cartService{store: store, catalog: catalog, invoices: invoices, now: time.Now}
}

// Open starts an empty cart session.
func (s *cartService) Open(ctx context.Context) (string, *cart.Cart, error) {
	id := uuid.NewString()
	c := cart.New()
	if err := s.store.Save(ctx, id, c); err != nil {
		return "", nil, fmt.Errorf("failed to open cart: %w", err)
	}
	return id, c, nil
}

// Get returns the cart or ErrNotFound once it expired.
func (s *cartService) Get(ctx context.Context, id string) (*cart.Cart, error) {
	return s.store.Load(ctx, id)
}

// Select sets the pending item and copies its catalog price.
func (s *cartService) Select(ctx context.Context, id, name string, quantity *int) (*cart.Cart, error) {
	c, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	var found []models.Item
	item, err := s.catalog.FindByName(ctx, name)
	switch {
	case err == nil:
		found = append(found, *item)
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}
	prices := cart.PriceListFrom(found)
	// Unknown names keep the previous pending price.
	c.SelectItem(prices, name)
	if quantity != nil {
		c.SetQuantity(*quantity)
	}
	if err := s.store.Save(ctx, id, c); err != nil {
		return nil, fmt.Errorf("failed to save cart %s: %w", id, err)
	}
	return c, nil
}

// AddLine appends a line. A rejected line is not an error; the returned
// flag reports whether the cart changed.
func (s *cartService) AddLine(ctx context.Context, id string, req LineRequest) (*cart.Cart, bool, error) {
	c, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, false, err
	}

	var added bool
	if req.Name == "" {
		if req.Quantity != nil {
			c.SetQuantity(*req.Quantity)
		}
		added = c.AddPending()
	} else {
		quantity := 1
		if req.Quantity != nil {
			quantity = *req.Quantity
		}
		added = c.AddLine(req.Name, req.Price, quantity)
	}

	if err := s.store.Save(ctx, id, c); err != nil {
		return nil, false, fmt.Errorf("failed to save cart %s: %w", id, err)
	}
	return c, added, nil
}

// Checkout turns the cart into an invoice and ends the session.
func (s *cartService) Checkout(ctx context.Context, id string, req CheckoutRequest) (*models.Invoice, error) {
	c, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(c.Items) == 0 {
		return nil, invalid("cart is empty")
	}

	date, err := models.ParseSaleDate(req.DateOfSale, s.now())
	if err != nil {
		return nil, invalid("%s", err.Error())
	}

	invoice, err := s.invoices.Create(ctx, &models.Invoice{
		InvoiceNo:    req.InvoiceNo,
		CustomerName: req.CustomerName,
		DateOfSale:   date,
		Items:        c.Lines(),
		Discount:     req.Discount,
		NetPrice:     c.NetPrice(req.Discount),
	})
	if err != nil {
		return nil, err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		log.Warn().Err(err).Str("cart", id).Str("invoiceNo", invoice.InvoiceNo).Msg("Invoice saved but cart was not cleared")
	}
	return invoice, nil
}
