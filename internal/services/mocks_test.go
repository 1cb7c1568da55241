package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/SaniatAzam/invoice-generator/internal/cart"
	"github.com/SaniatAzam/invoice-generator/internal/models"
)

// --- Mocks ---

// MockArchiveQueue
type MockArchiveQueue struct {
	mock.Mock
}

func (m *MockArchiveQueue) EnqueueArchive(ctx context.Context, invoiceNo string) error {
	args := m.Called(ctx, invoiceNo)
	return args.Error(0)
}

func (m *MockArchiveQueue) EnqueuePurge(ctx context.Context, invoiceNo string) error {
	args := m.Called(ctx, invoiceNo)
	return args.Error(0)
}

// MockCatalogService
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListItems(ctx context.Context) ([]models.Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Item), args.Error(1)
}

func (m *MockCatalogService) FindByName(ctx context.Context, name string) (*models.Item, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockCatalogService) Seed(ctx context.Context, items []models.Item) (int, error) {
	args := m.Called(ctx, items)
	return args.Int(0), args.Error(1)
}

// MockInvoiceService
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) Create(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error) {
	args := m.Called(ctx, invoice)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceService) Update(ctx context.Context, invoiceNo string, fields models.InvoiceFields) (*models.Invoice, error) {
	args := m.Called(ctx, invoiceNo, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceService) Delete(ctx context.Context, invoiceNo string) error {
	args := m.Called(ctx, invoiceNo)
	return args.Error(0)
}

func (m *MockInvoiceService) Get(ctx context.Context, invoiceNo string) (*models.Invoice, error) {
	args := m.Called(ctx, invoiceNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

// memCartStore keeps carts in a map, encoding nothing.
type memCartStore struct {
	carts map[string]*cart.Cart
}

func newMemCartStore() *memCartStore {
	return &memCartStore{carts: map[string]*cart.Cart{}}
}

func (s *memCartStore) Load(_ context.Context, id string) (*cart.Cart, error) {
	c, ok := s.carts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	cp.Items = c.Lines()
	return &cp, nil
}

func (s *memCartStore) Save(_ context.Context, id string, c *cart.Cart) error {
	cp := *c
	cp.Items = c.Lines()
	s.carts[id] = &cp
	return nil
}

func (s *memCartStore) Delete(_ context.Context, id string) error {
	delete(s.carts, id)
	return nil
}

// toDoc converts a model into the bson.D shape mtest responses expect.
func toDoc(t *testing.T, v interface{}) bson.D {
	t.Helper()
	raw, err := bson.Marshal(v)
	require.NoError(t, err)
	var d bson.D
	require.NoError(t, bson.Unmarshal(raw, &d))
	return d
}
