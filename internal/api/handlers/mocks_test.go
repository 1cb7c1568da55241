package handlers_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/SaniatAzam/invoice-generator/internal/cart"
	"github.com/SaniatAzam/invoice-generator/internal/models"
	"github.com/SaniatAzam/invoice-generator/internal/services"
)

// --- Mocks ---

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

// MockCartService
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) Open(ctx context.Context) (string, *cart.Cart, error) {
	args := m.Called(ctx)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*cart.Cart), args.Error(2)
}
func (m *MockCartService) Get(ctx context.Context, id string) (*cart.Cart, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}
func (m *MockCartService) Select(ctx context.Context, id, name string, quantity *int) (*cart.Cart, error) {
	args := m.Called(ctx, id, name, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}
func (m *MockCartService) AddLine(ctx context.Context, id string, req services.LineRequest) (*cart.Cart, bool, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*cart.Cart), args.Bool(1), args.Error(2)
}
func (m *MockCartService) Checkout(ctx context.Context, id string, req services.CheckoutRequest) (*models.Invoice, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

// MockRenderer
type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) RenderInvoicePDF(ctx context.Context, invoice *models.Invoice) ([]byte, error) {
	args := m.Called(ctx, invoice)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockArchive
type MockArchive struct {
	mock.Mock
}

func (m *MockArchive) PutInvoicePDF(ctx context.Context, invoiceNo string, pdf []byte) (string, error) {
	args := m.Called(ctx, invoiceNo, pdf)
	return args.String(0), args.Error(1)
}
func (m *MockArchive) DeleteInvoicePDF(ctx context.Context, invoiceNo string) error {
	args := m.Called(ctx, invoiceNo)
	return args.Error(0)
}
func (m *MockArchive) PresignInvoiceURL(ctx context.Context, invoiceNo string, expires time.Duration) (string, error) {
	args := m.Called(ctx, invoiceNo, expires)
	return args.String(0), args.Error(1)
}
