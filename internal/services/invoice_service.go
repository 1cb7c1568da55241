package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SaniatAzam/invoice-generator/internal/cart"
	"github.com/SaniatAzam/invoice-generator/internal/config"
	"github.com/SaniatAzam/invoice-generator/internal/db"
	"github.com/SaniatAzam/invoice-generator/internal/models"
)

// IInvoiceService defines the interface for invoice persistence.
type IInvoiceService interface {
	Create(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error)
	Update(ctx context.Context, invoiceNo string, fields models.InvoiceFields) (*models.Invoice, error)
	Delete(ctx context.Context, invoiceNo string) error
	Get(ctx context.Context, invoiceNo string) (*models.Invoice, error)
}

// IArchiveQueue schedules background rendering of stored invoices.
type IArchiveQueue interface {
	EnqueueArchive(ctx context.Context, invoiceNo string) error
	EnqueuePurge(ctx context.Context, invoiceNo string) error
}

// NopArchiveQueue is used when archiving is disabled.
type NopArchiveQueue struct{}

func (NopArchiveQueue) EnqueueArchive(context.Context, string) error { return nil }
func (NopArchiveQueue) EnqueuePurge(context.Context, string) error   { return nil }

// invoiceService implements IInvoiceService.
type invoiceService struct {
	db      *mongo.Database
	cfg     *config.Config
	archive IArchiveQueue
}

// NewInvoiceService creates a new InvoiceService. A nil archive disables
// background archiving.
func NewInvoiceService(database *mongo.Database, cfg *config.Config, archive IArchiveQueue) IInvoiceService {
	if archive == nil {
		archive = NopArchiveQueue{}
	}
	return &invoiceService{db: database, cfg: cfg, archive: archive}
}

func (s *invoiceService) collection() *mongo.Collection {
	return s.db.Collection(db.InvoicesCollection)
}

// Create inserts a new invoice. An existing invoiceNo yields ErrDuplicateKey
// and leaves the stored invoice untouched.
func (s *invoiceService) Create(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error) {
	if invoice.InvoiceNo == "" {
		return nil, invalid("invoiceNo is required")
	}
	if err := s.validate(invoice.Fields()); err != nil {
		return nil, err
	}

	n, err := s.collection().CountDocuments(ctx, bson.M{"invoiceNo": invoice.InvoiceNo}, options.Count().SetLimit(1))
	if err != nil {
		return nil, storeError(fmt.Sprintf("failed to look up invoice %s", invoice.InvoiceNo), err)
	}
	if n > 0 {
		return nil, ErrDuplicateKey
	}

	doc := *invoice
	doc.ID = primitive.NewObjectID()
	if doc.Items == nil {
		doc.Items = []models.CartLine{}
	}
	if _, err := s.collection().InsertOne(ctx, &doc); err != nil {
		// The unique index catches a concurrent insert that passed the lookup.
		if db.IsMongoDuplicateKeyError(err) {
			return nil, ErrDuplicateKey
		}
		return nil, storeError(fmt.Sprintf("failed to insert invoice %s", doc.InvoiceNo), err)
	}

	log.Info().Str("invoiceNo", doc.InvoiceNo).Int("lines", len(doc.Items)).Float64("netPrice", doc.NetPrice).Msg("Invoice created")
	s.enqueue(ctx, doc.InvoiceNo, s.archive.EnqueueArchive)
	return &doc, nil
}

// Update replaces every mutable field of the matching invoice.
func (s *invoiceService) Update(ctx context.Context, invoiceNo string, fields models.InvoiceFields) (*models.Invoice, error) {
	if err := s.validate(fields); err != nil {
		return nil, err
	}
	items := fields.Items
	if items == nil {
		items = []models.CartLine{}
	}

	update := bson.M{"$set": bson.M{
		"customerName": fields.CustomerName,
		"dateOfSale":   fields.DateOfSale,
		"items":        items,
		"discount":     fields.Discount,
		"netPrice":     fields.NetPrice,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Invoice
	err := s.collection().FindOneAndUpdate(ctx, bson.M{"invoiceNo": invoiceNo}, update, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeError(fmt.Sprintf("failed to update invoice %s", invoiceNo), err)
	}

	log.Info().Str("invoiceNo", invoiceNo).Msg("Invoice updated")
	s.enqueue(ctx, invoiceNo, s.archive.EnqueueArchive)
	return &updated, nil
}

// Delete removes the matching invoice.
func (s *invoiceService) Delete(ctx context.Context, invoiceNo string) error {
	res, err := s.collection().DeleteOne(ctx, bson.M{"invoiceNo": invoiceNo})
	if err != nil {
		return storeError(fmt.Sprintf("failed to delete invoice %s", invoiceNo), err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}

	log.Info().Str("invoiceNo", invoiceNo).Msg("Invoice deleted")
	s.enqueue(ctx, invoiceNo, s.archive.EnqueuePurge)
	return nil
}

// Get loads a single invoice by number.
func (s *invoiceService) Get(ctx context.Context, invoiceNo string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := s.collection().FindOne(ctx, bson.M{"invoiceNo": invoiceNo}).Decode(&invoice)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeError(fmt.Sprintf("failed to load invoice %s", invoiceNo), err)
	}
	return &invoice, nil
}

// validate checks the parts of an invoice the store relies on. netPrice is
// stored as sent.
func (s *invoiceService) validate(f models.InvoiceFields) error {
	if f.Discount < 0 {
		return invalid("discount must not be negative")
	}
	for i, line := range f.Items {
		if line.Quantity < 1 {
			return invalid("item %d (%s): quantity must be at least 1", i+1, line.Name)
		}
		if line.Price < 0 {
			return invalid("item %d (%s): price must not be negative", i+1, line.Name)
		}
	}
	if s.cfg != nil && s.cfg.EnforceDiscountCap {
		if total := cart.SumTotals(f.Items); f.Discount > total {
			return invalid("discount %.2f exceeds items total %.2f", f.Discount, total)
		}
	}
	return nil
}

func (s *invoiceService) enqueue(ctx context.Context, invoiceNo string, fn func(context.Context, string) error) {
	if err := fn(ctx, invoiceNo); err != nil {
		log.Warn().Err(err).Str("invoiceNo", invoiceNo).Msg("Failed to enqueue archive task")
	}
}
