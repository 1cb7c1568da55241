package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SaleDateLayout is the layout sent by the invoice form's date input.
const SaleDateLayout = "2006-01-02"

// Invoice is a persisted sales record keyed by InvoiceNo.
type Invoice struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	InvoiceNo    string             `bson:"invoiceNo" json:"invoiceNo"`
	CustomerName string             `bson:"customerName" json:"customerName"`
	DateOfSale   time.Time          `bson:"dateOfSale" json:"dateOfSale"`
	Items        []CartLine         `bson:"items" json:"items"`
	Discount     float64            `bson:"discount" json:"discount"`
	NetPrice     float64            `bson:"netPrice" json:"netPrice"`
}

// InvoiceFields are the mutable fields replaced wholesale by an update.
type InvoiceFields struct {
	CustomerName string
	DateOfSale   time.Time
	Items        []CartLine
	Discount     float64
	NetPrice     float64
}

// Fields returns the mutable part of the invoice.
func (inv *Invoice) Fields() InvoiceFields {
	return InvoiceFields{
		CustomerName: inv.CustomerName,
		DateOfSale:   inv.DateOfSale,
		Items:        inv.Items,
		Discount:     inv.Discount,
		NetPrice:     inv.NetPrice,
	}
}

// InvoiceRequest is the JSON body of save and update requests.
// InvoiceNo is ignored on update; the path parameter wins.
type InvoiceRequest struct {
	InvoiceNo    string     `json:"invoiceNo"`
	CustomerName string     `json:"customerName"`
	DateOfSale   string     `json:"dateOfSale"`
	Items        []CartLine `json:"items"`
	Discount     float64    `json:"discount"`
	NetPrice     float64    `json:"netPrice"`
}

// ToInvoice converts the request into a document. now is used when no
// sale date was given.
func (r *InvoiceRequest) ToInvoice(now time.Time) (*Invoice, error) {
	date, err := ParseSaleDate(r.DateOfSale, now)
	if err != nil {
		return nil, err
	}
	items := r.Items
	if items == nil {
		items = []CartLine{}
	}
	return &Invoice{
		InvoiceNo:    r.InvoiceNo,
		CustomerName: r.CustomerName,
		DateOfSale:   date,
		Items:        items,
		Discount:     r.Discount,
		NetPrice:     r.NetPrice,
	}, nil
}

// ParseSaleDate accepts YYYY-MM-DD or RFC 3339. An empty string yields now.
func ParseSaleDate(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return now.UTC(), nil
	}
	if t, err := time.Parse(SaleDateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid dateOfSale %q: expected YYYY-MM-DD or RFC 3339", s)
	}
	return t.UTC(), nil
}
