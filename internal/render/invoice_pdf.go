// Package render produces the printable view of a stored invoice.
//
// Page layout (A4):
//
//	shop name / address            | INVOICE + number
//	invoice no, date of sale, customer
//	item | price | qty | total      (one row per cart line)
//	subtotal, discount, net price
//	thank-you footer
package render

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/SaniatAzam/invoice-generator/internal/cart"
	"github.com/SaniatAzam/invoice-generator/internal/models"
)

var (
	colorPrimary = &props.Color{Red: 37, Green: 99, Blue: 235}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorZebra   = &props.Color{Red: 243, Green: 244, Blue: 246}
)

// Shop is the header printed on every invoice.
type Shop struct {
	Name    string
	Address string
}

// IInvoiceRenderer turns an invoice into a printable document.
type IInvoiceRenderer interface {
	RenderInvoicePDF(ctx context.Context, invoice *models.Invoice) ([]byte, error)
}

// PDFRenderer implements IInvoiceRenderer with maroto.
type PDFRenderer struct {
	shop Shop
}

// NewPDFRenderer creates a renderer for the given shop.
func NewPDFRenderer(shop Shop) *PDFRenderer {
	return &PDFRenderer{shop: shop}
}

// RenderInvoicePDF renders the invoice and returns the PDF bytes.
func (r *PDFRenderer) RenderInvoicePDF(_ context.Context, invoice *models.Invoice) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Invoice "+invoice.InvoiceNo, true).
		WithAuthor(r.shop.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(r.headerRow(invoice))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(detailsRow(invoice))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(invoice.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(invoice))
	m.AddRows(footerRow(r.shop))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to render invoice %s: %w", invoice.InvoiceNo, err)
	}
	return doc.GetBytes(), nil
}

func (r *PDFRenderer) headerRow(invoice *models.Invoice) core.Row {
	return row.New(18).Add(
		col.New(8).Add(
			text.New(r.shop.Name, props.Text{Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1}),
			text.New(r.shop.Address, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("INVOICE", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New(invoice.InvoiceNo, props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7}),
		),
	)
}

func detailsRow(invoice *models.Invoice) core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New("Invoice No: "+invoice.InvoiceNo, props.Text{Size: 9, Top: 1}),
			text.New("Date of Sale: "+invoice.DateOfSale.Format(models.SaleDateLayout), props.Text{Size: 9, Top: 6}),
			text.New("Customer Name: "+invoice.CustomerName, props.Text{Size: 9, Top: 11}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: a, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Item", 6, align.Left),
		h("Price", 2, align.Right),
		h("Qty", 2, align.Center),
		h("Total", 2, align.Right),
	)
}

func tableRows(lines []models.CartLine) []core.Row {
	rows := make([]core.Row, 0, len(lines))
	for i, l := range lines {
		r := row.New(7).Add(
			col.New(6).Add(text.New(l.Name, props.Text{Size: 9, Top: 1, Left: 1})),
			col.New(2).Add(text.New(Money(l.Price), props.Text{Size: 9, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(strconv.Itoa(l.Quantity), props.Text{Size: 9, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(Money(l.Total), props.Text{Size: 9, Align: align.Right, Top: 1, Right: 1})),
		)
		if i%2 == 0 {
			r.WithStyle(&props.Cell{BackgroundColor: colorZebra})
		}
		rows = append(rows, r)
	}
	return rows
}

func totalsRow(invoice *models.Invoice) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:", 1),
			label("Discount:", 6),
			label("Net Price:", 11),
		),
		col.New(3).Add(
			value(Money(cart.SumTotals(invoice.Items)), 1),
			value(Money(invoice.Discount), 6),
			text.New(Money(invoice.NetPrice), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 1, Top: 11, Color: colorPrimary,
			}),
		),
	)
}

func footerRow(shop Shop) core.Row {
	return row.New(12).Add(col.New(12).Add(
		text.New("Thank you for shopping with "+shop.Name, props.Text{
			Size: 9, Align: align.Center, Top: 4, Color: colorGray,
		}),
	))
}

// Money formats an amount the way the invoice form shows it: "$" followed
// by the shortest decimal representation.
func Money(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', -1, 64)
}
