package document

import (
	"errors"
	"html/template"
	"io"

	"github.com/easyshoppingzone/orderdesk/internal/order"
)

// ErrNoOrders is returned when a document is rendered for nothing.
var ErrNoOrders = errors.New("no orders to print")

const (
	slipsPerPage  = 4
	slipsPerRow   = 2
	tcsNoticeText = "TCS slip printed (using default design)"
)

var slipGeometry = Geometry{Size: "A4 landscape", Margin: "0", Width: "297mm", Height: "209mm"}

// slipDocument is the post office address slip, four to an A4 landscape sheet.
type slipDocument struct {
	tmpl *template.Template
}

func (d *slipDocument) Name() string          { return "slip" }
func (d *slipDocument) Geometry(int) Geometry { return slipGeometry }
func (d *slipDocument) Fees() FeePolicy       { return FeePolicy{Fee: PostalFee} }
func (d *slipDocument) Notice() string        { return "" }

func (d *slipDocument) Render(w io.Writer, orders []order.Order) error {
	return d.render(w, orders, "")
}

func (d *slipDocument) render(w io.Writer, orders []order.Order, notice string) error {
	if len(orders) == 0 {
		return ErrNoOrders
	}
	return execute(w, d.tmpl, sheet{
		Title:    "Slips",
		Geometry: slipGeometry,
		Notice:   notice,
		Bulk:     len(orders) > 1,
		Pages:    gridPages(orders, d.Fees()),
	})
}

// gridPages lays orders out 2x2 per page; missing slots stay nil.
func gridPages(orders []order.Order, fees FeePolicy) []page {
	var pages []page
	for start := 0; start < len(orders); start += slipsPerPage {
		p := page{Rows: make([][]*cell, slipsPerPage/slipsPerRow)}
		for slot := 0; slot < slipsPerPage; slot++ {
			var c *cell
			if i := start + slot; i < len(orders) {
				c = newCell(orders[i], fees)
			}
			p.Rows[slot/slipsPerRow] = append(p.Rows[slot/slipsPerRow], c)
		}
		pages = append(pages, p)
	}
	return pages
}

// tcsDocument prints the post office slip until TCS has its own design.
type tcsDocument struct {
	*slipDocument
}

func (d *tcsDocument) Name() string   { return "tcs" }
func (d *tcsDocument) Notice() string { return tcsNoticeText }

func (d *tcsDocument) Render(w io.Writer, orders []order.Order) error {
	return d.render(w, orders, tcsNoticeText)
}
