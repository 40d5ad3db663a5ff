// Package document renders printable order documents: the 4-up post office
// slip, the V.P. money order and the courier consignment slips.
package document

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/easyshoppingzone/orderdesk/internal/format"
	"github.com/easyshoppingzone/orderdesk/internal/order"
)

//go:embed templates/*.html
var templateFS embed.FS

// OrderDocument is one printable layout.
type OrderDocument interface {
	Name() string
	// Geometry returns the page geometry for a document of n orders.
	Geometry(n int) Geometry
	Fees() FeePolicy
	// Notice is an informational message shown alongside the printout, if any.
	Notice() string
	Render(w io.Writer, orders []order.Order) error
}

// Geometry is the physical page a document is laid out for.
type Geometry struct {
	Size   string // CSS page size, e.g. "A4 landscape"
	Margin string
	// Width and Height of one sheet; empty when the page box is left to the printer.
	Width  string
	Height string
}

// PageRule returns the @page rule for g.
func (g Geometry) PageRule() template.CSS {
	return template.CSS(fmt.Sprintf("@page { size: %s; margin: %s; }", g.Size, g.Margin))
}

// FeePolicy is the fixed handling fee a layout carves out of the order price.
type FeePolicy struct {
	Fee int64
}

// Split returns the base amount, the fee and the total for price.
func (p FeePolicy) Split(price int64) (base, fee, total int64) {
	return price - p.Fee, p.Fee, price
}

// PostalFee is subtracted on post office slips and money orders.
const PostalFee = 75

// Catalog holds every layout, parsed once.
type Catalog struct {
	Slip           OrderDocument
	MoneyOrder     OrderDocument
	LeopardsRS     OrderDocument
	LeopardsBridge OrderDocument
	TCS            OrderDocument
}

// NewCatalog parses the embedded templates. now supplies the clock used for
// tracking numbers and missing dates.
func NewCatalog(now func() time.Time) (*Catalog, error) {
	if now == nil {
		now = time.Now
	}

	slipTmpl, err := parse("slip.html")
	if err != nil {
		return nil, err
	}
	moTmpl, err := parse("money_order.html")
	if err != nil {
		return nil, err
	}
	rsTmpl, err := parse("leopards_rs.html")
	if err != nil {
		return nil, err
	}
	bridgeTmpl, err := parse("leopards_bridge.html")
	if err != nil {
		return nil, err
	}

	slip := &slipDocument{tmpl: slipTmpl}
	return &Catalog{
		Slip:       slip,
		MoneyOrder: &moneyOrderDocument{tmpl: moTmpl},
		LeopardsRS: &courierDocument{
			name:       "leopards-rs",
			tmpl:       rsTmpl,
			geometry:   Geometry{Size: "A4", Margin: "8mm"},
			letterhead: rsLetterhead,
			now:        now,
		},
		LeopardsBridge: &courierDocument{
			name:       "leopards-bridge",
			tmpl:       bridgeTmpl,
			geometry:   Geometry{Size: "A4", Margin: "5mm"},
			letterhead: bridgeLetterhead,
			now:        now,
		},
		TCS: &tcsDocument{slipDocument: slip},
	}, nil
}

func parse(page string) (*template.Template, error) {
	tmpl, err := template.New(page).ParseFS(templateFS, "templates/base.html", "templates/"+page)
	if err != nil {
		return nil, fmt.Errorf("parse document template %s: %w", page, err)
	}
	return tmpl, nil
}

// sheet is the data every document template executes against.
type sheet struct {
	Title    string
	Geometry Geometry
	Notice   string
	Bulk     bool
	Pages    []page
}

type page struct {
	Rows [][]*cell
}

// cell is one order as a document shows it.
type cell struct {
	Order       order.Order
	Date        string
	Product     string
	Base        int64
	Fee         int64
	Total       int64
	AmountWords string
	CustomerRTL bool
	AddressRTL  bool
	Tracking    string
}

func newCell(o order.Order, fees FeePolicy) *cell {
	base, fee, total := fees.Split(o.Price)
	return &cell{
		Order:       o,
		Date:        o.Date,
		Product:     o.Product,
		Base:        base,
		Fee:         fee,
		Total:       total,
		CustomerRTL: format.IsRTL(o.Customer),
		AddressRTL:  format.IsRTL(o.Address),
	}
}

func execute(w io.Writer, tmpl *template.Template, data any) error {
	if err := tmpl.ExecuteTemplate(w, "document", data); err != nil {
		return fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}
	return nil
}
