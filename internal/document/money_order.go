package document

import (
	"html/template"
	"io"
	"strconv"

	"github.com/easyshoppingzone/orderdesk/internal/order"
)

const rupeesSuffix = " روپے"

// urduAmounts covers the amounts the shop actually sends. Anything else is
// printed as digits.
var urduAmounts = map[int64]string{
	1000: "ایک ہزار",
	1425: "چودہ سو پچیس",
	1500: "پندرہ سو",
	1925: "انیس سو پچیس",
	2000: "دو ہزار",
	2500: "پچیس سو",
	3000: "تین ہزار",
}

// UrduAmountWords spells n in Urdu with the rupees suffix. Amounts outside
// the lookup table fall back to "<n> روپے".
func UrduAmountWords(n int64) string {
	if words, ok := urduAmounts[n]; ok {
		return words + rupeesSuffix
	}
	return strconv.FormatInt(n, 10) + rupeesSuffix
}

var (
	moneyOrderGeometry     = Geometry{Size: "A4", Margin: "15mm"}
	bulkMoneyOrderGeometry = Geometry{Size: "A4", Margin: "10mm"}
)

// moneyOrderDocument is the bilingual V.P. money order form, one per page.
type moneyOrderDocument struct {
	tmpl *template.Template
}

func (d *moneyOrderDocument) Name() string    { return "money-order" }
func (d *moneyOrderDocument) Fees() FeePolicy { return FeePolicy{Fee: PostalFee} }
func (d *moneyOrderDocument) Notice() string  { return "" }

func (d *moneyOrderDocument) Geometry(n int) Geometry {
	if n > 1 {
		return bulkMoneyOrderGeometry
	}
	return moneyOrderGeometry
}

func (d *moneyOrderDocument) Render(w io.Writer, orders []order.Order) error {
	if len(orders) == 0 {
		return ErrNoOrders
	}

	pages := make([]page, 0, len(orders))
	for _, o := range orders {
		c := newCell(o, d.Fees())
		c.AmountWords = UrduAmountWords(c.Base)
		pages = append(pages, page{Rows: [][]*cell{{c}}})
	}

	return execute(w, d.tmpl, sheet{
		Title:    "Money Orders",
		Geometry: d.Geometry(len(orders)),
		Bulk:     len(orders) > 1,
		Pages:    pages,
	})
}
