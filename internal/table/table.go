// Package table projects orders into the rows the orders list shows.
package table

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/easyshoppingzone/orderdesk/internal/enum"
	"github.com/easyshoppingzone/orderdesk/internal/format"
	"github.com/easyshoppingzone/orderdesk/internal/order"
)

//go:embed templates/rows.html
var rowsFS embed.FS

var rowsTmpl = template.Must(template.New("rows.html").ParseFS(rowsFS, "templates/rows.html"))

// Badge is a small coloured label.
type Badge struct {
	Label string
	Class string
}

// Row is one order as the table shows it.
type Row struct {
	Key           string
	ID            int
	Date          string
	Customer      string
	CustomerRTL   bool
	Initials      string
	AvatarColor   template.CSS
	Mobile        string
	Product       string
	Qty           string
	Price         string
	Courier       Badge
	Status        string
	StatusClass   string
	CanMoneyOrder bool
	// Delay staggers the fade-in animation.
	Delay template.CSS
}

var courierBadges = map[order.Courier]Badge{
	order.CourierPostOffice:     {Label: "PO", Class: "badge-info"},
	order.CourierLeopardsRS:     {Label: "RS", Class: "badge-rs"},
	order.CourierLeopardsBridge: {Label: "Bridge", Class: "badge-bridge"},
	order.CourierLeopards:       {Label: "Leopards", Class: "badge-leopards"},
	order.CourierTCS:            {Label: "TCS", Class: "badge-danger"},
}

// CourierBadge returns the badge for a courier name; unknown couriers get none.
func CourierBadge(courier string) Badge {
	return courierBadges[order.ClassifyCourier(courier)]
}

// StatusClass maps an order status to its badge colour.
func StatusClass(status string) string {
	switch status {
	case enum.OrderStatusDelivered:
		return "success"
	case enum.OrderStatusPending:
		return "warning"
	}
	return "info"
}

// NewRow builds the row for o at display position i.
func NewRow(i int, o order.Order) Row {
	product := o.Product
	if strings.TrimSpace(product) == "" {
		product = "-"
	}
	status := o.Status
	if status == "" {
		status = enum.OrderStatusPending
	}
	return Row{
		Key:           o.Key.String(),
		ID:            o.ID,
		Date:          format.Date(o.Date),
		Customer:      o.Customer,
		CustomerRTL:   format.IsRTL(o.Customer),
		Initials:      format.Initials(o.Customer),
		AvatarColor:   template.CSS(format.AvatarColor(o.Customer)),
		Mobile:        o.Mobile,
		Product:       product,
		Qty:           o.Qty,
		Price:         format.Currency(o.Price),
		Courier:       CourierBadge(o.Courier),
		Status:        status,
		StatusClass:   StatusClass(o.Status),
		CanMoneyOrder: o.IsPostOffice(),
		Delay:         template.CSS(fmt.Sprintf("%.2fs", float64(i)*0.05)),
	}
}

// Rows builds a row per order, keeping their order.
func Rows(orders []order.Order) []Row {
	rows := make([]Row, len(orders))
	for i, o := range orders {
		rows[i] = NewRow(i, o)
	}
	return rows
}

// Render writes the <tr> markup for orders, or a single "No orders found"
// row when there are none.
func Render(w io.Writer, orders []order.Order) error {
	if err := rowsTmpl.ExecuteTemplate(w, "rows", Rows(orders)); err != nil {
		return fmt.Errorf("render order rows: %w", err)
	}
	return nil
}

// HTML renders the rows for embedding in a page.
func HTML(orders []order.Order) (template.HTML, error) {
	var buf bytes.Buffer
	if err := Render(&buf, orders); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
