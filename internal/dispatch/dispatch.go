// Package dispatch picks the printable layout for an order and prepares
// print jobs for the print surface.
package dispatch

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/easyshoppingzone/orderdesk/internal/document"
	"github.com/easyshoppingzone/orderdesk/internal/order"
)

var (
	ErrNothingSelected    = errors.New("Please select orders to print")
	ErrNoMoneyOrderSelect = errors.New("Please select orders to print M.O slips")
	ErrNoPostOfficeOrders = errors.New("No Post Office orders selected! M.O only works for PO orders.")
	ErrNotPostOfficeOrder = errors.New("Money orders are only available for Post Office orders")
)

// Job is a rendered-on-demand document for a set of orders.
type Job struct {
	Document document.OrderDocument
	Orders   []order.Order
	// Message is shown to the user once the job is handed off.
	Message string
}

// Render writes the whole document to w, or nothing if rendering fails.
func (j *Job) Render(w io.Writer) error {
	var buf bytes.Buffer
	if err := j.Document.Render(&buf, j.Orders); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

type Dispatcher struct {
	catalog *document.Catalog
}

func New(catalog *document.Catalog) *Dispatcher {
	return &Dispatcher{catalog: catalog}
}

// ForCourier returns the layout for a courier name. Leopards R&S and Bridge
// have their own slips, TCS borrows the post office slip, and everything
// else prints the post office slip.
func (d *Dispatcher) ForCourier(courier string) document.OrderDocument {
	switch order.ClassifyCourier(courier) {
	case order.CourierLeopardsRS:
		return d.catalog.LeopardsRS
	case order.CourierLeopardsBridge:
		return d.catalog.LeopardsBridge
	case order.CourierTCS:
		return d.catalog.TCS
	}
	return d.catalog.Slip
}

// Slip prepares the courier-specific slip for one order.
func (d *Dispatcher) Slip(o order.Order) *Job {
	doc := d.ForCourier(o.Courier)
	return &Job{Document: doc, Orders: []order.Order{o}, Message: doc.Notice()}
}

// MoneyOrder prepares the money order form for one post office order.
func (d *Dispatcher) MoneyOrder(o order.Order) (*Job, error) {
	if !o.IsPostOffice() {
		return nil, ErrNotPostOfficeOrder
	}
	return &Job{Document: d.catalog.MoneyOrder, Orders: []order.Order{o}}, nil
}

// BulkSlips prints the selection four to a page on the post office slip,
// whatever each order's courier.
func (d *Dispatcher) BulkSlips(orders []order.Order) (*Job, error) {
	if len(orders) == 0 {
		return nil, ErrNothingSelected
	}
	return &Job{Document: d.catalog.Slip, Orders: orders}, nil
}

// BulkMoneyOrders prints one money order per page for the post office orders
// in the selection; the rest are dropped.
func (d *Dispatcher) BulkMoneyOrders(orders []order.Order) (*Job, error) {
	if len(orders) == 0 {
		return nil, ErrNoMoneyOrderSelect
	}

	po := make([]order.Order, 0, len(orders))
	for _, o := range orders {
		if o.IsPostOffice() {
			po = append(po, o)
		}
	}
	if len(po) == 0 {
		return nil, ErrNoPostOfficeOrders
	}

	return &Job{
		Document: d.catalog.MoneyOrder,
		Orders:   po,
		Message:  fmt.Sprintf("Printing %d Money Order slips...", len(po)),
	}, nil
}
