// Package order turns spreadsheet rows into canonical order records and
// holds the in-memory collection the dashboard works on.
package order

import (
	"strings"

	"github.com/google/uuid"

	"github.com/easyshoppingzone/orderdesk/internal/enum"
)

// Order is the canonical record. Every field is populated after
// normalization; Qty stays a string because the sheet is free text.
type Order struct {
	Key      uuid.UUID `json:"key"`
	ID       int       `json:"id"`
	Date     string    `json:"date"`
	Reseller string    `json:"reseller"`
	Customer string    `json:"customer"`
	Mobile   string    `json:"mobile"`
	Address  string    `json:"address"`
	Product  string    `json:"product"`
	Qty      string    `json:"qty"`
	Price    int64     `json:"price"`
	Courier  string    `json:"courier"`
	Status   string    `json:"status"`
}

// Courier is the courier family an order ships with.
type Courier int

const (
	CourierOther Courier = iota
	CourierPostOffice
	CourierLeopardsRS
	CourierLeopardsBridge
	CourierLeopards
	CourierTCS
)

func (c Courier) String() string {
	switch c {
	case CourierPostOffice:
		return "Post Office"
	case CourierLeopardsRS:
		return "Leopards R&S"
	case CourierLeopardsBridge:
		return "Leopards Bridge"
	case CourierLeopards:
		return "Leopards"
	case CourierTCS:
		return "TCS"
	}
	return "Other"
}

// ClassifyCourier matches the lower-cased courier text against the known
// families. Post Office wins over every Leopards variant, which win over TCS.
func ClassifyCourier(courier string) Courier {
	c := strings.ToLower(courier)
	isLeopards := strings.Contains(c, enum.CourierLeopards)
	switch {
	case strings.Contains(c, enum.CourierPostOffice):
		return CourierPostOffice
	case isLeopards && strings.Contains(c, enum.CourierLeopardsRS):
		return CourierLeopardsRS
	case isLeopards && strings.Contains(c, enum.CourierLeopardsBridge):
		return CourierLeopardsBridge
	case isLeopards:
		return CourierLeopards
	case strings.Contains(c, enum.CourierTCS):
		return CourierTCS
	}
	return CourierOther
}

// CourierFamily returns the courier family of o.
func (o Order) CourierFamily() Courier {
	return ClassifyCourier(o.Courier)
}

// IsPostOffice reports whether o ships by post and so gets a money order.
func (o Order) IsPostOffice() bool {
	return strings.Contains(strings.ToLower(o.Courier), enum.CourierPostOffice)
}

// Matches reports whether term occurs, ignoring case, in the customer name,
// mobile number or product description. An empty term matches everything.
func (o Order) Matches(term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(o.Customer), term) ||
		strings.Contains(strings.ToLower(o.Mobile), term) ||
		strings.Contains(strings.ToLower(o.Product), term)
}

// Filter returns the orders matching term, in their original order.
func Filter(orders []Order, term string) []Order {
	term = strings.TrimSpace(term)
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		if o.Matches(term) {
			out = append(out, o)
		}
	}
	return out
}
