package document

import (
	"html/template"
	"io"
	"strconv"
	"time"

	"github.com/easyshoppingzone/orderdesk/internal/format"
	"github.com/easyshoppingzone/orderdesk/internal/order"
)

const (
	trackingPrefix = "MG"
	trackingDigits = 10
	todayLayout    = "02/01/2006"
)

// Letterhead is the fixed shipper block and defaults printed on a courier slip.
type Letterhead struct {
	Company         string
	Phone           string
	Address         string
	Weight          string
	Service         string
	BookingType     string
	Origin          string
	Destination     string
	ProductFallback string
	Instruction     string
	// FormatDate runs the order date through the display formatter.
	FormatDate bool
}

var rsLetterhead = Letterhead{
	Company:         "EASY SHOPPING ZONE BY PURE LIFE FAMILY CARE",
	Phone:           "03147686866",
	Address:         "SHOP NO.2, AL SAEED MARKET KHAN..MUZAFFARGARH",
	Weight:          "2 Kg",
	Service:         "Overnight",
	BookingType:     "Invoice",
	Origin:          "Muzaffargarh",
	Destination:     "---",
	ProductFallback: "RBC-500",
	FormatDate:      true,
}

var bridgeLetterhead = Letterhead{
	Company:         "EASY SHOPPING ZONE KHAN GARH",
	Phone:           "0311-7686862",
	Address:         "NEAR HBL BANK KHAN GARH (MUZAFFARGARH)",
	Weight:          "0.5 Kg",
	Service:         "Overnight",
	BookingType:     "Invoice",
	Origin:          "Muzaffargarh",
	Destination:     "---",
	ProductFallback: "RBC-10",
	Instruction:     "URGENT DELIVERY (PLEASE CALL THE CUSTOMER BEFORE DELIVERY)",
}

// courierDocument is a Leopards consignment slip. COD is the full price.
type courierDocument struct {
	name       string
	tmpl       *template.Template
	geometry   Geometry
	letterhead Letterhead
	now        func() time.Time
}

func (d *courierDocument) Name() string          { return d.name }
func (d *courierDocument) Geometry(int) Geometry { return d.geometry }
func (d *courierDocument) Fees() FeePolicy       { return FeePolicy{} }
func (d *courierDocument) Notice() string        { return "" }

// Render prints one slip per page. Each call stamps fresh tracking numbers.
func (d *courierDocument) Render(w io.Writer, orders []order.Order) error {
	if len(orders) == 0 {
		return ErrNoOrders
	}

	now := d.now().In(format.Location())
	pages := make([]page, 0, len(orders))
	for i, o := range orders {
		c := newCell(o, d.Fees())
		c.Tracking = TrackingNumber(now.Add(time.Duration(i) * time.Millisecond))
		c.Date = d.date(o.Date, now)
		if c.Product == "" {
			c.Product = d.letterhead.ProductFallback
		}
		pages = append(pages, page{Rows: [][]*cell{{c}}})
	}

	return execute(w, d.tmpl, struct {
		sheet
		Letterhead Letterhead
	}{
		sheet: sheet{
			Title:    "Consignment Slip",
			Geometry: d.geometry,
			Bulk:     len(orders) > 1,
			Pages:    pages,
		},
		Letterhead: d.letterhead,
	})
}

func (d *courierDocument) date(raw string, now time.Time) string {
	if raw == "" {
		return now.Format(todayLayout)
	}
	if d.letterhead.FormatDate {
		return format.Date(raw)
	}
	return raw
}

// TrackingNumber derives a synthetic tracking number from the low digits of
// the millisecond clock. It is not idempotent.
func TrackingNumber(now time.Time) string {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	if len(ms) > trackingDigits {
		ms = ms[len(ms)-trackingDigits:]
	}
	return trackingPrefix + ms
}
