package document_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/easyshoppingzone/orderdesk/internal/document"
	"github.com/easyshoppingzone/orderdesk/internal/order"
)

var fixedNow = time.Date(2026, time.January, 30, 10, 0, 0, 123_000_000, time.UTC)

func newCatalog(t *testing.T) *document.Catalog {
	t.Helper()
	c, err := document.NewCatalog(func() time.Time { return fixedNow })
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	return c
}

func sampleOrder() order.Order {
	return order.Order{
		ID:       1,
		Date:     "30/01/2026",
		Reseller: "Easy Shopping Zone",
		Customer: "Ahmed Khan",
		Mobile:   "03001234567",
		Address:  "House 12, Street 4, Multan",
		Product:  "Herbal Oil",
		Qty:      "2",
		Price:    575,
		Courier:  "Post Office",
		Status:   "Pending",
	}
}

func render(t *testing.T, d document.OrderDocument, orders ...order.Order) string {
	t.Helper()
	var buf bytes.Buffer
	if err := d.Render(&buf, orders); err != nil {
		t.Fatalf("render %s: %v", d.Name(), err)
	}
	return buf.String()
}

func TestFeePolicy_Split(t *testing.T) {
	c := newCatalog(t)

	tests := []struct {
		name            string
		doc             document.OrderDocument
		base, fee, full int64
	}{
		{"slip", c.Slip, 500, 75, 575},
		{"money order", c.MoneyOrder, 500, 75, 575},
		{"tcs", c.TCS, 500, 75, 575},
		{"leopards rs", c.LeopardsRS, 575, 0, 575},
		{"leopards bridge", c.LeopardsBridge, 575, 0, 575},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, fee, total := tt.doc.Fees().Split(575)
			if base != tt.base || fee != tt.fee || total != tt.full {
				t.Errorf("split: got %d/%d/%d, want %d/%d/%d", base, fee, total, tt.base, tt.fee, tt.full)
			}
		})
	}
}

func TestSlip_ShowsBasePlusFee(t *testing.T) {
	out := render(t, newCatalog(t).Slip, sampleOrder())

	if !strings.Contains(out, "Rs: 500 + 75 = ") {
		t.Errorf("slip missing fee breakdown")
	}
	if !strings.Contains(out, `<span class="total-chip">575</span>`) {
		t.Errorf("slip missing total")
	}
	if !strings.Contains(out, "@page { size: A4 landscape; margin: 0; }") {
		t.Errorf("slip missing landscape page rule")
	}
	if !strings.Contains(out, "window.print()") {
		t.Errorf("slip missing print trigger")
	}
}

func TestSlip_FourPerPage(t *testing.T) {
	o := sampleOrder()
	out := render(t, newCatalog(t).Slip, o, o, o, o, o)

	if got := strings.Count(out, `class="page-sheet"`); got != 2 {
		t.Errorf("pages: got %d, want 2", got)
	}
	if got := strings.Count(out, `class="slip-box"`); got != 5 {
		t.Errorf("slips: got %d, want 5", got)
	}
	if got := strings.Count(out, "<td></td>"); got != 3 {
		t.Errorf("empty cells: got %d, want 3", got)
	}
}

func TestSlip_RightToLeftFields(t *testing.T) {
	o := sampleOrder()
	o.Customer = "احمد خان"
	out := render(t, newCatalog(t).Slip, o)

	if !strings.Contains(out, `class="cell font-xl name-rtl"`) {
		t.Errorf("urdu customer should use rtl class")
	}
	if !strings.Contains(out, `class="cell address-text addr-ltr"`) {
		t.Errorf("latin address should stay ltr")
	}
}

func TestMoneyOrder_ShowsBaseAndWords(t *testing.T) {
	o := sampleOrder()
	o.Price = 2075
	out := render(t, newCatalog(t).MoneyOrder, o)

	if !strings.Contains(out, "Rs.</span>2000") {
		t.Errorf("money order should show base 2000")
	}
	if !strings.Contains(out, "دو ہزار روپے") {
		t.Errorf("money order missing urdu words")
	}
	if !strings.Contains(out, "margin: 15mm;") {
		t.Errorf("single money order should use 15mm margin")
	}
}

func TestMoneyOrder_575(t *testing.T) {
	out := render(t, newCatalog(t).MoneyOrder, sampleOrder())

	if !strings.Contains(out, "Rs.</span>500") {
		t.Errorf("money order should show base 500")
	}
	if !strings.Contains(out, "500 روپے") {
		t.Errorf("money order should fall back to numeral words")
	}
}

func TestMoneyOrder_BulkOnePerPage(t *testing.T) {
	c := newCatalog(t)
	o := sampleOrder()
	out := render(t, c.MoneyOrder, o, o, o)

	if got := strings.Count(out, `class="mo-page"`); got != 3 {
		t.Errorf("pages: got %d, want 3", got)
	}
	if !strings.Contains(out, "margin: 10mm;") {
		t.Errorf("bulk money order should use 10mm margin")
	}
	if c.MoneyOrder.Geometry(3).Margin != "10mm" || c.MoneyOrder.Geometry(1).Margin != "15mm" {
		t.Errorf("geometry should depend on order count")
	}
}

func TestUrduAmountWords(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{1000, "ایک ہزار روپے"},
		{1425, "چودہ سو پچیس روپے"},
		{1500, "پندرہ سو روپے"},
		{1925, "انیس سو پچیس روپے"},
		{2000, "دو ہزار روپے"},
		{2500, "پچیس سو روپے"},
		{3000, "تین ہزار روپے"},
		{1234, "1234 روپے"},
		{-75, "-75 روپے"},
	}
	for _, tt := range tests {
		if got := document.UrduAmountWords(tt.n); got != tt.want {
			t.Errorf("UrduAmountWords(%d): got %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestLeopards_FullPrice(t *testing.T) {
	c := newCatalog(t)
	for _, d := range []document.OrderDocument{c.LeopardsRS, c.LeopardsBridge} {
		out := render(t, d, sampleOrder())
		if !strings.Contains(out, "Rs: 575.00") {
			t.Errorf("%s: COD should be full price", d.Name())
		}
		if strings.Contains(out, "Rs: 500") {
			t.Errorf("%s: COD must not subtract the postal fee", d.Name())
		}
	}
}

func TestLeopardsRS_Letterhead(t *testing.T) {
	o := sampleOrder()
	o.Product = ""
	out := render(t, newCatalog(t).LeopardsRS, o)

	for _, want := range []string{
		"MG9767200123",
		"30 Jan 2026",
		"2 Kg",
		"RBC-500",
		"EASY SHOPPING ZONE BY PURE LIFE FAMILY CARE",
		"@page { size: A4; margin: 8mm; }",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestLeopardsBridge_Letterhead(t *testing.T) {
	o := sampleOrder()
	o.Product = ""
	o.Date = ""
	out := render(t, newCatalog(t).LeopardsBridge, o)

	for _, want := range []string{
		"30/01/2026",
		"0.5 Kg",
		"RBC-10",
		"URGENT DELIVERY (PLEASE CALL THE CUSTOMER BEFORE DELIVERY)",
		"@page { size: A4; margin: 5mm; }",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestLeopardsBridge_RawDate(t *testing.T) {
	o := sampleOrder()
	o.Date = "2026-01-30"
	out := render(t, newCatalog(t).LeopardsBridge, o)

	if !strings.Contains(out, "2026-01-30") {
		t.Errorf("bridge slip should print the date as entered")
	}
}

func TestTrackingNumber(t *testing.T) {
	got := document.TrackingNumber(time.UnixMilli(1769750400123))
	if got != "MG9750400123" {
		t.Errorf("tracking: got %q", got)
	}
	if document.TrackingNumber(time.UnixMilli(1769750400124)) == got {
		t.Errorf("tracking numbers should change with the clock")
	}
}

func TestTCS_UsesSlipWithNotice(t *testing.T) {
	c := newCatalog(t)
	out := render(t, c.TCS, sampleOrder())

	if c.TCS.Notice() != "TCS slip printed (using default design)" {
		t.Errorf("notice: got %q", c.TCS.Notice())
	}
	if !strings.Contains(out, c.TCS.Notice()) {
		t.Errorf("tcs output should carry its notice")
	}
	if !strings.Contains(out, "Rs: 500 + 75 = ") {
		t.Errorf("tcs should render the post office slip")
	}
	if c.Slip.Notice() != "" {
		t.Errorf("slip should carry no notice")
	}
}

func TestRender_NoOrders(t *testing.T) {
	c := newCatalog(t)
	for _, d := range []document.OrderDocument{c.Slip, c.MoneyOrder, c.LeopardsRS, c.LeopardsBridge, c.TCS} {
		if err := d.Render(&bytes.Buffer{}, nil); !errors.Is(err, document.ErrNoOrders) {
			t.Errorf("%s: got %v, want ErrNoOrders", d.Name(), err)
		}
	}
}

func TestRender_EscapesOrderFields(t *testing.T) {
	o := sampleOrder()
	o.Customer = `<script>alert(1)</script>`
	out := render(t, newCatalog(t).Slip, o)

	if strings.Contains(out, "<script>alert(1)</script>") {
		t.Errorf("customer name should be escaped")
	}
}
