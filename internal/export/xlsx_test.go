package export_test

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/easyshoppingzone/orderdesk/internal/export"
	"github.com/easyshoppingzone/orderdesk/internal/order"
)

func TestWriteOrders(t *testing.T) {
	orders := []order.Order{
		{ID: 1, Date: "30/01/2026", Customer: "Ahmed Khan", Mobile: "03001234567", Qty: "2", Price: 1500, Courier: "Post Office", Status: "Pending"},
		{ID: 2, Date: "", Customer: "احمد", Qty: "1", Price: 575, Courier: "TCS", Status: "Delivered"},
	}

	var buf bytes.Buffer
	if err := export.WriteOrders(&buf, orders); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(export.SheetName)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows: got %d, want 3", len(rows))
	}
	if rows[0][3] != "Customer" || rows[0][8] != "Price" {
		t.Errorf("header: got %v", rows[0])
	}

	tests := []struct {
		row, col int
		want     string
	}{
		{1, 0, "1"},
		{1, 1, "30 Jan 2026"},
		{1, 3, "Ahmed Khan"},
		{1, 8, "1500"},
		{2, 1, "-"},
		{2, 3, "احمد"},
		{2, 9, "TCS"},
	}
	for _, tt := range tests {
		if got := rows[tt.row][tt.col]; got != tt.want {
			t.Errorf("row %d col %d: got %q, want %q", tt.row, tt.col, got, tt.want)
		}
	}
}

func TestWriteOrders_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := export.WriteOrders(&buf, nil); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	rows, _ := f.GetRows(export.SheetName)
	if len(rows) != 1 {
		t.Errorf("rows: got %d, want header only", len(rows))
	}
}
