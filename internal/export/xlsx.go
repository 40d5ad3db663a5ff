// Package export writes the order list as a spreadsheet download.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/easyshoppingzone/orderdesk/internal/format"
	"github.com/easyshoppingzone/orderdesk/internal/order"
)

const (
	SheetName   = "Orders"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var headings = []string{"ID", "Date", "Reseller", "Customer", "Mobile", "Address", "Product", "Qty", "Price", "Courier", "Status"}

func cellValues(o order.Order) []any {
	return []any{o.ID, format.Date(o.Date), o.Reseller, o.Customer, o.Mobile, o.Address, o.Product, o.Qty, o.Price, o.Courier, o.Status}
}

// WriteOrders writes orders to w as an .xlsx workbook with one header row.
func WriteOrders(w io.Writer, orders []order.Order) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for col, h := range headings {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return fmt.Errorf("set heading %s: %w", h, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(headings), 1)
	if err := f.SetCellStyle(SheetName, "A1", last, bold); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}

	for i, o := range orders {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := cellValues(o)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("write order %d: %w", o.ID, err)
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
