package order

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/easyshoppingzone/orderdesk/internal/format"
)

// Stats is a snapshot derived from the full collection.
type Stats struct {
	TotalOrders   int   `json:"total_orders"`
	TotalRevenue  int64 `json:"total_revenue"`
	TodayOrders   int   `json:"today_orders"`
	TodayRevenue  int64 `json:"today_revenue"`
	MonthOrders   int   `json:"month_orders"`
	MonthRevenue  int64 `json:"month_revenue"`
	AvgOrderValue int64 `json:"avg_order_value"`
}

// ComputeStats aggregates orders relative to now. Dates go through the same
// parser the table uses, so "DD/MM/YYYY" rows are classified correctly.
// The month bucket compares the calendar month only, not the year.
func ComputeStats(orders []Order, now time.Time) Stats {
	now = now.In(format.Location())
	var s Stats
	s.TotalOrders = len(orders)

	for _, o := range orders {
		s.TotalRevenue += o.Price

		t, ok := format.ParseDate(o.Date)
		if !ok {
			continue
		}
		t = t.In(now.Location())
		if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
			s.TodayOrders++
			s.TodayRevenue += o.Price
		}
		if t.Month() == now.Month() {
			s.MonthOrders++
			s.MonthRevenue += o.Price
		}
	}

	if s.TotalOrders > 0 {
		avg := decimal.NewFromInt(s.TotalRevenue).
			Div(decimal.NewFromInt(int64(s.TotalOrders))).
			Add(decimal.NewFromFloat(0.5)).
			Floor()
		s.AvgOrderValue = avg.IntPart()
	}
	return s
}
