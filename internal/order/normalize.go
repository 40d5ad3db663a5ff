package order

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/easyshoppingzone/orderdesk/internal/enum"
)

// Row is one raw record from the spreadsheet API. Column names vary between
// sheets and values arrive as strings, numbers or booleans.
type Row map[string]any

// Source-key variants per canonical field, tried in order.
var (
	dateKeys     = []string{"Date", "date"}
	resellerKeys = []string{"Reseller"}
	customerKeys = []string{"Customer", "Customer Name"}
	mobileKeys   = []string{"Mobile", "Mobile No"}
	addressKeys  = []string{"Address", "Complete Address"}
	productKeys  = []string{"Product", "product"}
	qtyKeys      = []string{"Qty", "qty"}
	priceKeys    = []string{"Price", "price"}
	courierKeys  = []string{"Courier"}
	statusKeys   = []string{"Status"}
)

// Normalize maps raw rows to canonical orders, preserving input order.
// IDs run 1..N; each order also gets a fresh stable key.
func Normalize(rows []Row) []Order {
	orders := make([]Order, len(rows))
	for i, row := range rows {
		orders[i] = normalizeRow(row, i+1)
	}
	return orders
}

func normalizeRow(row Row, id int) Order {
	return Order{
		Key:      uuid.New(),
		ID:       id,
		Date:     pick(row, dateKeys, ""),
		Reseller: pick(row, resellerKeys, enum.DefaultReseller),
		Customer: pick(row, customerKeys, enum.DefaultCustomer),
		Mobile:   pick(row, mobileKeys, ""),
		Address:  pick(row, addressKeys, ""),
		Product:  pick(row, productKeys, ""),
		Qty:      pick(row, qtyKeys, enum.DefaultQty),
		Price:    parsePrice(first(row, priceKeys)),
		Courier:  pick(row, courierKeys, ""),
		Status:   pick(row, statusKeys, enum.OrderStatusPending),
	}
}

// first returns the first truthy value among keys, or nil.
func first(row Row, keys []string) any {
	for _, k := range keys {
		if v, ok := row[k]; ok && truthy(v) {
			return v
		}
	}
	return nil
}

func pick(row Row, keys []string, fallback string) string {
	v := first(row, keys)
	if v == nil {
		return fallback
	}
	return stringify(v)
}

func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case float64:
		return val != 0 && !math.IsNaN(val)
	case int:
		return val != 0
	case int64:
		return val != 0
	case json.Number:
		return val != "" && val != "0"
	}
	return true
}

func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case json.Number:
		return val.String()
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// parsePrice reads the leading integer of v the way a lenient sheet reader
// would: "575" and "575.50" and " 575 Rs" all give 575. Anything without a
// leading number yields 0.
func parsePrice(v any) int64 {
	switch val := v.(type) {
	case nil:
		return 0
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) || math.Abs(val) >= math.MaxInt64/2 {
			return 0
		}
		return int64(val)
	case int:
		return int64(val)
	case int64:
		return val
	}
	return leadingInt(stringify(v))
}

func leadingInt(s string) int64 {
	s = strings.TrimSpace(s)
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	if neg {
		return -n
	}
	return n
}
