package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/easyshoppingzone/orderdesk/internal/dispatch"
	"github.com/easyshoppingzone/orderdesk/internal/document"
	"github.com/easyshoppingzone/orderdesk/internal/export"
	"github.com/easyshoppingzone/orderdesk/internal/handler"
	"github.com/easyshoppingzone/orderdesk/internal/order"
	"github.com/easyshoppingzone/orderdesk/internal/service"
	"github.com/easyshoppingzone/orderdesk/internal/session"
)

// --- Mock service ---

type mockOrderService struct {
	orders     []order.Order
	loadErr    error
	refreshErr error
	refreshes  int
	deleted    []uuid.UUID
}

func (m *mockOrderService) Refresh(ctx context.Context) (int, error) {
	m.refreshes++
	if m.refreshErr != nil {
		return 0, m.refreshErr
	}
	return len(m.orders), nil
}

func (m *mockOrderService) EnsureLoaded(ctx context.Context) error { return m.loadErr }

func (m *mockOrderService) List(q string) []order.Order { return order.Filter(m.orders, q) }

func (m *mockOrderService) Get(key uuid.UUID) (order.Order, error) {
	for _, o := range m.orders {
		if o.Key == key {
			return o, nil
		}
	}
	return order.Order{}, service.ErrOrderNotFound
}

func (m *mockOrderService) Select(keys []uuid.UUID) []order.Order {
	var out []order.Order
	for _, k := range keys {
		if o, err := m.Get(k); err == nil {
			out = append(out, o)
		}
	}
	return out
}

func (m *mockOrderService) Delete(key uuid.UUID) (order.Order, error) {
	for i, o := range m.orders {
		if o.Key == key {
			m.orders = append(m.orders[:i], m.orders[i+1:]...)
			m.deleted = append(m.deleted, key)
			return o, nil
		}
	}
	return order.Order{}, service.ErrOrderNotFound
}

func (m *mockOrderService) Stats() order.Stats {
	return order.ComputeStats(m.orders, time.Date(2026, time.January, 30, 12, 0, 0, 0, time.UTC))
}

// --- Helpers ---

func testOrders() []order.Order {
	return []order.Order{
		{Key: uuid.New(), ID: 1, Date: "30/01/2026", Customer: "Ahmed Khan", Mobile: "03001234567", Product: "Herbal Oil", Qty: "1", Price: 1500, Courier: "Post Office", Status: "Pending"},
		{Key: uuid.New(), ID: 2, Date: "29/01/2026", Customer: "Sara Bibi", Mobile: "03331234567", Product: "Hair Serum", Qty: "2", Price: 2000, Courier: "Leopards RS", Status: "Delivered"},
		{Key: uuid.New(), ID: 3, Date: "28/01/2026", Customer: "Bilal", Mobile: "03451234567", Product: "Soap", Qty: "1", Price: 575, Courier: "TCS", Status: "Pending"},
	}
}

func newOrderRouter(t *testing.T, svc *mockOrderService) (*chi.Mux, *session.Manager) {
	t.Helper()
	catalog, err := document.NewCatalog(func() time.Time { return time.Date(2026, time.January, 30, 10, 0, 0, 0, time.UTC) })
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	sessions := newSessions()
	h := handler.NewOrderHandler(svc, dispatch.New(catalog), newViews(t), sessions)
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	r.Route("/api", h.RegisterAPIRoutes)
	return r, sessions
}

func followToasts(t *testing.T, r http.Handler, rr *httptest.ResponseRecorder) string {
	t.Helper()
	return get(r, "/orders", rr.Result().Cookies()).Body.String()
}

// --- Page tests ---

func TestOrdersList(t *testing.T) {
	r, _ := newOrderRouter(t, &mockOrderService{orders: testOrders()})

	rr := get(r, "/orders", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	body := rr.Body.String()
	for _, want := range []string{"Ahmed Khan", "Sara Bibi", "Bilal", `id="orderCount">3<`} {
		if !strings.Contains(body, want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestOrdersList_Filtered(t *testing.T) {
	r, _ := newOrderRouter(t, &mockOrderService{orders: testOrders()})

	body := get(r, "/orders?q=serum", nil).Body.String()
	if !strings.Contains(body, "Sara Bibi") || strings.Contains(body, "Ahmed Khan") {
		t.Error("list should only show matching orders")
	}
}

func TestOrdersList_LoadFailure(t *testing.T) {
	r, _ := newOrderRouter(t, &mockOrderService{loadErr: service.ErrLoadFailed})

	body := get(r, "/orders", nil).Body.String()
	if !strings.Contains(body, "Failed to load orders") {
		t.Error("expected load failure toast")
	}
	if !strings.Contains(body, "No orders found") {
		t.Error("expected empty table")
	}
}

func TestOrderRows(t *testing.T) {
	r, _ := newOrderRouter(t, &mockOrderService{orders: testOrders()})

	rr := get(r, "/orders/rows?q=0345", nil)
	if rr.Header().Get("X-Order-Count") != "1" {
		t.Errorf("count header: got %q", rr.Header().Get("X-Order-Count"))
	}
	if !strings.Contains(rr.Body.String(), "Bilal") {
		t.Error("rows should contain the match")
	}
	if strings.Contains(rr.Body.String(), "<html") {
		t.Error("rows should be a fragment")
	}
}

func TestRefresh(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		next  string
		want  string
		toast string
	}{
		{"success", nil, "", "/orders", "Loaded 3 orders"},
		{"back to dashboard", nil, "next=/dashboard", "/dashboard", "Loaded 3 orders"},
		{"foreign next ignored", nil, "next=https://evil.example", "/orders", "Loaded 3 orders"},
		{"failure", errors.New("boom"), "", "/orders", "Failed to load orders"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockOrderService{orders: testOrders(), refreshErr: tt.err}
			r, _ := newOrderRouter(t, svc)

			rr := postForm(r, "/orders/refresh", tt.next, nil)
			assertRedirect(t, rr, tt.want)
			if svc.refreshes != 1 {
				t.Errorf("refreshes: got %d", svc.refreshes)
			}
			if !strings.Contains(followToasts(t, r, rr), tt.toast) {
				t.Errorf("expected toast %q", tt.toast)
			}
		})
	}
}

func TestOrderDetail(t *testing.T) {
	orders := testOrders()
	r, _ := newOrderRouter(t, &mockOrderService{orders: orders})

	rr := get(r, "/orders/"+orders[1].Key.String(), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Order #2") {
		t.Error("missing order heading")
	}
}

func TestOrderDetail_NotFound(t *testing.T) {
	r, _ := newOrderRouter(t, &mockOrderService{orders: testOrders()})

	for _, path := range []string{"/orders/" + uuid.NewString(), "/orders/not-a-key/print"} {
		rr := get(r, path, nil)
		assertRedirect(t, rr, "/orders")
		if !strings.Contains(followToasts(t, r, rr), "Order not found") {
			t.Errorf("%s: expected not found toast", path)
		}
	}
}

func TestDelete_ConfirmThenDelete(t *testing.T) {
	orders := testOrders()
	svc := &mockOrderService{orders: orders}
	r, _ := newOrderRouter(t, svc)
	path := "/orders/" + orders[2].Key.String() + "/delete"

	confirm := get(r, path, nil)
	if !strings.Contains(confirm.Body.String(), "Amount: Rs. 575") {
		t.Error("confirmation should show the amount")
	}
	if len(svc.deleted) != 0 {
		t.Fatal("GET must not delete")
	}

	rr := postForm(r, path, "", nil)
	assertRedirect(t, rr, "/orders")
	if len(svc.deleted) != 1 || svc.deleted[0] != orders[2].Key {
		t.Errorf("deleted: got %v", svc.deleted)
	}
	body := followToasts(t, r, rr)
	if !strings.Contains(body, "Order deleted successfully!") {
		t.Error("expected success toast")
	}
	if strings.Contains(body, "Bilal") {
		t.Error("deleted order should be gone from the list")
	}
}

// --- Print tests ---

func TestPrint_ByCourier(t *testing.T) {
	orders := testOrders()
	r, _ := newOrderRouter(t, &mockOrderService{orders: orders})

	tests := []struct {
		order order.Order
		want  string
	}{
		{orders[0], "Rs: 1425 + 75 = "},
		{orders[1], "RBC-500"},
		{orders[2], "TCS slip printed (using default design)"},
	}
	for _, tt := range tests {
		rr := get(r, "/orders/"+tt.order.Key.String()+"/print", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: status %d", tt.order.Courier, rr.Code)
		}
		if !strings.Contains(rr.Body.String(), tt.want) {
			t.Errorf("%s: missing %q", tt.order.Courier, tt.want)
		}
	}
}

func TestPrintMoneyOrder(t *testing.T) {
	orders := testOrders()
	r, _ := newOrderRouter(t, &mockOrderService{orders: orders})

	rr := get(r, "/orders/"+orders[0].Key.String()+"/money-order", nil)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `class="mo-page"`) {
		t.Errorf("post office order should print a money order, got %d", rr.Code)
	}

	rr = get(r, "/orders/"+orders[1].Key.String()+"/money-order", nil)
	assertRedirect(t, rr, "/orders")
	if !strings.Contains(followToasts(t, r, rr), "only available for Post Office orders") {
		t.Error("expected warning toast")
	}
}

func TestPrintSelected(t *testing.T) {
	orders := testOrders()
	r, _ := newOrderRouter(t, &mockOrderService{orders: orders})

	rr := postForm(r, "/orders/print", "key="+orders[0].Key.String()+"&key="+orders[1].Key.String(), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	if got := strings.Count(rr.Body.String(), `class="slip-box"`); got != 2 {
		t.Errorf("slips: got %d, want 2", got)
	}

	rr = postForm(r, "/orders/print", "", nil)
	assertRedirect(t, rr, "/orders")
	if !strings.Contains(followToasts(t, r, rr), "Please select orders to print") {
		t.Error("expected nothing-selected warning")
	}
}

func TestPrintMoneyOrders(t *testing.T) {
	orders := testOrders()
	r, _ := newOrderRouter(t, &mockOrderService{orders: orders})

	all := "key=" + orders[0].Key.String() + "&key=" + orders[1].Key.String() + "&key=" + orders[2].Key.String()
	rr := postForm(r, "/orders/money-orders", all, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	if got := strings.Count(rr.Body.String(), `class="mo-page"`); got != 1 {
		t.Errorf("money orders: got %d, want 1", got)
	}
	if !strings.Contains(followToasts(t, r, rr), "Printing 1 Money Order slips...") {
		t.Error("expected printing toast")
	}

	rr = postForm(r, "/orders/money-orders", "key="+orders[1].Key.String(), nil)
	assertRedirect(t, rr, "/orders")
	if !strings.Contains(followToasts(t, r, rr), "No Post Office orders selected!") {
		t.Error("expected no-PO warning")
	}
}

func TestExport(t *testing.T) {
	r, _ := newOrderRouter(t, &mockOrderService{orders: testOrders()})

	rr := get(r, "/orders/export.xlsx?q=ahmed", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != export.ContentType {
		t.Errorf("content type: got %q", ct)
	}
	if !strings.HasPrefix(rr.Body.String(), "PK") {
		t.Error("body should be a zip container")
	}
}

// --- API tests ---

func TestAPIList(t *testing.T) {
	r, _ := newOrderRouter(t, &mockOrderService{orders: testOrders()})

	rr := get(r, "/api/orders?q=serum", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"customer":"Sara Bibi"`) {
		t.Errorf("body: %s", rr.Body.String())
	}

	rr = get(r, "/api/orders?q=nobody", nil)
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Errorf("empty result should be an empty array, got %s", rr.Body.String())
	}
}

func TestAPIList_LoadFailure(t *testing.T) {
	r, _ := newOrderRouter(t, &mockOrderService{loadErr: service.ErrLoadFailed})

	rr := get(r, "/api/orders", nil)
	if rr.Code != http.StatusBadGateway {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadGateway)
	}
}

func TestAPIGetAndDelete(t *testing.T) {
	orders := testOrders()
	svc := &mockOrderService{orders: orders}
	r, _ := newOrderRouter(t, svc)
	path := "/api/orders/" + orders[0].Key.String()

	if rr := get(r, path, nil); rr.Code != http.StatusOK {
		t.Fatalf("get: status %d", rr.Code)
	}

	req := httptest.NewRequest("DELETE", path, nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete: status %d", rr.Code)
	}

	if rr := get(r, path, nil); rr.Code != http.StatusNotFound {
		t.Errorf("get after delete: status %d", rr.Code)
	}
	if rr := get(r, "/api/orders/bad-key", nil); rr.Code != http.StatusBadRequest {
		t.Errorf("bad key: status %d", rr.Code)
	}
}
