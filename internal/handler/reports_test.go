package handler_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/easyshoppingzone/orderdesk/internal/handler"
	"github.com/easyshoppingzone/orderdesk/internal/service"
)

func newReportsRouter(t *testing.T, svc *mockOrderService) *chi.Mux {
	t.Helper()
	h := handler.NewReportsHandler(svc, newViews(t), newSessions())
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	r.Route("/api", h.RegisterAPIRoutes)
	return r
}

func TestDashboard(t *testing.T) {
	r := newReportsRouter(t, &mockOrderService{orders: testOrders()})

	rr := get(r, "/dashboard", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{
		`id="totalOrders">3<`,
		`id="totalRevenue">Rs 4,075<`,
		`id="todayOrders">1<`,
		`id="avgOrderValue">Rs 1,358<`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestDashboard_LoadFailure(t *testing.T) {
	r := newReportsRouter(t, &mockOrderService{loadErr: service.ErrLoadFailed})

	body := get(r, "/dashboard", nil).Body.String()
	if !strings.Contains(body, "Failed to load orders") {
		t.Error("expected load failure toast")
	}
	if !strings.Contains(body, `id="totalOrders">0<`) {
		t.Error("stats should be zero")
	}
}

func TestStatsAPI(t *testing.T) {
	r := newReportsRouter(t, &mockOrderService{orders: testOrders()})

	rr := get(r, "/api/stats", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	resp := decodeResponse(t, rr)
	if resp["total_orders"] != float64(3) {
		t.Errorf("total_orders: got %v", resp["total_orders"])
	}
	if resp["total_revenue_text"] != "Rs 4,075" {
		t.Errorf("total_revenue_text: got %v", resp["total_revenue_text"])
	}
}

func TestStatsAPI_LoadFailure(t *testing.T) {
	r := newReportsRouter(t, &mockOrderService{loadErr: service.ErrLoadFailed})

	if rr := get(r, "/api/stats", nil); rr.Code != http.StatusBadGateway {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadGateway)
	}
}
