package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/easyshoppingzone/orderdesk/internal/enum"
	"github.com/easyshoppingzone/orderdesk/internal/format"
	"github.com/easyshoppingzone/orderdesk/internal/order"
	"github.com/easyshoppingzone/orderdesk/internal/service"
	"github.com/easyshoppingzone/orderdesk/internal/session"
	"github.com/easyshoppingzone/orderdesk/internal/view"
)

// StatsSource defines the service methods needed by report handlers.
// Satisfied by *service.OrderService.
type StatsSource interface {
	EnsureLoaded(ctx context.Context) error
	Stats() order.Stats
}

// ReportsHandler handles the dashboard and the stats endpoint.
type ReportsHandler struct {
	pages
	svc StatsSource
}

// NewReportsHandler creates a new ReportsHandler.
func NewReportsHandler(svc StatsSource, views PageRenderer, sessions *session.Manager) *ReportsHandler {
	return &ReportsHandler{pages: pages{views: views, sessions: sessions}, svc: svc}
}

// RegisterRoutes registers the dashboard page.
func (h *ReportsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.Dashboard)
}

// RegisterAPIRoutes registers the stats endpoint.
func (h *ReportsHandler) RegisterAPIRoutes(r chi.Router) {
	r.Get("/stats", h.Stats)
}

// --- Response types ---

type statsResponse struct {
	order.Stats
	TotalRevenueText  string `json:"total_revenue_text"`
	AvgOrderValueText string `json:"avg_order_value_text"`
}

// --- Handlers ---

// Dashboard shows the stat cards for the whole collection.
func (h *ReportsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	var extra []session.Toast
	if err := h.svc.EnsureLoaded(r.Context()); err != nil {
		extra = append(extra, session.Toast{Type: enum.ToastError, Message: service.ErrLoadFailed.Error()})
	}

	h.render(w, r, http.StatusOK, view.Dashboard, view.Page{
		Title:  "Dashboard",
		Active: "dashboard",
		Data:   h.svc.Stats(),
	}, extra...)
}

// Stats returns the dashboard figures as JSON.
func (h *ReportsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.EnsureLoaded(r.Context()); err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": service.ErrLoadFailed.Error()})
		return
	}
	s := h.svc.Stats()
	writeJSON(w, http.StatusOK, statsResponse{
		Stats:             s,
		TotalRevenueText:  format.Currency(s.TotalRevenue),
		AvgOrderValueText: format.Currency(s.AvgOrderValue),
	})
}
