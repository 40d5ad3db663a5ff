package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/easyshoppingzone/orderdesk/internal/dispatch"
	"github.com/easyshoppingzone/orderdesk/internal/enum"
	"github.com/easyshoppingzone/orderdesk/internal/export"
	"github.com/easyshoppingzone/orderdesk/internal/logging"
	"github.com/easyshoppingzone/orderdesk/internal/order"
	"github.com/easyshoppingzone/orderdesk/internal/service"
	"github.com/easyshoppingzone/orderdesk/internal/session"
	"github.com/easyshoppingzone/orderdesk/internal/table"
	"github.com/easyshoppingzone/orderdesk/internal/view"
)

// OrderServicer defines the service methods needed by order handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderServicer interface {
	Refresh(ctx context.Context) (int, error)
	EnsureLoaded(ctx context.Context) error
	List(q string) []order.Order
	Get(key uuid.UUID) (order.Order, error)
	Select(keys []uuid.UUID) []order.Order
	Delete(key uuid.UUID) (order.Order, error)
}

// PrintDispatcher prepares print jobs. Satisfied by *dispatch.Dispatcher.
type PrintDispatcher interface {
	Slip(o order.Order) *dispatch.Job
	MoneyOrder(o order.Order) (*dispatch.Job, error)
	BulkSlips(orders []order.Order) (*dispatch.Job, error)
	BulkMoneyOrders(orders []order.Order) (*dispatch.Job, error)
}

// OrderHandler handles the orders list, detail, delete and print endpoints.
type OrderHandler struct {
	pages
	svc     OrderServicer
	printer PrintDispatcher
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(svc OrderServicer, printer PrintDispatcher, views PageRenderer, sessions *session.Manager) *OrderHandler {
	return &OrderHandler{
		pages:   pages{views: views, sessions: sessions},
		svc:     svc,
		printer: printer,
	}
}

// RegisterRoutes registers the order pages.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/orders", h.List)
	r.Get("/orders/rows", h.Rows)
	r.Get("/orders/export.xlsx", h.Export)
	r.Post("/orders/refresh", h.Refresh)
	r.Post("/orders/print", h.PrintSelected)
	r.Post("/orders/money-orders", h.PrintMoneyOrders)
	r.Get("/orders/{key}", h.Detail)
	r.Get("/orders/{key}/print", h.Print)
	r.Get("/orders/{key}/money-order", h.PrintMoneyOrder)
	r.Get("/orders/{key}/delete", h.ConfirmDelete)
	r.Post("/orders/{key}/delete", h.Delete)
}

// RegisterAPIRoutes registers the JSON order endpoints.
func (h *OrderHandler) RegisterAPIRoutes(r chi.Router) {
	r.Get("/orders", h.APIList)
	r.Post("/orders/refresh", h.APIRefresh)
	r.Get("/orders/{key}", h.APIGet)
	r.Delete("/orders/{key}", h.APIDelete)
}

// --- Request / Response types ---

type ordersPage struct {
	Query string
	Count int
	Rows  template.HTML
}

type refreshResponse struct {
	Count int `json:"count"`
}

// --- Handlers ---

// List shows the orders table, loading from the sheet on first use.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	var extra []session.Toast
	if err := h.svc.EnsureLoaded(r.Context()); err != nil {
		extra = append(extra, session.Toast{Type: enum.ToastError, Message: service.ErrLoadFailed.Error()})
	}

	q := r.URL.Query().Get("q")
	orders := h.svc.List(q)
	rows, err := table.HTML(orders)
	if err != nil {
		logging.LogError(logging.GetLogger(), "handler", "List", "render rows", q, err)
		http.Error(w, "Error rendering page", http.StatusInternalServerError)
		return
	}

	h.render(w, r, http.StatusOK, view.Orders, view.Page{
		Title:  "Orders",
		Active: "orders",
		Data:   ordersPage{Query: q, Count: len(orders), Rows: rows},
	}, extra...)
}

// Rows returns just the table body for the live search box.
func (h *OrderHandler) Rows(w http.ResponseWriter, r *http.Request) {
	orders := h.svc.List(r.URL.Query().Get("q"))

	var buf bytes.Buffer
	if err := table.Render(&buf, orders); err != nil {
		http.Error(w, "Error rendering rows", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Order-Count", strconv.Itoa(len(orders)))
	buf.WriteTo(w)
}

// Refresh reloads the collection from the sheet.
func (h *OrderHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	next := "/orders"
	if r.FormValue("next") == "/dashboard" {
		next = "/dashboard"
	}

	n, err := h.svc.Refresh(r.Context())
	if err != nil {
		h.redirect(w, r, next, enum.ToastError, service.ErrLoadFailed.Error())
		return
	}
	h.redirect(w, r, next, enum.ToastInfo, fmt.Sprintf("Loaded %d orders", n))
}

// Export downloads the (optionally filtered) orders as a workbook.
func (h *OrderHandler) Export(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.EnsureLoaded(r.Context()); err != nil {
		h.redirect(w, r, "/orders", enum.ToastError, service.ErrLoadFailed.Error())
		return
	}
	orders := h.svc.List(r.URL.Query().Get("q"))

	var buf bytes.Buffer
	if err := export.WriteOrders(&buf, orders); err != nil {
		logging.LogError(logging.GetLogger(), "handler", "Export", "write workbook", len(orders), err)
		http.Error(w, "Failed to write file", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename=orders.xlsx")
	buf.WriteTo(w)
}

// Detail shows one order.
func (h *OrderHandler) Detail(w http.ResponseWriter, r *http.Request) {
	o, ok := h.lookup(w, r)
	if !ok {
		return
	}
	h.render(w, r, http.StatusOK, view.OrderDetail, view.Page{
		Title:  fmt.Sprintf("Order #%d", o.ID),
		Active: "orders",
		Data:   o,
	})
}

// ConfirmDelete asks before removing an order.
func (h *OrderHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	o, ok := h.lookup(w, r)
	if !ok {
		return
	}
	h.render(w, r, http.StatusOK, view.DeleteOrder, view.Page{
		Title:  "Delete Order",
		Active: "orders",
		Data:   o,
	})
}

// Delete removes an order from the local collection.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	key, err := uuid.Parse(chi.URLParam(r, "key"))
	if err != nil {
		h.redirect(w, r, "/orders", enum.ToastError, "Order not found")
		return
	}
	if _, err := h.svc.Delete(key); err != nil {
		h.redirect(w, r, "/orders", enum.ToastError, "Order not found")
		return
	}
	h.redirect(w, r, "/orders", enum.ToastSuccess, "Order deleted successfully!")
}

// Print renders the courier slip for one order.
func (h *OrderHandler) Print(w http.ResponseWriter, r *http.Request) {
	o, ok := h.lookup(w, r)
	if !ok {
		return
	}
	h.writeJob(w, r, h.printer.Slip(o))
}

// PrintMoneyOrder renders the money order form for one post office order.
func (h *OrderHandler) PrintMoneyOrder(w http.ResponseWriter, r *http.Request) {
	o, ok := h.lookup(w, r)
	if !ok {
		return
	}
	job, err := h.printer.MoneyOrder(o)
	if err != nil {
		h.redirect(w, r, "/orders", enum.ToastWarning, err.Error())
		return
	}
	h.writeJob(w, r, job)
}

// PrintSelected renders the 4-up slip sheet for the ticked orders.
func (h *OrderHandler) PrintSelected(w http.ResponseWriter, r *http.Request) {
	job, err := h.printer.BulkSlips(h.selected(r))
	if err != nil {
		h.redirect(w, r, "/orders", enum.ToastWarning, err.Error())
		return
	}
	h.writeJob(w, r, job)
}

// PrintMoneyOrders renders money orders for the ticked post office orders.
func (h *OrderHandler) PrintMoneyOrders(w http.ResponseWriter, r *http.Request) {
	job, err := h.printer.BulkMoneyOrders(h.selected(r))
	if err != nil {
		h.redirect(w, r, "/orders", enum.ToastWarning, err.Error())
		return
	}
	h.writeJob(w, r, job)
}

// APIList returns the orders matching ?q=.
func (h *OrderHandler) APIList(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.EnsureLoaded(r.Context()); err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": service.ErrLoadFailed.Error()})
		return
	}
	orders := h.svc.List(r.URL.Query().Get("q"))
	if orders == nil {
		orders = []order.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

// APIRefresh reloads the collection from the sheet.
func (h *OrderHandler) APIRefresh(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Refresh(r.Context())
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": service.ErrLoadFailed.Error()})
		return
	}
	writeJSON(w, http.StatusOK, refreshResponse{Count: n})
}

// APIGet returns one order by key.
func (h *OrderHandler) APIGet(w http.ResponseWriter, r *http.Request) {
	key, err := uuid.Parse(chi.URLParam(r, "key"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order key"})
		return
	}
	o, err := h.svc.Get(key)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// APIDelete removes one order from the local collection.
func (h *OrderHandler) APIDelete(w http.ResponseWriter, r *http.Request) {
	key, err := uuid.Parse(chi.URLParam(r, "key"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order key"})
		return
	}
	if _, err := h.svc.Delete(key); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Helpers ---

// lookup resolves {key} to an order, redirecting to the list when it is gone.
func (h *OrderHandler) lookup(w http.ResponseWriter, r *http.Request) (order.Order, bool) {
	key, err := uuid.Parse(chi.URLParam(r, "key"))
	if err == nil {
		if o, err := h.svc.Get(key); err == nil {
			return o, true
		}
	}
	h.redirect(w, r, "/orders", enum.ToastError, "Order not found")
	return order.Order{}, false
}

// selected returns the ticked orders in the order they were submitted.
func (h *OrderHandler) selected(r *http.Request) []order.Order {
	if err := r.ParseForm(); err != nil {
		return nil
	}
	keys := make([]uuid.UUID, 0, len(r.PostForm["key"]))
	for _, raw := range r.PostForm["key"] {
		if key, err := uuid.Parse(raw); err == nil {
			keys = append(keys, key)
		}
	}
	return h.svc.Select(keys)
}

// writeJob sends a print document, queueing its message as a toast.
func (h *OrderHandler) writeJob(w http.ResponseWriter, r *http.Request, job *dispatch.Job) {
	var buf bytes.Buffer
	if err := job.Render(&buf); err != nil {
		logging.LogError(logging.GetLogger(), "handler", "writeJob", job.Document.Name(), len(job.Orders), err)
		http.Error(w, "Error rendering document", http.StatusInternalServerError)
		return
	}
	if job.Message != "" {
		if err := h.sessions.Flash(w, r, enum.ToastInfo, job.Message); err != nil {
			logging.GetLogger().WithError(err).Warn("failed to save flash")
		}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}
