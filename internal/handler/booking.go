package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/easyshoppingzone/orderdesk/internal/enum"
	"github.com/easyshoppingzone/orderdesk/internal/service"
	"github.com/easyshoppingzone/orderdesk/internal/session"
	"github.com/easyshoppingzone/orderdesk/internal/view"
)

// Booker defines the service method needed by booking handlers.
// Satisfied by *service.OrderService.
type Booker interface {
	Book(ctx context.Context, req service.BookingRequest) error
}

// Couriers offered on the booking form.
var Couriers = []string{"Post Office", "Leopards RS", "Leopards Bridge", "Leopards", "TCS"}

// BookingHandler handles the booking form and its API twin.
type BookingHandler struct {
	pages
	svc Booker
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(svc Booker, views PageRenderer, sessions *session.Manager) *BookingHandler {
	return &BookingHandler{pages: pages{views: views, sessions: sessions}, svc: svc}
}

// RegisterRoutes registers the booking page.
func (h *BookingHandler) RegisterRoutes(r chi.Router) {
	r.Get("/booking", h.Form)
	r.Post("/booking", h.Submit)
}

// RegisterAPIRoutes registers the booking endpoint.
func (h *BookingHandler) RegisterAPIRoutes(r chi.Router) {
	r.Post("/orders", h.Create)
}

// --- Request / Response types ---

type bookingPage struct {
	Form     service.BookingRequest
	Error    string
	Couriers []string
}

// --- Handlers ---

// Form shows an empty booking form.
func (h *BookingHandler) Form(w http.ResponseWriter, r *http.Request) {
	h.showForm(w, r, http.StatusOK, service.BookingRequest{Courier: Couriers[0]}, "")
}

// Submit forwards the booking to the sheet. On failure the form comes back
// with the entered values.
func (h *BookingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.showForm(w, r, http.StatusBadRequest, service.BookingRequest{}, "invalid form")
		return
	}
	req := service.BookingRequest{
		Date:     r.PostForm.Get("date"),
		Reseller: r.PostForm.Get("reseller"),
		Customer: r.PostForm.Get("customer"),
		Mobile:   r.PostForm.Get("mobile"),
		Address:  r.PostForm.Get("address"),
		Product:  r.PostForm.Get("product"),
		Qty:      r.PostForm.Get("qty"),
		Price:    r.PostForm.Get("price"),
		Courier:  r.PostForm.Get("courier"),
	}

	err := h.svc.Book(r.Context(), req)
	switch {
	case err == nil:
		h.redirect(w, r, "/orders", enum.ToastSuccess, "Order saved successfully!")
	case errors.Is(err, service.ErrInvalidBooking), errors.Is(err, service.ErrInvalidMobile):
		h.showForm(w, r, http.StatusUnprocessableEntity, req, err.Error())
	default:
		h.showForm(w, r, http.StatusBadGateway, req, service.ErrSaveFailed.Error(),
			session.Toast{Type: enum.ToastError, Message: service.ErrSaveFailed.Error()})
	}
}

// Create books an order from a JSON body.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	err := h.svc.Book(r.Context(), req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, map[string]string{"message": "Order saved successfully!"})
	case errors.Is(err, service.ErrInvalidBooking), errors.Is(err, service.ErrInvalidMobile):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": service.ErrSaveFailed.Error()})
	}
}

// --- Helpers ---

func (h *BookingHandler) showForm(w http.ResponseWriter, r *http.Request, status int, req service.BookingRequest, msg string, extra ...session.Toast) {
	h.render(w, r, status, view.Booking, view.Page{
		Title:  "New Booking",
		Active: "booking",
		Data:   bookingPage{Form: req, Error: msg, Couriers: Couriers},
	}, extra...)
}
