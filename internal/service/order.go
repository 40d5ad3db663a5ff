package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/ttacon/libphonenumber"

	"github.com/easyshoppingzone/orderdesk/internal/enum"
	"github.com/easyshoppingzone/orderdesk/internal/format"
	"github.com/easyshoppingzone/orderdesk/internal/logging"
	"github.com/easyshoppingzone/orderdesk/internal/order"
	"github.com/easyshoppingzone/orderdesk/internal/sheets"
)

const (
	mobileRegion = "PK"
	bookingDate  = "02/01/2006"
)

// Errors returned by the order service.
var (
	ErrLoadFailed     = errors.New("Failed to load orders")
	ErrSaveFailed     = errors.New("Failed to save order")
	ErrOrderNotFound  = errors.New("order not found")
	ErrInvalidBooking = errors.New("invalid booking")
	ErrInvalidMobile  = errors.New("mobile is not a valid Pakistani number")
)

// OrderSource is the spreadsheet endpoint orders come from and bookings go to.
// Satisfied by *sheets.Client.
type OrderSource interface {
	FetchRows(ctx context.Context) ([]order.Row, error)
	SaveOrder(ctx context.Context, form url.Values) error
}

// Publisher pushes live events to connected dashboards. Satisfied by *ws.Hub.
type Publisher interface {
	Publish(eventType string, payload any)
}

// BookingRequest is a new order entered on the booking form.
type BookingRequest struct {
	Date     string `json:"date"`
	Reseller string `json:"reseller" validate:"max=100"`
	Customer string `json:"customer" validate:"required,max=100"`
	Mobile   string `json:"mobile" validate:"required"`
	Address  string `json:"address" validate:"required,max=500"`
	Product  string `json:"product" validate:"required,max=200"`
	Qty      string `json:"qty" validate:"required,numeric"`
	Price    string `json:"price" validate:"required,numeric"`
	Courier  string `json:"courier" validate:"required,max=50"`
}

// RefreshedEvent is published after the collection is reloaded.
type RefreshedEvent struct {
	Count int `json:"count"`
}

// DeletedEvent is published after an order is removed locally.
type DeletedEvent struct {
	Key uuid.UUID `json:"key"`
	ID  int       `json:"id"`
}

// BookedEvent is published after a booking reaches the spreadsheet.
type BookedEvent struct {
	Customer string `json:"customer"`
	Courier  string `json:"courier"`
}

type OrderService struct {
	source   OrderSource
	orders   *order.Collection
	events   Publisher
	now      func() time.Time
	validate *validator.Validate
	log      *logrus.Logger
}

func NewOrderService(source OrderSource, orders *order.Collection, events Publisher, now func() time.Time) *OrderService {
	if now == nil {
		now = time.Now
	}
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	return &OrderService{
		source:   source,
		orders:   orders,
		events:   events,
		now:      now,
		validate: v,
		log:      logging.GetLogger(),
	}
}

// Refresh reloads the collection from the spreadsheet. On failure the
// collection is emptied and marked unloaded, and the error wraps
// ErrLoadFailed. A refresh that finishes after a newer one has been applied
// is discarded.
func (s *OrderService) Refresh(ctx context.Context) (int, error) {
	ticket := s.orders.Begin()

	rows, err := s.source.FetchRows(ctx)
	if err != nil {
		logging.LogError(s.log, "service", "Refresh", "fetch rows", map[string]bool{"retryable": sheets.Retryable(err)}, err)
		s.orders.Fail(ticket)
		return 0, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	orders := order.Normalize(rows)
	if !s.orders.Replace(ticket, orders) {
		s.log.WithField("ticket", ticket).Info("discarding stale refresh")
		return s.orders.Len(), nil
	}

	s.log.WithField("count", len(orders)).Info("orders refreshed")
	s.events.Publish(enum.EventOrdersRefreshed, RefreshedEvent{Count: len(orders)})
	return len(orders), nil
}

// EnsureLoaded refreshes once if nothing has been loaded yet.
func (s *OrderService) EnsureLoaded(ctx context.Context) error {
	if s.orders.Loaded() {
		return nil
	}
	_, err := s.Refresh(ctx)
	return err
}

// List returns the orders matching q, or all of them when q is blank.
func (s *OrderService) List(q string) []order.Order {
	return order.Filter(s.orders.All(), q)
}

func (s *OrderService) Get(key uuid.UUID) (order.Order, error) {
	o, ok := s.orders.Get(key)
	if !ok {
		return order.Order{}, ErrOrderNotFound
	}
	return o, nil
}

// Select returns the orders for keys in the given order, skipping unknown keys.
func (s *OrderService) Select(keys []uuid.UUID) []order.Order {
	return s.orders.Select(keys)
}

// Delete removes an order from the local collection only. The next refresh
// brings it back if it still exists upstream.
func (s *OrderService) Delete(key uuid.UUID) (order.Order, error) {
	o, ok := s.orders.Delete(key)
	if !ok {
		return order.Order{}, ErrOrderNotFound
	}
	s.log.WithFields(logrus.Fields{"id": o.ID, "customer": o.Customer}).Info("order deleted locally")
	s.events.Publish(enum.EventOrderDeleted, DeletedEvent{Key: o.Key, ID: o.ID})
	return o, nil
}

// Stats aggregates the whole collection, ignoring any filter.
func (s *OrderService) Stats() order.Stats {
	return order.ComputeStats(s.orders.All(), s.now())
}

// Book validates req and posts it to the spreadsheet, then reloads the
// collection so the new row shows up.
func (s *OrderService) Book(ctx context.Context, req BookingRequest) error {
	req = trimBooking(req)
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidBooking, describe(err))
	}

	mobile, err := NormalizeMobile(req.Mobile)
	if err != nil {
		return err
	}
	req.Mobile = mobile

	if req.Date == "" {
		req.Date = s.now().In(format.Location()).Format(bookingDate)
	}
	if req.Reseller == "" {
		req.Reseller = enum.DefaultReseller
	}

	if err := s.source.SaveOrder(ctx, bookingForm(req)); err != nil {
		logging.LogError(s.log, "service", "Book", "save order", req.Customer, err)
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	s.events.Publish(enum.EventOrderBooked, BookedEvent{Customer: req.Customer, Courier: req.Courier})

	if _, err := s.Refresh(ctx); err != nil {
		s.log.WithError(err).Warn("refresh after booking failed")
	}
	return nil
}

// NormalizeMobile parses a Pakistani mobile number in any common notation and
// returns it in national form without spaces, e.g. 03001234567.
func NormalizeMobile(raw string) (string, error) {
	p, err := libphonenumber.Parse(raw, mobileRegion)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidMobile, err)
	}
	if !libphonenumber.IsValidNumber(p) {
		return "", ErrInvalidMobile
	}
	national := libphonenumber.Format(p, libphonenumber.NATIONAL)
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, national), nil
}

func trimBooking(req BookingRequest) BookingRequest {
	req.Date = strings.TrimSpace(req.Date)
	req.Reseller = strings.TrimSpace(req.Reseller)
	req.Customer = strings.TrimSpace(req.Customer)
	req.Mobile = strings.TrimSpace(req.Mobile)
	req.Address = strings.TrimSpace(req.Address)
	req.Product = strings.TrimSpace(req.Product)
	req.Qty = strings.TrimSpace(req.Qty)
	req.Price = strings.TrimSpace(req.Price)
	req.Courier = strings.TrimSpace(req.Courier)
	return req
}

// bookingForm uses the same column names the sheet returns on fetch.
func bookingForm(req BookingRequest) url.Values {
	return url.Values{
		"Date":     {req.Date},
		"Reseller": {req.Reseller},
		"Customer": {req.Customer},
		"Mobile":   {req.Mobile},
		"Address":  {req.Address},
		"Product":  {req.Product},
		"Qty":      {req.Qty},
		"Price":    {req.Price},
		"Courier":  {req.Courier},
		"Status":   {enum.OrderStatusPending},
	}
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "numeric":
			msgs = append(msgs, fe.Field()+" must be a number")
		case "max":
			msgs = append(msgs, fe.Field()+" is too long")
		default:
			msgs = append(msgs, fe.Field()+" is invalid")
		}
	}
	return strings.Join(msgs, ", ")
}
