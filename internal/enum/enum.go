package enum

// ── Order status (free text upstream; these are the values the UI keys off) ──

const (
	OrderStatusPending   = "Pending"
	OrderStatusDelivered = "Delivered"
)

// ── Normalization defaults ──

const (
	DefaultReseller = "Easy Shopping Zone"
	DefaultCustomer = "Unknown"
	DefaultQty      = "1"
)

// ── Staff roles ──

const (
	UserRoleAdmin = "Admin"
	UserRoleStaff = "Staff"
)

// ── Courier families, matched by substring against the lower-cased courier field ──

const (
	CourierPostOffice     = "post"
	CourierLeopards       = "leopards"
	CourierLeopardsRS     = "rs"
	CourierLeopardsBridge = "bridge"
	CourierTCS            = "tcs"
)

// ── Toast levels ──

const (
	ToastSuccess = "success"
	ToastError   = "error"
	ToastWarning = "warning"
	ToastInfo    = "info"
)

// ── Live event types ──

const (
	EventOrdersRefreshed = "orders.refreshed"
	EventOrderDeleted    = "order.deleted"
	EventOrderBooked     = "order.booked"
)
