package domain

import "time"

// Pricing and validation rules for retail orders. Tax is a flat 20% applied
// after the discount; a discount may never exceed 30% of the subtotal.
const (
	MinProductNameLen = 3
	MaxQuantity       = 100

	TaxMultiplier    = 1.20
	MaxDiscountRatio = 0.30

	// UpdateWindow is how long after creation an order stays mutable.
	UpdateWindow = 30 * 24 * time.Hour
)

// Priority drives the stock-acquisition strategy: High-priority orders get a
// hard reservation, the rest only an availability check.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityNormal Priority = "Normal"
	PriorityHigh   Priority = "High"
)

// ParsePriority maps the wire representation to a Priority. An empty string
// defaults to Normal; anything else outside the closed set is rejected.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case "":
		return PriorityNormal, nil
	case PriorityLow, PriorityNormal, PriorityHigh:
		return Priority(s), nil
	default:
		return "", NewValidationError("priority", "Invalid priority: "+s)
	}
}

// State is the lifecycle state of an order.
type State string

const (
	StateCreated         State = "Created"
	StatePendingApproval State = "PendingApproval"
	StatePaid            State = "Paid"
	StateCancelled       State = "Cancelled"

	// StateShipped is never set by this service; it is written by the
	// fulfilment side and only respected here as terminal for cancellation.
	StateShipped State = "Shipped"
)

type Order struct {
	ID             int64
	ProductName    string
	Quantity       int
	UnitPrice      float64
	Priority       Priority
	DiscountCode   string
	DiscountAmount float64
	TotalPrice     float64
	State          State
	CreatedAt      time.Time
}

// Subtotal is the pre-discount, pre-tax amount.
func (o *Order) Subtotal() float64 {
	return o.UnitPrice * float64(o.Quantity)
}

// CanCancel reports whether the order may still transition to Cancelled.
// Shipped and Cancelled are terminal for the cancel operation.
func (o *Order) CanCancel() bool {
	return o.State != StateShipped && o.State != StateCancelled
}

// Stale reports whether the order has aged out of its update window.
func (o *Order) Stale(now time.Time) bool {
	return now.Sub(o.CreatedAt) > UpdateWindow
}

// Total applies the flat tax to the discounted subtotal.
func Total(subtotal, discount float64) float64 {
	return (subtotal - discount) * TaxMultiplier
}

// ValidateProductName enforces the minimum name length.
func ValidateProductName(name string) error {
	if len(name) < MinProductNameLen {
		return NewValidationError("product_name", "product name too short")
	}
	return nil
}

// ValidateQuantity enforces the creation bounds; UpdateOrder reuses it.
func ValidateQuantity(qty int) error {
	if qty <= 0 {
		return NewValidationError("quantity", "quantity must be positive")
	}
	if qty > MaxQuantity {
		return NewValidationError("quantity", "quantity exceeds max limit")
	}
	return nil
}
