// Package ports declares the capability interfaces the order service
// consumes. The service owns the orchestration; everything behind these
// interfaces is an external collaborator.
package ports

import (
	"context"

	"github.com/commercekit/order-lifecycle/internal/order/domain"
)

// Inventory checks, reserves and releases stock.
type Inventory interface {
	// CheckStock reports whether the requested quantity is available.
	CheckStock(ctx context.Context, productName string, quantity int) (bool, error)

	// ReserveStock places a hard hold on the requested quantity.
	ReserveStock(ctx context.Context, productName string, quantity int) (bool, error)

	// ReleaseReservedStock returns a previous reservation to the pool.
	// It is the compensating action when payment fails after a reservation.
	ReleaseReservedStock(ctx context.Context, productName string, quantity int) error
}

// Payment executes charges and decides whether settlement needs human review.
type Payment interface {
	// ProcessPayment charges the order. A false result is a declined
	// charge; a non-nil error is a transport or provider failure.
	ProcessPayment(ctx context.Context, order *domain.Order) (bool, error)

	// NeedsManualApproval is a pure decision over an already-charged
	// order; it cannot fail.
	NeedsManualApproval(order *domain.Order) bool
}

// Notification delivers order state-change messages.
type Notification interface {
	SendPendingApproval(ctx context.Context, order *domain.Order) error
	SendPaidConfirmation(ctx context.Context, order *domain.Order) error
}

// Discount resolves a discount code to the amount to subtract from the
// subtotal. Unknown codes resolve to zero.
type Discount interface {
	ValidateCode(ctx context.Context, code string) (float64, error)
}
