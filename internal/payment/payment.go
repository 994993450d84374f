// Package payment provides an in-memory implementation of the Payment
// capability: charges are declined above a hard amount limit, and orders
// above a review threshold are held for manual approval.
package payment

import (
	"context"
	"log/slog"

	"github.com/commercekit/order-lifecycle/internal/order/domain"
	"github.com/commercekit/order-lifecycle/internal/order/ports"
)

// Ensure Processor implements the port at compile time.
var _ ports.Payment = (*Processor)(nil)

// Processor is a deterministic payment collaborator.
type Processor struct {
	// declineAbove is the maximum chargeable total; anything above is
	// declined outright.
	declineAbove float64

	// reviewAbove is the total above which a successful charge still
	// requires manual approval before settlement.
	reviewAbove float64
}

func NewProcessor(declineAbove, reviewAbove float64) *Processor {
	return &Processor{declineAbove: declineAbove, reviewAbove: reviewAbove}
}

func (p *Processor) ProcessPayment(ctx context.Context, order *domain.Order) (bool, error) {
	if order.TotalPrice > p.declineAbove {
		slog.InfoContext(ctx, "payment declined, amount exceeds limit",
			"product", order.ProductName,
			"total", order.TotalPrice,
			"limit", p.declineAbove,
		)
		return false, nil
	}

	slog.InfoContext(ctx, "payment processed", "product", order.ProductName, "total", order.TotalPrice)
	return true, nil
}

func (p *Processor) NeedsManualApproval(order *domain.Order) bool {
	return order.TotalPrice > p.reviewAbove
}
