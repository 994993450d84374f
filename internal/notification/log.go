// Package notification provides the Notification capability: delivery of
// order state-change messages. Two implementations ship with the service, a
// slog notifier for local runs and a Kafka publisher for real deployments.
package notification

import (
	"context"
	"log/slog"

	"github.com/commercekit/order-lifecycle/internal/order/domain"
	"github.com/commercekit/order-lifecycle/internal/order/ports"
)

// Ensure LogNotifier implements the port at compile time.
var _ ports.Notification = (*LogNotifier)(nil)

// LogNotifier writes each dispatch to the structured log. It never fails.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) SendPendingApproval(ctx context.Context, order *domain.Order) error {
	slog.InfoContext(ctx, "notification: order pending approval",
		"order_id", order.ID,
		"product", order.ProductName,
		"total", order.TotalPrice,
	)
	return nil
}

func (n *LogNotifier) SendPaidConfirmation(ctx context.Context, order *domain.Order) error {
	slog.InfoContext(ctx, "notification: order paid",
		"order_id", order.ID,
		"product", order.ProductName,
		"total", order.TotalPrice,
	)
	return nil
}
