// Package order implements the order-lifecycle orchestrator: input
// validation, price computation, priority-driven stock acquisition, payment,
// state resolution and the post-creation update/cancel rules.
package order

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/commercekit/order-lifecycle/internal/order/auditlog"
	"github.com/commercekit/order-lifecycle/internal/order/domain"
	"github.com/commercekit/order-lifecycle/internal/order/ports"
)

// CreateOrderInput carries the raw creation request. Priority is the wire
// string; empty defaults to Normal. DiscountCode is optional.
type CreateOrderInput struct {
	ProductName  string
	Quantity     int
	UnitPrice    float64
	Priority     string
	DiscountCode string
}

// Service orchestrates the order lifecycle. It owns the in-memory store
// (order map, next-id counter, cancellation trail) and consumes the four
// capability ports.
//
// The mutex guards every store mutation; id assignment and map insertion
// happen inside the same critical section so ids stay strictly increasing
// and are never reused, even under a concurrent HTTP host. Collaborator
// calls run outside the lock.
type Service struct {
	inventory ports.Inventory
	payment   ports.Payment
	notifier  ports.Notification
	discounts ports.Discount

	// auditRepo may be nil — persistence of the trail is then skipped;
	// the in-memory trail still records every cancellation.
	auditRepo auditlog.Repository

	tracer trace.Tracer

	mu        sync.Mutex
	orders    map[int64]*domain.Order
	nextID    int64
	cancelled []*domain.Order
}

// NewService wires the orchestrator with its collaborators.
// auditRepo may be nil.
func NewService(
	inventory ports.Inventory,
	payment ports.Payment,
	notifier ports.Notification,
	discounts ports.Discount,
	auditRepo auditlog.Repository,
) *Service {
	return &Service{
		inventory: inventory,
		payment:   payment,
		notifier:  notifier,
		discounts: discounts,
		auditRepo: auditRepo,
		tracer:    otel.Tracer("order-service"),
		orders:    make(map[int64]*domain.Order),
		nextID:    1,
	}
}

// CreateOrder validates the input, prices the order, acquires stock according
// to priority, processes payment and stores the order in its resolved state.
//
// A failed attempt (validation, discount cap, stock, payment) stores nothing
// and consumes no id. A High-priority order whose payment fails gets its
// reservation released before the error is surfaced, so failed orders never
// leave a dangling reservation.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "CreateOrder")
	defer span.End()

	// Input validation, fail fast, before any collaborator is consulted.
	if err := domain.ValidateProductName(in.ProductName); err != nil {
		return nil, err
	}
	if err := domain.ValidateQuantity(in.Quantity); err != nil {
		return nil, err
	}
	priority, err := domain.ParsePriority(in.Priority)
	if err != nil {
		return nil, err
	}

	// Pricing.
	subtotal := in.UnitPrice * float64(in.Quantity)
	var discount float64
	if in.DiscountCode != "" {
		discount, err = s.discounts.ValidateCode(ctx, in.DiscountCode)
		if err != nil {
			return nil, fmt.Errorf("resolve discount code: %w", err)
		}
		if discount > domain.MaxDiscountRatio*subtotal {
			return nil, domain.ErrDiscountTooLarge
		}
	}

	o := &domain.Order{
		ProductName:    in.ProductName,
		Quantity:       in.Quantity,
		UnitPrice:      in.UnitPrice,
		Priority:       priority,
		DiscountCode:   in.DiscountCode,
		DiscountAmount: discount,
		TotalPrice:     domain.Total(subtotal, discount),
		State:          domain.StateCreated,
		CreatedAt:      time.Now().UTC(),
	}

	// Stock acquisition. High priority takes a hard reservation; the rest
	// only check availability.
	reserved := false
	if priority == domain.PriorityHigh {
		ok, err := s.inventory.ReserveStock(ctx, o.ProductName, o.Quantity)
		if err != nil {
			return nil, fmt.Errorf("reserve stock: %w", err)
		}
		if !ok {
			return nil, domain.ErrOutOfStock
		}
		reserved = true
	} else {
		ok, err := s.inventory.CheckStock(ctx, o.ProductName, o.Quantity)
		if err != nil {
			return nil, fmt.Errorf("check stock: %w", err)
		}
		if !ok {
			return nil, domain.ErrOutOfStock
		}
	}

	// Payment. On failure the reservation is the only partial state to
	// undo; release it before surfacing the error.
	paid, err := s.payment.ProcessPayment(ctx, o)
	if err != nil {
		s.releaseIfReserved(ctx, o, reserved)
		return nil, fmt.Errorf("process payment: %w", err)
	}
	if !paid {
		s.releaseIfReserved(ctx, o, reserved)
		return nil, domain.ErrPaymentFailed
	}

	if s.payment.NeedsManualApproval(o) {
		o.State = domain.StatePendingApproval
	} else {
		o.State = domain.StatePaid
	}

	// Assign the id and store atomically. Only orders that got this far
	// consume an id, so the sequence stays gap-free. The snapshot is taken
	// inside the critical section: once the map holds o, a concurrent
	// UpdateOrder may reprice it, so the notifier and the log must not
	// read the shared pointer.
	s.mu.Lock()
	o.ID = s.nextID
	s.nextID++
	s.orders[o.ID] = o
	snapshot := *o
	s.mu.Unlock()

	switch snapshot.State {
	case domain.StatePendingApproval:
		if err := s.notifier.SendPendingApproval(ctx, &snapshot); err != nil {
			slog.WarnContext(ctx, "pending-approval notification failed", "order_id", snapshot.ID, "error", err)
		}
	case domain.StatePaid:
		if err := s.notifier.SendPaidConfirmation(ctx, &snapshot); err != nil {
			slog.WarnContext(ctx, "paid-confirmation notification failed", "order_id", snapshot.ID, "error", err)
		}
	}

	slog.InfoContext(ctx, "order created",
		"order_id", snapshot.ID,
		"state", string(snapshot.State),
		"priority", string(snapshot.Priority),
		"total", snapshot.TotalPrice,
	)

	return &snapshot, nil
}

// releaseIfReserved is the compensating action for a failed payment after a
// High-priority reservation.
func (s *Service) releaseIfReserved(ctx context.Context, o *domain.Order, reserved bool) {
	if !reserved {
		return
	}
	if err := s.inventory.ReleaseReservedStock(ctx, o.ProductName, o.Quantity); err != nil {
		slog.ErrorContext(ctx, "CRITICAL: failed to release reserved stock",
			"product", o.ProductName,
			"quantity", o.Quantity,
			"error", err,
		)
	}
}

// UpdateOrder changes the quantity of a previously created order and reprices
// it. Orders older than the update window are immutable: the update returns
// false without error, an expected outcome callers branch on.
//
// The new quantity is validated with the creation bounds. A quantity change
// that would push the stored discount over the 30% cap is rejected with the
// discount business error, so persisted orders never violate the cap.
func (s *Service) UpdateOrder(ctx context.Context, id int64, newQuantity int) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "UpdateOrder")
	defer span.End()

	if err := domain.ValidateQuantity(newQuantity); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return false, nil
	}
	if o.Stale(time.Now().UTC()) {
		slog.InfoContext(ctx, "update rejected, order past its window", "order_id", id)
		return false, nil
	}

	subtotal := o.UnitPrice * float64(newQuantity)
	if o.DiscountAmount > domain.MaxDiscountRatio*subtotal {
		return false, domain.ErrDiscountTooLarge
	}

	o.Quantity = newQuantity
	o.TotalPrice = domain.Total(subtotal, o.DiscountAmount)

	slog.InfoContext(ctx, "order updated", "order_id", id, "quantity", newQuantity, "total", o.TotalPrice)
	return true, nil
}

// CancelOrder moves an order to Cancelled and appends it to the audit trail.
// Shipped and already-Cancelled orders are terminal: the call returns false
// and mutates nothing, so an order appears in the trail at most once.
func (s *Service) CancelOrder(ctx context.Context, id int64) bool {
	ctx, span := s.tracer.Start(ctx, "CancelOrder")
	defer span.End()

	s.mu.Lock()
	o, ok := s.orders[id]
	if !ok || !o.CanCancel() {
		s.mu.Unlock()
		return false
	}
	o.State = domain.StateCancelled
	s.cancelled = append(s.cancelled, o)
	snapshot := *o
	s.mu.Unlock()

	if s.auditRepo != nil {
		if err := s.auditRepo.Save(ctx, auditlog.NewEntry(ctx, &snapshot)); err != nil {
			slog.ErrorContext(ctx, "failed to persist audit entry", "order_id", id, "error", err)
		}
	}

	slog.InfoContext(ctx, "order cancelled", "order_id", id)
	return true
}

// GetOrder returns a snapshot of the order with the given id.
func (s *Service) GetOrder(id int64) (*domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, false
	}
	snapshot := *o
	return &snapshot, true
}

// AuditLog returns snapshots of the cancelled orders in cancellation order.
func (s *Service) AuditLog() []*domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Order, len(s.cancelled))
	for i, o := range s.cancelled {
		snapshot := *o
		out[i] = &snapshot
	}
	return out
}
