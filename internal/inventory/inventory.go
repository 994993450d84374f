// Package inventory provides an in-memory implementation of the Inventory
// capability: a stock ledger with hard reservations.
package inventory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/commercekit/order-lifecycle/internal/order/ports"
)

// Ensure Service implements the port at compile time.
var _ ports.Inventory = (*Service)(nil)

// Service tracks available and reserved stock per product.
// A reservation moves quantity out of the available pool until it is
// released or consumed by fulfilment.
type Service struct {
	mu        sync.Mutex
	available map[string]int
	reserved  map[string]int
}

// NewService seeds the ledger with the given available stock.
func NewService(initial map[string]int) *Service {
	available := make(map[string]int, len(initial))
	for name, qty := range initial {
		available[name] = qty
	}
	return &Service{
		available: available,
		reserved:  make(map[string]int),
	}
}

func (s *Service) CheckStock(ctx context.Context, productName string, quantity int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.available[productName] >= quantity, nil
}

func (s *Service) ReserveStock(ctx context.Context, productName string, quantity int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.available[productName] < quantity {
		return false, nil
	}
	s.available[productName] -= quantity
	s.reserved[productName] += quantity

	slog.InfoContext(ctx, "stock reserved", "product", productName, "quantity", quantity)
	return true, nil
}

func (s *Service) ReleaseReservedStock(ctx context.Context, productName string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.reserved[productName] < quantity {
		// Releasing more than was reserved means a bookkeeping bug
		// upstream; clamp instead of going negative.
		slog.WarnContext(ctx, "release exceeds reservation, clamping",
			"product", productName,
			"requested", quantity,
			"reserved", s.reserved[productName],
		)
		quantity = s.reserved[productName]
	}
	s.reserved[productName] -= quantity
	s.available[productName] += quantity

	slog.InfoContext(ctx, "reservation released", "product", productName, "quantity", quantity)
	return nil
}

// Available returns the currently purchasable quantity for a product.
func (s *Service) Available(productName string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.available[productName]
}

// Reserved returns the quantity currently held by reservations.
func (s *Service) Reserved(productName string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reserved[productName]
}
