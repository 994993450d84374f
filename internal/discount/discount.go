// Package discount provides the Discount capability: resolution of a
// discount code to the amount it subtracts from the subtotal.
package discount

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/commercekit/order-lifecycle/internal/order/ports"
	"github.com/commercekit/order-lifecycle/internal/pkg/cache"
)

// Ensure Resolver implements the port at compile time.
var _ ports.Discount = (*Resolver)(nil)

const cacheTTL = 10 * time.Minute

// Resolver looks codes up in a static catalog, fronted by an optional cache.
// Unknown codes resolve to zero discount rather than an error: the only
// discount failure mode the order service enforces is the subtotal cap.
type Resolver struct {
	// cache may be nil; lookups then always hit the catalog.
	cache cache.Cache
	codes map[string]float64
}

func NewResolver(c cache.Cache, codes map[string]float64) *Resolver {
	catalog := make(map[string]float64, len(codes))
	for code, amount := range codes {
		catalog[code] = amount
	}
	return &Resolver{cache: c, codes: catalog}
}

func (r *Resolver) ValidateCode(ctx context.Context, code string) (float64, error) {
	if r.cache != nil {
		key := r.cache.GenerateKey("discount", code)
		if value, found, err := r.cache.Get(ctx, key); err != nil {
			// A cache outage must not block order creation.
			slog.WarnContext(ctx, "discount cache read failed", "code", code, "error", err)
		} else if found {
			amount, err := strconv.ParseFloat(value, 64)
			if err == nil {
				return amount, nil
			}
			slog.WarnContext(ctx, "discount cache holds malformed value", "code", code, "value", value)
		}
	}

	amount := r.codes[code]

	if r.cache != nil {
		key := r.cache.GenerateKey("discount", code)
		if err := r.cache.Set(ctx, key, strconv.FormatFloat(amount, 'f', -1, 64), cacheTTL); err != nil {
			slog.WarnContext(ctx, "discount cache write failed", "code", code, "error", err)
		}
	}
	return amount, nil
}
