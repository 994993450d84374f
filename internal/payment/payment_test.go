package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commercekit/order-lifecycle/internal/order/domain"
)

func TestProcessPayment_DeclinesAboveLimit(t *testing.T) {
	p := NewProcessor(500, 100)
	ctx := context.Background()

	ok, err := p.ProcessPayment(ctx, &domain.Order{ProductName: "monitor", TotalPrice: 500})
	require.NoError(t, err)
	assert.True(t, ok, "totals at the limit are chargeable")

	ok, err = p.ProcessPayment(ctx, &domain.Order{ProductName: "monitor", TotalPrice: 500.01})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNeedsManualApproval_AboveReviewThreshold(t *testing.T) {
	p := NewProcessor(10_000, 1_000)

	assert.False(t, p.NeedsManualApproval(&domain.Order{TotalPrice: 1_000}))
	assert.True(t, p.NeedsManualApproval(&domain.Order{TotalPrice: 1_000.01}))
}
