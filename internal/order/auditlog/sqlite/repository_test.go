package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commercekit/order-lifecycle/internal/order/auditlog"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestSaveAndList_Roundtrip(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	cancelledAt := time.Date(2026, 8, 23, 10, 30, 0, 0, time.UTC)
	entries := []*auditlog.Entry{
		{OrderID: 2, ProductName: "monitor", TotalPrice: 240, TraceID: "aa", SpanID: "bb", CancelledAt: cancelledAt},
		{OrderID: 1, ProductName: "keyboard", TotalPrice: 120, CancelledAt: cancelledAt.Add(time.Minute)},
	}
	for _, entry := range entries {
		require.NoError(t, repo.Save(ctx, entry))
	}

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// List preserves insertion (cancellation) order, not id order.
	assert.Equal(t, int64(2), got[0].OrderID)
	assert.Equal(t, "monitor", got[0].ProductName)
	assert.InDelta(t, 240.0, got[0].TotalPrice, 1e-9)
	assert.Equal(t, "aa", got[0].TraceID)
	assert.Equal(t, "bb", got[0].SpanID)
	assert.True(t, got[0].CancelledAt.Equal(cancelledAt))

	assert.Equal(t, int64(1), got[1].OrderID)
	assert.Empty(t, got[1].TraceID)
}

func TestSave_AcceptsRecurringOrderIDAcrossRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	ctx := context.Background()

	repo, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, &auditlog.Entry{OrderID: 1, ProductName: "keyboard", TotalPrice: 120, CancelledAt: time.Now().UTC()}))
	require.NoError(t, repo.Close())

	// Ids restart at 1 on every process run; a fresh run cancelling its
	// own order 1 must still land in the persisted trail.
	repo, err = Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	require.NoError(t, repo.Save(ctx, &auditlog.Entry{OrderID: 1, ProductName: "monitor", TotalPrice: 240, CancelledAt: time.Now().UTC()}))

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].OrderID)
	assert.Equal(t, "keyboard", got[0].ProductName)
	assert.Equal(t, int64(1), got[1].OrderID)
	assert.Equal(t, "monitor", got[1].ProductName)
}

func TestList_EmptyTrail(t *testing.T) {
	repo := openTestRepo(t)

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}
