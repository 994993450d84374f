// Package auditlog defines the domain types for the cancellation audit trail.
//
// The audit log is an append-only record of every order that was successfully
// cancelled, in cancellation order. It serves two purposes:
//
//  1. Traceability: each entry carries the OTel trace_id active at the moment
//     of cancellation, so a row can be correlated with the full request trace.
//
//  2. Reconciliation: downstream systems (refunds, reporting) read the trail
//     instead of polling order state.
package auditlog

import "time"

// Entry is a single row in the audit trail. Entries are immutable once
// written; an order appears at most once.
type Entry struct {
	// OrderID is the sequential id of the cancelled order.
	OrderID int64

	// ProductName and TotalPrice are denormalised from the order so the
	// trail is readable without a join against live order state.
	ProductName string
	TotalPrice  float64

	// TraceID is the W3C trace ID extracted from the OpenTelemetry span
	// that was active when the cancellation ran. Empty when no span was
	// recording (e.g. unit tests).
	TraceID string

	// SpanID pinpoints the exact span within the trace.
	SpanID string

	// CancelledAt is the wall-clock time of the cancellation.
	CancelledAt time.Time
}
