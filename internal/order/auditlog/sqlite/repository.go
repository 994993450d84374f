// Package sqlite provides a SQLite-backed implementation of
// auditlog.Repository.
//
// WAL mode is enabled on Open so that readers never block writers and vice
// versa — the cancel path writes while the HTTP audit-log endpoint may be
// reading.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/commercekit/order-lifecycle/internal/order/auditlog"

	// Register the pure-Go SQLite driver.
	// We use modernc.org/sqlite instead of mattn/go-sqlite3 to avoid CGO
	// requirements, making it easier to build and run in Docker (Alpine).
	_ "modernc.org/sqlite"
)

// schema is the DDL executed once on startup.
// The table is append-only: each row is an immutable cancellation event.
const schema = `
CREATE TABLE IF NOT EXISTS audit_log (
    -- Surrogate primary key — auto-incremented by SQLite.
    id            INTEGER PRIMARY KEY AUTOINCREMENT,

    -- Sequential id of the cancelled order. Not unique: ids restart at 1
    -- on every process run while the trail persists across runs, so the
    -- same order_id can legitimately recur.
    order_id      INTEGER     NOT NULL,

    -- Denormalised order fields so the trail reads without a join.
    product_name  TEXT        NOT NULL,
    total_price   REAL        NOT NULL,

    -- W3C trace_id (32 hex chars) from the active OTel span.
    trace_id      TEXT        NOT NULL DEFAULT '',

    -- W3C span_id (16 hex chars) — pinpoints the exact span in the trace.
    span_id       TEXT        NOT NULL DEFAULT '',

    -- Wall-clock timestamp (RFC3339 stored as TEXT, SQLite idiom).
    cancelled_at  TEXT        NOT NULL
);

-- Index for the observability query: "find the cancellation for trace Y".
CREATE INDEX IF NOT EXISTS idx_audit_log_trace_id ON audit_log(trace_id);
`

// Repository is the SQLite implementation of auditlog.Repository.
type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at the given path and applies
// the schema. WAL mode is enabled for better concurrent read/write
// performance.
//
//	repo, err := sqlite.Open("./data/audit.db")
func Open(path string) (*Repository, error) {
	// The pure-Go driver uses _pragma query parameters to configure
	// connection state. WAL enables concurrent readers. busy_timeout waits
	// for locks instead of failing immediately.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	// Use "sqlite", not "sqlite3" for the modernc driver.
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close releases the database connection. Call it with defer in main().
func (r *Repository) Close() error {
	return r.db.Close()
}

// Save inserts a new audit entry. It is safe to call concurrently.
func (r *Repository) Save(ctx context.Context, entry *auditlog.Entry) error {
	const q = `
		INSERT INTO audit_log
			(order_id, product_name, total_price, trace_id, span_id, cancelled_at)
		VALUES
			(?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.OrderID,
		entry.ProductName,
		entry.TotalPrice,
		entry.TraceID,
		entry.SpanID,
		entry.CancelledAt.UTC().Format("2006-01-02T15:04:05.999999999Z"),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save audit entry for order %d: %w", entry.OrderID, err)
	}
	return nil
}

// List returns all audit entries in cancellation order. Useful for
// reconciliation on restart, when the in-memory trail is empty.
func (r *Repository) List(ctx context.Context) ([]*auditlog.Entry, error) {
	const q = `
		SELECT order_id, product_name, total_price, trace_id, span_id, cancelled_at
		FROM   audit_log
		ORDER  BY id`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*auditlog.Entry
	for rows.Next() {
		var entry auditlog.Entry
		var cancelledAt string
		if err := rows.Scan(
			&entry.OrderID,
			&entry.ProductName,
			&entry.TotalPrice,
			&entry.TraceID,
			&entry.SpanID,
			&cancelledAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scan audit entry: %w", err)
		}
		entry.CancelledAt, err = parseRFC3339(cancelledAt)
		if err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}
