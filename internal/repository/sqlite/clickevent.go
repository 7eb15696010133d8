package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/edulearn/internal/model"
	"github.com/sakif/edulearn/internal/repository"
)

// compile-time check that *DB implements repository.ClickEventRepository
var _ repository.ClickEventRepository = (*DB)(nil)

// CreateClickEvent appends one click event. The log is append-only — no
// update or delete exists anywhere in this package.
func (db *DB) CreateClickEvent(ctx context.Context, event *model.ClickEvent) error {
	event.ID = xid.New().String()
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO click_events
		 (id, user_id, session_id, page_url, element_id, element_class, element_text,
		  click_x, click_y, timestamp, user_agent, ip_address)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID,
		event.UserID,
		event.SessionID,
		event.PageURL,
		event.ElementID,
		event.ElementClass,
		event.ElementText,
		event.ClickX,
		event.ClickY,
		event.Timestamp,
		event.UserAgent,
		event.IPAddress,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting click event: %w", err)
	}

	return nil
}

// ForEachExportRow walks the full click log oldest-first and calls fn once per
// row with the username resolved via LEFT JOIN (NULL user → "Anonymous").
//
// The walk is keyset-paginated on the xid primary key (xids sort by creation
// time), batchSize rows per query, so the export never materializes the whole
// table — memory stays bounded no matter how large the log grows.
func (db *DB) ForEachExportRow(ctx context.Context, batchSize int, fn func(model.ExportRow) error) error {
	if batchSize <= 0 {
		batchSize = 500
	}

	lastID := ""
	for {
		n, err := db.exportBatch(ctx, lastID, batchSize, fn, &lastID)
		if err != nil {
			return err
		}
		if n < batchSize {
			return nil
		}
	}
}

// exportBatch fetches one batch after afterID and feeds it to fn.
// Returns the number of rows seen; lastID is updated to the final row's id.
func (db *DB) exportBatch(ctx context.Context, afterID string, limit int, fn func(model.ExportRow) error, lastID *string) (int, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT e.id, e.user_id, COALESCE(u.username, 'Anonymous'),
		        e.session_id, e.page_url, e.element_id, e.element_class, e.element_text,
		        e.click_x, e.click_y, e.timestamp, e.user_agent, e.ip_address
		 FROM click_events e
		 LEFT JOIN users u ON u.id = e.user_id
		 WHERE e.id > ?
		 ORDER BY e.id
		 LIMIT ?`,
		afterID, limit,
	)
	if err != nil {
		return 0, fmt.Errorf("sqlite: querying click events after %q: %w", afterID, err)
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		var r model.ExportRow
		if err := rows.Scan(
			&r.ID, &r.UserID, &r.Username,
			&r.SessionID, &r.PageURL, &r.ElementID, &r.ElementClass, &r.ElementText,
			&r.ClickX, &r.ClickY, &r.Timestamp, &r.UserAgent, &r.IPAddress,
		); err != nil {
			return n, fmt.Errorf("sqlite: scanning click event row: %w", err)
		}
		if err := fn(r); err != nil {
			return n, err
		}
		*lastID = r.ID
		n++
	}
	if err := rows.Err(); err != nil {
		return n, fmt.Errorf("sqlite: iterating click events: %w", err)
	}

	return n, nil
}

// CountClickEvents returns the total number of click events.
func (db *DB) CountClickEvents(ctx context.Context) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM click_events`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting click events: %w", err)
	}
	return count, nil
}
