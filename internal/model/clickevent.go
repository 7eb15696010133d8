package model

import "time"

// ClickEvent is one reported UI interaction. Rows are append-only: the
// serving layer only ever inserts and bulk-reads them, never updates or
// deletes.
//
// UserID is nil for anonymous visitors. ClickX/ClickY are nil for synthetic
// events (page views, form submits) that carry no coordinates. UserAgent and
// IPAddress are captured server-side from the request, not taken from the
// client payload, so those two fields cannot be spoofed.
type ClickEvent struct {
	ID           string    `json:"id"`
	UserID       *string   `json:"userId,omitempty"`
	SessionID    string    `json:"sessionId"`
	PageURL      string    `json:"pageUrl"`
	ElementID    string    `json:"elementId"`
	ElementClass string    `json:"elementClass"`
	ElementText  string    `json:"elementText"`
	ClickX       *int      `json:"clickX,omitempty"`
	ClickY       *int      `json:"clickY,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	UserAgent    string    `json:"userAgent"`
	IPAddress    string    `json:"ipAddress"`
}

// ExportRow is a ClickEvent joined with the resolved username, as written to
// the spreadsheet export. Username is "Anonymous" when UserID is NULL.
type ExportRow struct {
	ClickEvent
	Username string
}
