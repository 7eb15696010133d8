package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/sakif/edulearn/internal/model"
	"github.com/sakif/edulearn/internal/repository"
	"github.com/sakif/edulearn/internal/session"
)

// exportSheetName is the single worksheet in the exported workbook.
const exportSheetName = "Clickstream Data"

// exportBatchSize is how many click events each keyset-paginated query
// fetches while streaming the export.
const exportBatchSize = 500

// exportHeader is the fixed column set, in order.
var exportHeader = []any{
	"ID", "User ID", "Username", "Session ID", "Page URL",
	"Element ID", "Element Class", "Element Text",
	"Click X", "Click Y", "Timestamp", "User Agent", "IP Address",
}

// ClickstreamService records UI interaction events and exports the full log
// as a spreadsheet.
type ClickstreamService struct {
	clicks repository.ClickEventRepository
	logger *slog.Logger
}

func NewClickstreamService(clicks repository.ClickEventRepository, logger *slog.Logger) *ClickstreamService {
	return &ClickstreamService{
		clicks: clicks,
		logger: logger,
	}
}

// TrackInput is one reported interaction. Everything client-supplied is
// optional; UserAgent and IPAddress are filled in by the handler from the
// request itself so they cannot be spoofed via the JSON payload.
type TrackInput struct {
	UserID       *string // nil for anonymous visitors
	SessionID    string
	PageURL      string
	ElementID    string
	ElementClass string
	ElementText  string
	ClickX       *int
	ClickY       *int
	UserAgent    string
	IPAddress    string
}

// Track appends one click event. Deliberately no validation of URL or text
// fields, no dedup, no batching — one call is one insert, and a failure here
// affects only this one record.
func (s *ClickstreamService) Track(ctx context.Context, in TrackInput) (*model.ClickEvent, error) {
	if in.SessionID == "" {
		in.SessionID = session.AnonymousSessionID
	}

	event := &model.ClickEvent{
		UserID:       in.UserID,
		SessionID:    in.SessionID,
		PageURL:      in.PageURL,
		ElementID:    in.ElementID,
		ElementClass: in.ElementClass,
		ElementText:  in.ElementText,
		ClickX:       in.ClickX,
		ClickY:       in.ClickY,
		UserAgent:    in.UserAgent,
		IPAddress:    in.IPAddress,
	}
	if err := s.clicks.CreateClickEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("service/clickstream: recording click: %w", err)
	}

	return event, nil
}

// Export writes the entire click log as an .xlsx workbook to w.
//
// Rows are streamed: the repository walks the table in batches and each row
// goes straight into an excelize StreamWriter, so memory stays bounded by the
// workbook encoder rather than growing with the table. Usernames arrive
// already resolved from the repository's join ("Anonymous" for NULL user_id).
func (s *ClickstreamService) Export(ctx context.Context, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return fmt.Errorf("service/clickstream: naming export sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(exportSheetName)
	if err != nil {
		return fmt.Errorf("service/clickstream: creating stream writer: %w", err)
	}

	if err := sw.SetRow("A1", exportHeader); err != nil {
		return fmt.Errorf("service/clickstream: writing header row: %w", err)
	}

	rowNum := 1
	err = s.clicks.ForEachExportRow(ctx, exportBatchSize, func(r model.ExportRow) error {
		rowNum++
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		return sw.SetRow(cell, exportRow(r))
	})
	if err != nil {
		return fmt.Errorf("service/clickstream: streaming click events: %w", err)
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("service/clickstream: flushing stream writer: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("service/clickstream: writing workbook: %w", err)
	}

	s.logger.Info("clickstream exported", slog.Int("rows", rowNum-1))
	return nil
}

// exportRow converts one joined record into spreadsheet cell values,
// preserving empties for NULL user IDs and coordinates.
func exportRow(r model.ExportRow) []any {
	userID := ""
	if r.UserID != nil {
		userID = *r.UserID
	}

	var clickX, clickY any
	if r.ClickX != nil {
		clickX = *r.ClickX
	}
	if r.ClickY != nil {
		clickY = *r.ClickY
	}

	return []any{
		r.ID, userID, r.Username, r.SessionID, r.PageURL,
		r.ElementID, r.ElementClass, r.ElementText,
		clickX, clickY,
		r.Timestamp.Format("2006-01-02 15:04:05"),
		r.UserAgent, r.IPAddress,
	}
}

// ExportFilename returns the download name for an export generated at now,
// e.g. "clickstream_data_20240131_154502.xlsx".
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("clickstream_data_%s.xlsx", now.Format("20060102_150405"))
}

// Count returns the number of recorded events. Shown on the export page.
func (s *ClickstreamService) Count(ctx context.Context) (int, error) {
	count, err := s.clicks.CountClickEvents(ctx)
	if err != nil {
		return 0, fmt.Errorf("service/clickstream: counting clicks: %w", err)
	}
	return count, nil
}
