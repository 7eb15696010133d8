package sqlite

import (
	"context"
	"fmt"
	"testing"

	"github.com/sakif/edulearn/internal/model"
)

func TestCreateClickEventAnonymous(t *testing.T) {
	db := testDB(t)

	event := &model.ClickEvent{
		SessionID: "sess-1",
		PageURL:   "/",
		ElementID: "page_view",
	}
	if err := db.CreateClickEvent(context.Background(), event); err != nil {
		t.Fatalf("CreateClickEvent: %v", err)
	}
	if event.ID == "" {
		t.Error("expected a generated ID")
	}
	if event.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestForEachExportRowResolvesUsernames(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	user := mustCreateUser(t, db, "alice", "alice@example.com")

	x, y := 10, 20
	attributed := &model.ClickEvent{
		UserID:    &user.ID,
		SessionID: "sess-1",
		PageURL:   "/course/abc",
		ClickX:    &x,
		ClickY:    &y,
	}
	if err := db.CreateClickEvent(ctx, attributed); err != nil {
		t.Fatalf("inserting attributed event: %v", err)
	}

	anonymous := &model.ClickEvent{
		SessionID: "sess-2",
		PageURL:   "/",
	}
	if err := db.CreateClickEvent(ctx, anonymous); err != nil {
		t.Fatalf("inserting anonymous event: %v", err)
	}

	byID := make(map[string]model.ExportRow)
	err := db.ForEachExportRow(ctx, 100, func(r model.ExportRow) error {
		byID[r.ID] = r
		return nil
	})
	if err != nil {
		t.Fatalf("ForEachExportRow: %v", err)
	}
	if len(byID) != 2 {
		t.Fatalf("expected 2 export rows, got %d", len(byID))
	}

	if got := byID[attributed.ID].Username; got != "alice" {
		t.Errorf("attributed row username = %q, want alice", got)
	}
	if got := byID[attributed.ID].ClickX; got == nil || *got != 10 {
		t.Errorf("attributed row ClickX = %v, want 10", got)
	}
	if got := byID[anonymous.ID].Username; got != "Anonymous" {
		t.Errorf("anonymous row username = %q, want Anonymous", got)
	}
	if byID[anonymous.ID].UserID != nil {
		t.Error("anonymous row UserID should stay nil")
	}
}

func TestForEachExportRowPaginatesInOrder(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	const total = 7
	for i := 0; i < total; i++ {
		event := &model.ClickEvent{
			SessionID: "sess",
			PageURL:   fmt.Sprintf("/page/%d", i),
		}
		if err := db.CreateClickEvent(ctx, event); err != nil {
			t.Fatalf("inserting event %d: %v", i, err)
		}
	}

	// Batch size smaller than the table forces multiple keyset queries.
	var ids []string
	err := db.ForEachExportRow(ctx, 3, func(r model.ExportRow) error {
		ids = append(ids, r.ID)
		return nil
	})
	if err != nil {
		t.Fatalf("ForEachExportRow: %v", err)
	}

	if len(ids) != total {
		t.Fatalf("expected %d rows across batches, got %d", total, len(ids))
	}
	for i := 1; i < len(ids); i++ {
		if ids[i] <= ids[i-1] {
			t.Fatalf("rows out of order at %d: %q after %q", i, ids[i], ids[i-1])
		}
	}
}

func TestCountClickEvents(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	count, err := db.CountClickEvents(ctx)
	if err != nil {
		t.Fatalf("CountClickEvents: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 on empty table, got %d", count)
	}

	for i := 0; i < 3; i++ {
		if err := db.CreateClickEvent(ctx, &model.ClickEvent{SessionID: "sess"}); err != nil {
			t.Fatalf("inserting event: %v", err)
		}
	}

	count, err = db.CountClickEvents(ctx)
	if err != nil {
		t.Fatalf("CountClickEvents: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3, got %d", count)
	}
}
