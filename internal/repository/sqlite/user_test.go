package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/edulearn/internal/apperror"
	"github.com/sakif/edulearn/internal/model"
)

func TestCreateUserAssignsIDAndTimestamp(t *testing.T) {
	db := testDB(t)

	user := mustCreateUser(t, db, "alice", "alice@example.com")

	if user.ID == "" {
		t.Error("expected a generated ID")
	}
	if user.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	db := testDB(t)
	mustCreateUser(t, db, "alice", "alice@example.com")

	dup := &model.User{
		Username:     "alice",
		Email:        "other@example.com",
		PasswordHash: "x",
		IsStudent:    true,
	}
	err := db.CreateUser(context.Background(), dup)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db := testDB(t)
	mustCreateUser(t, db, "alice", "alice@example.com")

	dup := &model.User{
		Username:     "bob",
		Email:        "alice@example.com",
		PasswordHash: "x",
		IsStudent:    true,
	}
	err := db.CreateUser(context.Background(), dup)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestGetUserLookups(t *testing.T) {
	db := testDB(t)
	created := mustCreateUser(t, db, "alice", "alice@example.com")
	ctx := context.Background()

	byID, err := db.GetUserByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if byID.Username != "alice" {
		t.Errorf("GetUserByID returned username %q, want alice", byID.Username)
	}

	byName, err := db.GetUserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if byName.ID != created.ID {
		t.Errorf("GetUserByUsername returned id %q, want %q", byName.ID, created.ID)
	}

	byEmail, err := db.GetUserByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if byEmail.ID != created.ID {
		t.Errorf("GetUserByEmail returned id %q, want %q", byEmail.ID, created.ID)
	}
}

func TestGetUserNotFound(t *testing.T) {
	db := testDB(t)

	_, err := db.GetUserByUsername(context.Background(), "nobody")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetRoles(t *testing.T) {
	db := testDB(t)
	user := mustCreateUser(t, db, "alice", "alice@example.com")
	ctx := context.Background()

	if err := db.SetRoles(ctx, user.ID, false, true); err != nil {
		t.Fatalf("SetRoles: %v", err)
	}

	updated, err := db.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("reloading user: %v", err)
	}
	if updated.IsStudent {
		t.Error("expected IsStudent to be false after promotion")
	}
	if !updated.IsAdmin {
		t.Error("expected IsAdmin to be true after promotion")
	}
}

func TestSetRolesUnknownUser(t *testing.T) {
	db := testDB(t)

	err := db.SetRoles(context.Background(), "missing", false, true)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListUsersAdminsOnly(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	mustCreateUser(t, db, "student", "student@example.com")
	admin := mustCreateUser(t, db, "boss", "boss@example.com")
	if err := db.SetRoles(ctx, admin.ID, false, true); err != nil {
		t.Fatalf("promoting admin: %v", err)
	}

	all, err := db.ListUsers(ctx, false)
	if err != nil {
		t.Fatalf("ListUsers(all): %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 users, got %d", len(all))
	}

	admins, err := db.ListUsers(ctx, true)
	if err != nil {
		t.Fatalf("ListUsers(admins): %v", err)
	}
	if len(admins) != 1 || admins[0].Username != "boss" {
		t.Errorf("expected only the admin account, got %+v", admins)
	}
}
