package sqlite

import (
	"context"
	"testing"

	"github.com/sakif/edulearn/internal/model"
)

// testDB opens a throwaway in-memory database with the full schema applied.
func testDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("opening in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

// mustCreateUser inserts a user and fails the test on error.
func mustCreateUser(t *testing.T, db *DB, username, email string) *model.User {
	t.Helper()

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: "not-a-real-hash",
		IsStudent:    true,
	}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("creating user %s: %v", username, err)
	}
	return user
}

// mustCreateCourse inserts a course owned by instructorID.
func mustCreateCourse(t *testing.T, db *DB, instructorID, title string) *model.Course {
	t.Helper()

	course := &model.Course{
		Title:        title,
		Description:  "test course",
		InstructorID: instructorID,
	}
	if err := db.CreateCourse(context.Background(), course); err != nil {
		t.Fatalf("creating course %s: %v", title, err)
	}
	return course
}
