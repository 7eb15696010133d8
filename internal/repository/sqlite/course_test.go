package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/edulearn/internal/apperror"
	"github.com/sakif/edulearn/internal/model"
)

func TestCreateAndGetCourse(t *testing.T) {
	db := testDB(t)
	instructor := mustCreateUser(t, db, "teach", "teach@example.com")

	course := mustCreateCourse(t, db, instructor.ID, "Intro to Go")

	got, err := db.GetCourseByID(context.Background(), course.ID)
	if err != nil {
		t.Fatalf("GetCourseByID: %v", err)
	}
	if got.Title != "Intro to Go" {
		t.Errorf("got title %q, want Intro to Go", got.Title)
	}
	if got.InstructorID != instructor.ID {
		t.Errorf("got instructor %q, want %q", got.InstructorID, instructor.ID)
	}
}

func TestGetCourseNotFound(t *testing.T) {
	db := testDB(t)

	_, err := db.GetCourseByID(context.Background(), "missing")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListCourses(t *testing.T) {
	db := testDB(t)
	instructor := mustCreateUser(t, db, "teach", "teach@example.com")

	mustCreateCourse(t, db, instructor.ID, "Course A")
	mustCreateCourse(t, db, instructor.ID, "Course B")

	courses, err := db.ListCourses(context.Background())
	if err != nil {
		t.Fatalf("ListCourses: %v", err)
	}
	if len(courses) != 2 {
		t.Fatalf("expected 2 courses, got %d", len(courses))
	}
}

func TestLecturesAndNotesScopedToCourse(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	instructor := mustCreateUser(t, db, "teach", "teach@example.com")

	courseA := mustCreateCourse(t, db, instructor.ID, "Course A")
	courseB := mustCreateCourse(t, db, instructor.ID, "Course B")

	lecture := &model.Lecture{Title: "Lecture 1", Content: "hello", CourseID: courseA.ID}
	if err := db.CreateLecture(ctx, lecture); err != nil {
		t.Fatalf("CreateLecture: %v", err)
	}

	path := "/uploads/notes.pdf"
	note := &model.Note{Title: "Note 1", Content: "read me", CourseID: courseA.ID, FilePath: &path}
	if err := db.CreateNote(ctx, note); err != nil {
		t.Fatalf("CreateNote: %v", err)
	}

	lectures, err := db.ListLectures(ctx, courseA.ID)
	if err != nil {
		t.Fatalf("ListLectures: %v", err)
	}
	if len(lectures) != 1 || lectures[0].Title != "Lecture 1" {
		t.Errorf("unexpected lectures for course A: %+v", lectures)
	}

	notes, err := db.ListNotes(ctx, courseA.ID)
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if len(notes) != 1 || notes[0].FilePath == nil || *notes[0].FilePath != path {
		t.Errorf("unexpected notes for course A: %+v", notes)
	}

	// Course B has no content; its lists must come back empty.
	if l, _ := db.ListLectures(ctx, courseB.ID); len(l) != 0 {
		t.Errorf("expected no lectures for course B, got %d", len(l))
	}
	if n, _ := db.ListNotes(ctx, courseB.ID); len(n) != 0 {
		t.Errorf("expected no notes for course B, got %d", len(n))
	}
}
