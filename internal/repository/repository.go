// Package repository defines the storage interfaces the service layer depends
// on. Concrete implementations live in the sqlite subpackage; tests substitute
// in-memory fakes.
//
// The interfaces return plain model structs — no lazy relationship traversal.
// A handler that needs a course with its lectures and notes asks for each
// explicitly, so persistence concerns never leak into the entity definitions.
//
// Method names carry the entity (CreateUser, not Create) so a single store
// type can implement every interface.
package repository

import (
	"context"

	"github.com/sakif/edulearn/internal/model"
)

type UserRepository interface {
	// CreateUser inserts a new user. Returns apperror.ErrConflict if the
	// username or email is already taken.
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	// SetRoles flips the role flags on an existing user. The only mutation
	// users ever receive.
	SetRoles(ctx context.Context, id string, isStudent, isAdmin bool) error
	ListUsers(ctx context.Context, adminsOnly bool) ([]model.User, error)
}

type CourseRepository interface {
	CreateCourse(ctx context.Context, course *model.Course) error
	GetCourseByID(ctx context.Context, id string) (*model.Course, error)
	ListCourses(ctx context.Context) ([]model.Course, error)

	CreateLecture(ctx context.Context, lecture *model.Lecture) error
	ListLectures(ctx context.Context, courseID string) ([]model.Lecture, error)

	CreateNote(ctx context.Context, note *model.Note) error
	ListNotes(ctx context.Context, courseID string) ([]model.Note, error)
}

type ClickEventRepository interface {
	// CreateClickEvent appends one event. The click log is append-only —
	// there are no update or delete operations by design.
	CreateClickEvent(ctx context.Context, event *model.ClickEvent) error
	// ForEachExportRow walks the full log oldest-first in keyset-paginated
	// batches, invoking fn once per row with the username already resolved
	// ("Anonymous" for NULL user_id). The export pipeline streams rows to
	// the spreadsheet writer instead of materializing the whole table.
	ForEachExportRow(ctx context.Context, batchSize int, fn func(model.ExportRow) error) error
	CountClickEvents(ctx context.Context) (int, error)
}
