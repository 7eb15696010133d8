package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/edulearn/internal/apperror"
	"github.com/sakif/edulearn/internal/model"
	"github.com/sakif/edulearn/internal/repository"
)

// discardLogger keeps service log output out of test results.
var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeUserRepo is an in-memory UserRepository keyed by ID.
type fakeUserRepo struct {
	users map[string]*model.User
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *model.User) error {
	for _, u := range f.users {
		if u.Username == user.Username {
			return apperror.Conflict("username", "username already exists")
		}
		if u.Email == user.Email {
			return apperror.Conflict("email", "email already exists")
		}
	}
	user.ID = xid.New().String()
	user.CreatedAt = time.Now()
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, apperror.NotFound("user", id)
}

func (f *fakeUserRepo) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("user", username)
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func (f *fakeUserRepo) SetRoles(_ context.Context, id string, isStudent, isAdmin bool) error {
	u, ok := f.users[id]
	if !ok {
		return apperror.NotFound("user", id)
	}
	u.IsStudent = isStudent
	u.IsAdmin = isAdmin
	return nil
}

func (f *fakeUserRepo) ListUsers(_ context.Context, adminsOnly bool) ([]model.User, error) {
	var users []model.User
	for _, u := range f.users {
		if adminsOnly && !u.IsAdmin {
			continue
		}
		users = append(users, *u)
	}
	return users, nil
}

// addUser seeds an account directly, bypassing registration.
func (f *fakeUserRepo) addUser(username, email, passwordHash string, isStudent bool) *model.User {
	u := &model.User{
		ID:           xid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		IsStudent:    isStudent,
		CreatedAt:    time.Now(),
	}
	f.users[u.ID] = u
	return u
}

// fakeCourseRepo is an in-memory CourseRepository.
type fakeCourseRepo struct {
	courses  map[string]*model.Course
	lectures map[string][]model.Lecture
	notes    map[string][]model.Note
}

var _ repository.CourseRepository = (*fakeCourseRepo)(nil)

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{
		courses:  make(map[string]*model.Course),
		lectures: make(map[string][]model.Lecture),
		notes:    make(map[string][]model.Note),
	}
}

func (f *fakeCourseRepo) CreateCourse(_ context.Context, course *model.Course) error {
	course.ID = xid.New().String()
	course.CreatedAt = time.Now()
	copied := *course
	f.courses[course.ID] = &copied
	return nil
}

func (f *fakeCourseRepo) GetCourseByID(_ context.Context, id string) (*model.Course, error) {
	if c, ok := f.courses[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, apperror.NotFound("course", id)
}

func (f *fakeCourseRepo) ListCourses(_ context.Context) ([]model.Course, error) {
	var courses []model.Course
	for _, c := range f.courses {
		courses = append(courses, *c)
	}
	return courses, nil
}

func (f *fakeCourseRepo) CreateLecture(_ context.Context, lecture *model.Lecture) error {
	lecture.ID = xid.New().String()
	lecture.CreatedAt = time.Now()
	f.lectures[lecture.CourseID] = append(f.lectures[lecture.CourseID], *lecture)
	return nil
}

func (f *fakeCourseRepo) ListLectures(_ context.Context, courseID string) ([]model.Lecture, error) {
	return f.lectures[courseID], nil
}

func (f *fakeCourseRepo) CreateNote(_ context.Context, note *model.Note) error {
	note.ID = xid.New().String()
	note.CreatedAt = time.Now()
	f.notes[note.CourseID] = append(f.notes[note.CourseID], *note)
	return nil
}

func (f *fakeCourseRepo) ListNotes(_ context.Context, courseID string) ([]model.Note, error) {
	return f.notes[courseID], nil
}

// fakeClickRepo is an in-memory ClickEventRepository. Events keep insertion
// order, matching the id-ordered walk of the real store. usernames maps user
// IDs for export resolution.
type fakeClickRepo struct {
	events    []model.ClickEvent
	usernames map[string]string
	createErr error
}

var _ repository.ClickEventRepository = (*fakeClickRepo)(nil)

func newFakeClickRepo() *fakeClickRepo {
	return &fakeClickRepo{usernames: make(map[string]string)}
}

func (f *fakeClickRepo) CreateClickEvent(_ context.Context, event *model.ClickEvent) error {
	if f.createErr != nil {
		return f.createErr
	}
	event.ID = fmt.Sprintf("event-%04d", len(f.events)+1)
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	f.events = append(f.events, *event)
	return nil
}

func (f *fakeClickRepo) ForEachExportRow(_ context.Context, _ int, fn func(model.ExportRow) error) error {
	for _, e := range f.events {
		row := model.ExportRow{ClickEvent: e, Username: "Anonymous"}
		if e.UserID != nil {
			if name, ok := f.usernames[*e.UserID]; ok {
				row.Username = name
			}
		}
		if err := fn(row); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeClickRepo) CountClickEvents(_ context.Context) (int, error) {
	return len(f.events), nil
}
