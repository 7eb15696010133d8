package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/edulearn/internal/apperror"
	"github.com/sakif/edulearn/internal/model"
	"github.com/sakif/edulearn/internal/repository"
)

const MaxTitleLength = 200

// CatalogService handles courses and their lectures and notes.
type CatalogService struct {
	courses repository.CourseRepository
	users   repository.UserRepository
	logger  *slog.Logger
}

func NewCatalogService(courses repository.CourseRepository, users repository.UserRepository, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		courses: courses,
		users:   users,
		logger:  logger,
	}
}

// CourseDetail bundles a course with its content for the course page. The
// lectures and notes are fetched with explicit queries — no implicit
// relationship traversal on the model.
type CourseDetail struct {
	Course   *model.Course
	Lectures []model.Lecture
	Notes    []model.Note
}

// ListCourses returns every course, unfiltered, in storage order.
func (s *CatalogService) ListCourses(ctx context.Context) ([]model.Course, error) {
	courses, err := s.courses.ListCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/catalog: listing courses: %w", err)
	}
	return courses, nil
}

// GetCourse returns the course plus all lectures and notes attached to it.
// Returns apperror.ErrNotFound for an unknown ID.
func (s *CatalogService) GetCourse(ctx context.Context, id string) (*CourseDetail, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "course ID is required")
	}

	course, err := s.courses.GetCourseByID(ctx, id)
	if err != nil {
		return nil, err
	}

	lectures, err := s.courses.ListLectures(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/catalog: listing lectures for %s: %w", id, err)
	}

	notes, err := s.courses.ListNotes(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/catalog: listing notes for %s: %w", id, err)
	}

	return &CourseDetail{Course: course, Lectures: lectures, Notes: notes}, nil
}

// CreateCourse creates a course owned by creatorID.
//
// Role rule: only non-student accounts (instructors/admins) may create
// courses. A student caller gets apperror.ErrForbidden and no record is
// written.
func (s *CatalogService) CreateCourse(ctx context.Context, creatorID, title, description string) (*model.Course, error) {
	creator, err := s.users.GetUserByID(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("service/catalog: loading creator %s: %w", creatorID, err)
	}

	if !creator.IsInstructor() {
		return nil, apperror.Forbidden("Students cannot create courses")
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "course title is required")
	}
	if len(title) > MaxTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("course title must be %d characters or less", MaxTitleLength))
	}

	course := &model.Course{
		Title:        title,
		Description:  strings.TrimSpace(description),
		InstructorID: creator.ID,
	}
	if err := s.courses.CreateCourse(ctx, course); err != nil {
		return nil, fmt.Errorf("service/catalog: creating course %q: %w", title, err)
	}

	s.logger.Info("course created",
		slog.String("courseID", course.ID),
		slog.String("instructorID", creator.ID),
		slog.String("title", course.Title),
	)

	return course, nil
}

// AddLecture attaches a lecture to an existing course. No route exposes this;
// it serves seeding, tests, and the admin tooling.
func (s *CatalogService) AddLecture(ctx context.Context, courseID, title, content string, filePath *string) (*model.Lecture, error) {
	if _, err := s.courses.GetCourseByID(ctx, courseID); err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "lecture title is required")
	}

	lecture := &model.Lecture{
		Title:    title,
		Content:  content,
		CourseID: courseID,
		FilePath: filePath,
	}
	if err := s.courses.CreateLecture(ctx, lecture); err != nil {
		return nil, fmt.Errorf("service/catalog: creating lecture %q: %w", title, err)
	}

	return lecture, nil
}

// AddNote attaches a note to an existing course. Same scope as AddLecture.
func (s *CatalogService) AddNote(ctx context.Context, courseID, title, content string, filePath *string) (*model.Note, error) {
	if _, err := s.courses.GetCourseByID(ctx, courseID); err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "note title is required")
	}

	note := &model.Note{
		Title:    title,
		Content:  content,
		CourseID: courseID,
		FilePath: filePath,
	}
	if err := s.courses.CreateNote(ctx, note); err != nil {
		return nil, fmt.Errorf("service/catalog: creating note %q: %w", title, err)
	}

	return note, nil
}
