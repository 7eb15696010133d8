package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/edulearn/internal/apperror"
	"github.com/sakif/edulearn/internal/model"
	"github.com/sakif/edulearn/internal/repository"
)

// compile-time check that *DB implements repository.CourseRepository
var _ repository.CourseRepository = (*DB)(nil)

// CreateCourse inserts a new course. The foreign key on instructor_id means
// this fails if the instructor does not exist.
func (db *DB) CreateCourse(ctx context.Context, course *model.Course) error {
	course.ID = xid.New().String()
	course.CreatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO courses (id, title, description, instructor_id, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		course.ID,
		course.Title,
		course.Description,
		course.InstructorID,
		course.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating course %q: %w", course.Title, err)
	}

	return nil
}

func (db *DB) GetCourseByID(ctx context.Context, id string) (*model.Course, error) {
	var c model.Course

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, title, description, instructor_id, created_at
		 FROM courses WHERE id = ?`,
		id,
	).Scan(&c.ID, &c.Title, &c.Description, &c.InstructorID, &c.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("course", id)
		}
		return nil, fmt.Errorf("sqlite: getting course %s: %w", id, err)
	}

	return &c, nil
}

// ListCourses returns every course in storage order. The catalog page shows
// all of them unfiltered — there is no pagination requirement on courses.
func (db *DB) ListCourses(ctx context.Context) ([]model.Course, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, title, description, instructor_id, created_at FROM courses`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing courses: %w", err)
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.InstructorID, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning course row: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating courses: %w", err)
	}

	return courses, nil
}

func (db *DB) CreateLecture(ctx context.Context, lecture *model.Lecture) error {
	lecture.ID = xid.New().String()
	lecture.CreatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO lectures (id, title, content, course_id, file_path, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		lecture.ID,
		lecture.Title,
		lecture.Content,
		lecture.CourseID,
		lecture.FilePath,
		lecture.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating lecture %q: %w", lecture.Title, err)
	}

	return nil
}

func (db *DB) ListLectures(ctx context.Context, courseID string) ([]model.Lecture, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, title, content, course_id, file_path, created_at
		 FROM lectures WHERE course_id = ?`,
		courseID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing lectures for course %s: %w", courseID, err)
	}
	defer rows.Close()

	var lectures []model.Lecture
	for rows.Next() {
		var l model.Lecture
		if err := rows.Scan(&l.ID, &l.Title, &l.Content, &l.CourseID, &l.FilePath, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning lecture row: %w", err)
		}
		lectures = append(lectures, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating lectures: %w", err)
	}

	return lectures, nil
}

func (db *DB) CreateNote(ctx context.Context, note *model.Note) error {
	note.ID = xid.New().String()
	note.CreatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO notes (id, title, content, course_id, file_path, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		note.ID,
		note.Title,
		note.Content,
		note.CourseID,
		note.FilePath,
		note.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating note %q: %w", note.Title, err)
	}

	return nil
}

func (db *DB) ListNotes(ctx context.Context, courseID string) ([]model.Note, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, title, content, course_id, file_path, created_at
		 FROM notes WHERE course_id = ?`,
		courseID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing notes for course %s: %w", courseID, err)
	}
	defer rows.Close()

	var notes []model.Note
	for rows.Next() {
		var n model.Note
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.CourseID, &n.FilePath, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning note row: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating notes: %w", err)
	}

	return notes, nil
}
