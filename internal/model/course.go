package model

import "time"

// Course is a top-level catalog entry owned by an instructor.
type Course struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	InstructorID string    `json:"instructorId"` // references users.id
	CreatedAt    time.Time `json:"createdAt"`
}

// Lecture is a content item attached to a course.
//
// FilePath is a pointer because the column is nullable — most lectures are
// inline content with no attachment. When set, it names a file under the
// upload directory.
type Lecture struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CourseID  string    `json:"courseId"`
	FilePath  *string   `json:"filePath,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Note is supplementary course material. Structurally identical to Lecture
// but kept as its own type (and table) — the two are listed separately on the
// course page and may diverge.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CourseID  string    `json:"courseId"`
	FilePath  *string   `json:"filePath,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
