// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// Role handling is two boolean flags rather than an enum:
//   - IsStudent: set on self-registration; cleared when an account is promoted
//     to instructor/admin. Non-students may create courses.
//   - IsAdmin: set only via the admin CLI (cmd/admin), never through a route.
//
// PasswordHash holds the bcrypt output (salt and cost embedded) — the
// plaintext password is never stored anywhere.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"` // globally unique
	Email        string    `json:"email"`    // globally unique
	PasswordHash string    `json:"-"`        // never serialized
	IsStudent    bool      `json:"isStudent"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
}

// IsInstructor reports whether the user may create courses.
// Any non-student account (instructor or admin) qualifies.
func (u *User) IsInstructor() bool {
	return !u.IsStudent
}
