package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/edulearn/internal/apperror"
	"github.com/sakif/edulearn/internal/model"
	"github.com/sakif/edulearn/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// CreateUser inserts a new user. The ID (xid — sortable, URL-safe) and
// CreatedAt are generated here and written back into the caller's struct.
//
// Uniqueness of username and email is enforced by the schema. The service
// layer checks for duplicates first to produce a friendly message, but a
// concurrent registration can still slip between the check and the insert —
// the UNIQUE constraint is the real guarantee, and its violation is
// translated to apperror.ErrConflict here.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	user.CreatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, is_student, is_admin, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.IsStudent,
		user.IsAdmin,
		user.CreatedAt,
	)
	if err != nil {
		if field, ok := uniqueViolation(err); ok {
			return apperror.Conflict(field, field+" already exists")
		}
		return fmt.Errorf("sqlite: creating user %s: %w", user.Username, err)
	}

	return nil
}

// uniqueViolation inspects a driver error for a UNIQUE constraint failure and
// reports which users column caused it. modernc.org/sqlite surfaces these as
// "constraint failed: UNIQUE constraint failed: users.username" — string
// matching is the documented way to distinguish them with this driver.
func uniqueViolation(err error) (field string, ok bool) {
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return "", false
	}
	switch {
	case strings.Contains(msg, "users.username"):
		return "username", true
	case strings.Contains(msg, "users.email"):
		return "email", true
	}
	return "record", true
}

func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx, `WHERE id = ?`, id)
}

func (db *DB) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return db.getUser(ctx, `WHERE username = ?`, username)
}

func (db *DB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return db.getUser(ctx, `WHERE email = ?`, email)
}

// getUser is the shared single-row lookup. sql.ErrNoRows becomes the domain's
// NotFound so callers never see database/sql sentinels.
func (db *DB) getUser(ctx context.Context, where, arg string) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, is_student, is_admin, created_at
		 FROM users `+where,
		arg,
	).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.IsStudent,
		&u.IsAdmin,
		&u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", arg)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", arg, err)
	}

	return &u, nil
}

// SetRoles flips the role flags on an existing user. This is the only
// mutation a user row ever receives (admin CLI promotion).
func (db *DB) SetRoles(ctx context.Context, id string, isStudent, isAdmin bool) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE users SET is_student = ?, is_admin = ? WHERE id = ?`,
		isStudent, isAdmin, id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating roles for user %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("user", id)
	}

	return nil
}

// ListUsers returns users in creation order; adminsOnly restricts to admin
// accounts. Used by the admin CLI's list-users / list-admins commands.
func (db *DB) ListUsers(ctx context.Context, adminsOnly bool) ([]model.User, error) {
	query := `SELECT id, username, email, password_hash, is_student, is_admin, created_at
	          FROM users`
	if adminsOnly {
		query += ` WHERE is_admin = 1`
	}
	query += ` ORDER BY created_at`

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(
			&u.ID, &u.Username, &u.Email, &u.PasswordHash,
			&u.IsStudent, &u.IsAdmin, &u.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating users: %w", err)
	}

	return users, nil
}
