package session

import (
	"context"
	"net/http"
)

// contextKey is unexported so only this package can read or write the
// identity value — no other package can collide with or shadow it.
type contextKey string

const userIDKey contextKey = "userID"

// RequireAuth gates a route behind an authenticated session. Anonymous
// requests are redirected to the login page (303), matching the rest of the
// server-rendered flow — gated routes are pages, not API endpoints, so a
// redirect beats a bare 401.
//
// On success the user ID is injected into the request context; handlers read
// it with UserIDFromContext. The session is resolved exactly once here.
func (m *Manager) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := m.UserID(r)
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth injects the user ID when a valid session exists but never
// blocks. Used on public routes (course list, click tracking) where
// anonymous and signed-in visitors are both welcome.
func (m *Manager) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID, ok := m.UserID(r); ok {
			r = r.WithContext(context.WithValue(r.Context(), userIDKey, userID))
		}
		next.ServeHTTP(w, r)
	})
}

// UserIDFromContext retrieves the authenticated user's ID placed there by
// RequireAuth/OptionalAuth. Returns ("", false) for anonymous requests.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}
