// Package session manages the cookie-backed browser session: who is signed
// in, the clickstream session identifier, and one-shot flash messages.
//
// Backed by gorilla/sessions' CookieStore — all state lives in a signed
// (securecookie) cookie, so the server keeps no session table. Handlers never
// touch the store directly; they read the request-scoped identity that the
// middleware in this package places in the request context.
package session

import (
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/rs/xid"
)

const (
	cookieName = "edulearn_session"

	keyUserID    = "user_id"
	keySessionID = "session_id"
)

// AnonymousSessionID is recorded on click events when no session cookie could
// be established (e.g. a client with cookies disabled).
const AnonymousSessionID = "anonymous"

// Flash is a one-shot message rendered on the next page load.
// Level is "success" or "error" and maps to a CSS class in the templates.
type Flash struct {
	Level   string
	Message string
}

func init() {
	// gorilla/sessions serializes values with encoding/gob; custom types
	// must be registered before first use.
	gob.Register(Flash{})
}

// Manager wraps the cookie store. One instance is created in server.New and
// shared by the middleware and all handlers.
type Manager struct {
	store *sessions.CookieStore
}

// NewManager creates a Manager. The secret signs (HMAC) the session cookie;
// it must be long, random, and stable across restarts — cmd/preflight
// generates a suitable one.
func NewManager(secret []byte) *Manager {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60, // one week
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{store: store}
}

// get always returns a session — gorilla returns a fresh one (plus an error)
// when the cookie is missing or fails HMAC validation, and a fresh session is
// exactly what we want in both cases.
func (m *Manager) get(r *http.Request) *sessions.Session {
	s, _ := m.store.Get(r, cookieName)
	return s
}

// SignIn binds the session to a user. Called on successful login and
// registration.
func (m *Manager) SignIn(w http.ResponseWriter, r *http.Request, userID string) error {
	s := m.get(r)
	s.Values[keyUserID] = userID
	return s.Save(r, w)
}

// SignOut removes the user binding but keeps the session itself, so the
// post-logout flash message and the clickstream session identifier survive.
func (m *Manager) SignOut(w http.ResponseWriter, r *http.Request) error {
	s := m.get(r)
	delete(s.Values, keyUserID)
	return s.Save(r, w)
}

// UserID returns the signed-in user's ID, or ("", false) for anonymous
// visitors.
func (m *Manager) UserID(r *http.Request) (string, bool) {
	id, ok := m.get(r).Values[keyUserID].(string)
	return id, ok && id != ""
}

// SessionID returns the browser's clickstream session identifier, assigning
// and persisting a fresh one on first use. Returns AnonymousSessionID if the
// cookie cannot be written.
func (m *Manager) SessionID(w http.ResponseWriter, r *http.Request) string {
	s := m.get(r)
	if sid, ok := s.Values[keySessionID].(string); ok && sid != "" {
		return sid
	}

	sid := xid.New().String()
	s.Values[keySessionID] = sid
	if err := s.Save(r, w); err != nil {
		return AnonymousSessionID
	}
	return sid
}

// AddFlash queues a one-shot message for the next rendered page.
func (m *Manager) AddFlash(w http.ResponseWriter, r *http.Request, level, message string) {
	s := m.get(r)
	s.AddFlash(Flash{Level: level, Message: message})
	// Best effort — a failed save just loses the message.
	_ = s.Save(r, w)
}

// Flashes drains and returns any queued messages. Draining requires a Save,
// so this must be called before the response body is written.
func (m *Manager) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	s := m.get(r)
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = s.Save(r, w)

	flashes := make([]Flash, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(Flash); ok {
			flashes = append(flashes, f)
		}
	}
	return flashes
}
