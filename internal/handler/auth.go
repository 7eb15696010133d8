package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/edulearn/internal/apperror"
	"github.com/sakif/edulearn/internal/service"
	"github.com/sakif/edulearn/internal/session"
)

// AuthHandler serves the login and registration forms and processes their
// submissions. Session establishment is the only thing that happens here —
// credential rules live in the auth service.
type AuthHandler struct {
	auth     *service.AuthService
	sessions *session.Manager
	pages    *PageHandler
	logger   *slog.Logger
}

func NewAuthHandler(auth *service.AuthService, sessions *session.Manager, pages *PageHandler, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		sessions: sessions,
		pages:    pages,
		logger:   logger,
	}
}

// HandleLoginPage serves the login form.
//
// HTTP: GET /login
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	// Already signed in? Straight back to the catalog.
	if _, ok := h.sessions.UserID(r); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.pages.render(w, r, http.StatusOK, "login", map[string]any{
		"Title": "Login",
	})
}

// HandleLogin processes the login form.
//
// HTTP: POST /login
//
// Success binds the session to the user and redirects to the catalog.
// Failure flashes the (deliberately vague) error and re-serves the form.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	user, err := h.auth.Login(r.Context(), r.FormValue("username"), r.FormValue("password"))
	if err != nil {
		if errors.Is(err, apperror.ErrValidation) {
			h.sessions.AddFlash(w, r, "error", "Invalid username or password")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		h.logger.Error("login failed", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := h.sessions.SignIn(w, r, user.ID); err != nil {
		h.logger.Error("saving session", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.sessions.AddFlash(w, r, "success", "Logged in successfully!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleRegisterPage serves the registration form.
//
// HTTP: GET /register
func (h *AuthHandler) HandleRegisterPage(w http.ResponseWriter, r *http.Request) {
	h.pages.render(w, r, http.StatusOK, "register", map[string]any{
		"Title":    "Register",
		"Username": "",
		"Email":    "",
	})
}

// HandleRegister processes the registration form.
//
// HTTP: POST /register
//
// Duplicate username/email and validation problems flash an error and
// re-serve the form with the submitted values; no record is created. Success
// flashes and redirects to the login page.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	username := r.FormValue("username")
	email := r.FormValue("email")

	_, err := h.auth.Register(r.Context(), username, email, r.FormValue("password"))
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) &&
			(errors.Is(err, apperror.ErrConflict) || errors.Is(err, apperror.ErrValidation)) {
			h.sessions.AddFlash(w, r, "error", appErr.Message)
			h.pages.render(w, r, http.StatusOK, "register", map[string]any{
				"Title":    "Register",
				"Username": username,
				"Email":    email,
			})
			return
		}
		h.logger.Error("registration failed", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.sessions.AddFlash(w, r, "success", "Registration successful! Please login.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// HandleLogout clears the session binding.
//
// HTTP: GET /logout (authenticated)
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.SignOut(w, r); err != nil {
		h.logger.Error("clearing session", slog.String("error", err.Error()))
	}

	h.sessions.AddFlash(w, r, "success", "Logged out successfully!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
