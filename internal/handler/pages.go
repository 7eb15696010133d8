package handler

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/edulearn/internal/apperror"
	"github.com/sakif/edulearn/internal/service"
	"github.com/sakif/edulearn/internal/session"
)

// PageHandler serves the server-rendered pages: course catalog, course
// detail, course creation, the export page, and the two static content pages.
//
// Templates are parsed once at construction (base.html + one content template
// per page) and reused on every request.
type PageHandler struct {
	templates map[string]*template.Template
	catalog   *service.CatalogService
	auth      *service.AuthService
	clicks    *service.ClickstreamService
	sessions  *session.Manager
	logger    *slog.Logger
}

// pageNames are the content templates that pair with base.html.
var pageNames = []string{
	"index", "login", "register", "course_detail", "create_course",
	"export_data", "video_lectures", "text_lessons", "not_found",
}

// NewPageHandler parses all page templates from templateDir.
func NewPageHandler(
	templateDir string,
	catalog *service.CatalogService,
	auth *service.AuthService,
	clicks *service.ClickstreamService,
	sessions *session.Manager,
	logger *slog.Logger,
) (*PageHandler, error) {
	templates := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.ParseFiles(
			filepath.Join(templateDir, "base.html"),
			filepath.Join(templateDir, name+".html"),
		)
		if err != nil {
			return nil, err
		}
		templates[name] = tmpl
	}

	return &PageHandler{
		templates: templates,
		catalog:   catalog,
		auth:      auth,
		clicks:    clicks,
		sessions:  sessions,
		logger:    logger,
	}, nil
}

// render executes a page template inside the base layout, adding the
// cross-page data every template expects: flash messages and the signed-in
// user (nil when anonymous). Flashes must be drained before the body is
// written because draining saves the session cookie.
func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, status int, page string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	data["Flashes"] = h.sessions.Flashes(w, r)

	if userID, ok := session.UserIDFromContext(r.Context()); ok {
		if user, err := h.auth.GetUserByID(r.Context(), userID); err == nil {
			data["CurrentUser"] = user
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates[page].ExecuteTemplate(w, "base", data); err != nil {
		h.logger.Error("failed to render template",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
	}
}

// HandleIndex serves the course catalog.
//
// HTTP: GET /
func (h *PageHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	courses, err := h.catalog.ListCourses(r.Context())
	if err != nil {
		h.logger.Error("listing courses", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.render(w, r, http.StatusOK, "index", map[string]any{
		"Title":   "EduLearn — Courses",
		"Courses": courses,
	})
}

// HandleCourseDetail serves one course with its lectures and notes.
//
// HTTP: GET /course/{id}
func (h *PageHandler) HandleCourseDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	detail, err := h.catalog.GetCourse(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) || errors.Is(err, apperror.ErrValidation) {
			h.render(w, r, http.StatusNotFound, "not_found", map[string]any{
				"Title": "Course not found",
			})
			return
		}
		h.logger.Error("loading course", slog.String("id", id), slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.render(w, r, http.StatusOK, "course_detail", map[string]any{
		"Title":    detail.Course.Title,
		"Course":   detail.Course,
		"Lectures": detail.Lectures,
		"Notes":    detail.Notes,
	})
}

// HandleCreateCoursePage serves the course creation form.
//
// HTTP: GET /create_course (authenticated)
func (h *PageHandler) HandleCreateCoursePage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "create_course", map[string]any{
		"Title": "Create Course",
	})
}

// HandleCreateCourse processes the course creation form.
//
// HTTP: POST /create_course (authenticated)
//
// Students are turned away with a flash and a redirect to the catalog — the
// role rule itself lives in the catalog service.
func (h *PageHandler) HandleCreateCourse(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	userID, _ := session.UserIDFromContext(r.Context())

	course, err := h.catalog.CreateCourse(r.Context(),
		userID,
		r.FormValue("title"),
		r.FormValue("description"),
	)
	if err != nil {
		switch {
		case errors.Is(err, apperror.ErrForbidden):
			h.sessions.AddFlash(w, r, "error", "Students cannot create courses")
			http.Redirect(w, r, "/", http.StatusSeeOther)
		case errors.Is(err, apperror.ErrValidation):
			var appErr *apperror.AppError
			errors.As(err, &appErr)
			h.sessions.AddFlash(w, r, "error", appErr.Message)
			http.Redirect(w, r, "/create_course", http.StatusSeeOther)
		default:
			h.logger.Error("creating course", slog.String("error", err.Error()))
			h.sessions.AddFlash(w, r, "error", "Could not create course")
			http.Redirect(w, r, "/create_course", http.StatusSeeOther)
		}
		return
	}

	h.sessions.AddFlash(w, r, "success", "Course created successfully!")
	http.Redirect(w, r, "/course/"+course.ID, http.StatusSeeOther)
}

// HandleExportPage serves the export landing page with the current event
// count.
//
// HTTP: GET /export_data (authenticated)
func (h *PageHandler) HandleExportPage(w http.ResponseWriter, r *http.Request) {
	count, err := h.clicks.Count(r.Context())
	if err != nil {
		h.logger.Error("counting click events", slog.String("error", err.Error()))
		count = 0
	}

	h.render(w, r, http.StatusOK, "export_data", map[string]any{
		"Title":      "Export Clickstream Data",
		"EventCount": count,
	})
}

// HandleVideoLectures serves the static video lectures page.
//
// HTTP: GET /video_lectures (authenticated)
func (h *PageHandler) HandleVideoLectures(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "video_lectures", map[string]any{
		"Title": "Video Lectures",
	})
}

// HandleTextLessons serves the static text lessons page.
//
// HTTP: GET /text_lessons (authenticated)
func (h *PageHandler) HandleTextLessons(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "text_lessons", map[string]any{
		"Title": "Text Lessons",
	})
}
