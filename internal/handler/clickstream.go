package handler

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/sakif/edulearn/internal/service"
	"github.com/sakif/edulearn/internal/session"
)

// xlsxContentType is the MIME type for OpenXML spreadsheets.
const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ClickstreamHandler owns the tracking endpoint and the spreadsheet export.
type ClickstreamHandler struct {
	clicks   *service.ClickstreamService
	sessions *session.Manager
	logger   *slog.Logger
}

func NewClickstreamHandler(clicks *service.ClickstreamService, sessions *session.Manager, logger *slog.Logger) *ClickstreamHandler {
	return &ClickstreamHandler{
		clicks:   clicks,
		sessions: sessions,
		logger:   logger,
	}
}

// trackRequest is the JSON payload posted by web/static/js/clickstream.js.
// Every key is optional — missing strings default to empty, missing
// coordinates stay NULL. Pointers distinguish "absent" from zero.
type trackRequest struct {
	PageURL      string `json:"page_url"`
	ElementID    string `json:"element_id"`
	ElementClass string `json:"element_class"`
	ElementText  string `json:"element_text"`
	ClickX       *int   `json:"click_x"`
	ClickY       *int   `json:"click_y"`
}

// trackResponse is the acknowledgment envelope.
type trackResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HandleTrackClick records one interaction event.
//
// HTTP: POST /track_click (public — anonymous visitors are tracked too)
//
// Attribution comes from the session: the signed-in user's ID if present,
// NULL otherwise. The user agent and source address are taken from the
// request itself, never from the payload, so the client cannot spoof them.
// A persistence failure returns the error envelope with a 500; it affects
// only this one event.
func (h *ClickstreamHandler) HandleTrackClick(w http.ResponseWriter, r *http.Request) {
	var req trackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, trackResponse{
			Status:  "error",
			Message: "invalid JSON body",
		})
		return
	}

	var userID *string
	if id, ok := session.UserIDFromContext(r.Context()); ok {
		userID = &id
	}

	_, err := h.clicks.Track(r.Context(), service.TrackInput{
		UserID:       userID,
		SessionID:    h.sessions.SessionID(w, r),
		PageURL:      req.PageURL,
		ElementID:    req.ElementID,
		ElementClass: req.ElementClass,
		ElementText:  req.ElementText,
		ClickX:       req.ClickX,
		ClickY:       req.ClickY,
		UserAgent:    r.UserAgent(),
		IPAddress:    remoteIP(r),
	})
	if err != nil {
		h.logger.Error("recording click event", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, trackResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, trackResponse{Status: "success"})
}

// HandleExportClickstream streams the full click log as an .xlsx download.
//
// HTTP: GET /export_clickstream (authenticated, no role restriction)
//
// The export service only writes the response body after the whole workbook
// has been assembled from the streamed rows, so a failure here can still fall
// back to a flash + redirect — no partial download reaches the client.
func (h *ClickstreamHandler) HandleExportClickstream(w http.ResponseWriter, r *http.Request) {
	filename := service.ExportFilename(time.Now())
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := h.clicks.Export(r.Context(), w); err != nil {
		h.logger.Error("exporting clickstream", slog.String("error", err.Error()))
		w.Header().Del("Content-Type")
		w.Header().Del("Content-Disposition")
		h.sessions.AddFlash(w, r, "error", "Error exporting data: "+err.Error())
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
}

// remoteIP extracts the client address. chi's RealIP middleware has already
// rewritten RemoteAddr from X-Forwarded-For when behind a proxy; otherwise we
// strip the port from the socket address.
func remoteIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
