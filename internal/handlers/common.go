package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/SewarRihani/OnlineLabelingApp/internal/catalog"
	"github.com/SewarRihani/OnlineLabelingApp/internal/labeling"
	"github.com/SewarRihani/OnlineLabelingApp/internal/storage"
	"github.com/google/uuid"
)

const sessionCookie = "labeler_session"

type Handler struct {
	sessionStore   *storage.SessionStore
	labelStore     *storage.LabelStore
	files          []catalog.AudioFile
	maxUploadBytes int64
}

func New(files []catalog.AudioFile, labelStore *storage.LabelStore, sessionStore *storage.SessionStore, maxUploadBytes int64) *Handler {
	return &Handler{
		sessionStore:   sessionStore,
		labelStore:     labelStore,
		files:          files,
		maxUploadBytes: maxUploadBytes,
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}

func (h *Handler) redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Session helpers

// withSession runs fn on the caller's session, starting a new one and
// setting the cookie when the request carries no known session id.
func (h *Handler) withSession(w http.ResponseWriter, r *http.Request, fn func(*labeling.Session)) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if h.sessionStore.Do(c.Value, fn) {
			return
		}
	}

	sessionID := uuid.NewString()
	h.sessionStore.Set(sessionID, labeling.New(h.files, h.labelStore))
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	slog.Debug("Browser session created", "session_id", sessionID)
	h.sessionStore.Do(sessionID, fn)
}

// withExistingSession is withSession for routes that make no sense on a
// fresh session; they answer 404 instead of creating one.
func (h *Handler) withExistingSession(w http.ResponseWriter, r *http.Request, fn func(*labeling.Session)) {
	c, err := r.Cookie(sessionCookie)
	if err != nil || !h.sessionStore.Do(c.Value, fn) {
		h.writeError(w, "Session not found", http.StatusNotFound)
	}
}
