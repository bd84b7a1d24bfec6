package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SewarRihani/OnlineLabelingApp/internal/labeling"
)

// HandleIndex renders the labeling page
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != "GET" && r.Method != "HEAD" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.withSession(w, r, func(sess *labeling.Session) {
		h.renderPage(w, http.StatusOK, sess, "")
	})
}

// HandleUsername starts labeling for the submitted name, optionally
// resuming from a file sent along with it. A file sent after labeling has
// started resumes the session as the upload form does.
func (h *Handler) HandleUsername(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	upload, closeUpload, uploadErr := h.optionalUpload(r)
	defer closeUpload()

	h.withSession(w, r, func(sess *labeling.Session) {
		if uploadErr != nil {
			slog.Warn("Rejected username submission", "err", uploadErr)
			h.renderPage(w, http.StatusBadRequest, sess, uploadErr.Error())
			return
		}
		if upload != nil && sess.State() != labeling.AwaitingUsername {
			h.resume(w, r, sess, upload)
			return
		}

		if err := sess.Start(r.FormValue("username"), upload); err != nil {
			slog.Warn("Unable to start labeling", "err", err)
			h.renderPage(w, http.StatusBadRequest, sess, err.Error())
			return
		}
		h.redirectHome(w, r)
	})
}

// HandleSession returns the current view as JSON
func (h *Handler) HandleSession(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		h.withExistingSession(w, r, func(sess *labeling.Session) {
			h.writeJSON(w, sess.View())
		})
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleLogout ends the browser session. Saved labels stay on disk.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if c, err := r.Cookie(sessionCookie); err == nil {
		h.sessionStore.Delete(c.Value)
		slog.Debug("Browser session ended", "session_id", c.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	h.redirectHome(w, r)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, labeling.ErrComplete):
		return http.StatusConflict
	case errors.Is(err, labeling.ErrNoUsername),
		errors.Is(err, labeling.ErrInvalidUsername):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
