package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SewarRihani/OnlineLabelingApp/internal/labeling"
	"github.com/SewarRihani/OnlineLabelingApp/internal/models"
)

// HandleLabel applies a label action to the current file
func (h *Handler) HandleLabel(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.withSession(w, r, func(sess *labeling.Session) {
		label, err := models.ParseLabel(r.FormValue("label"))
		if err != nil {
			h.renderPage(w, http.StatusBadRequest, sess, "Invalid label. Must be 'positive', 'negative', or 'unknown'")
			return
		}

		rec, err := sess.Apply(label)
		if err != nil {
			slog.Warn("Label action rejected", "user", sess.Username(), "label", label, "err", err)
			h.renderPage(w, statusFor(err), sess, err.Error())
			return
		}

		slog.Info("File labeled", "user", sess.Username(), "file", rec.File, "species", rec.Species, "label", rec.Label,
			"index", sess.Index(), "total", sess.TotalRemaining())
		h.redirectHome(w, r)
	})
}
