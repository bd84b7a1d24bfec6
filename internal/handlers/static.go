package handlers

import (
	"bytes"
	"log/slog"
	"net/http"
	"os"

	"github.com/SewarRihani/OnlineLabelingApp/internal/catalog"
	"github.com/SewarRihani/OnlineLabelingApp/internal/labeling"
	"github.com/SewarRihani/OnlineLabelingApp/internal/labelio"
)

// HandleAudio serves the clip awaiting a label
func (h *Handler) HandleAudio(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" && r.Method != "HEAD" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.withExistingSession(w, r, func(sess *labeling.Session) {
		cur, ok := sess.Current()
		if !ok {
			h.writeError(w, "No file to play", http.StatusNotFound)
			return
		}

		file, err := os.Open(cur.Path)
		if err != nil {
			slog.Warn("Audio file unreadable", "file", cur.RelPath, "err", err)
			http.Error(w, "Audio file unavailable", http.StatusNotFound)
			return
		}
		defer file.Close()

		info, err := file.Stat()
		if err != nil {
			h.writeError(w, "Failed to stat audio file: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", catalog.ContentType(cur))
		w.Header().Set("Cache-Control", "no-store")
		http.ServeContent(w, r, cur.Name, info.ModTime(), file)
	})
}

// HandleDownload sends the session's labels as CSV
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.withExistingSession(w, r, func(sess *labeling.Session) {
		if sess.State() == labeling.AwaitingUsername {
			h.writeError(w, "Enter a name first", http.StatusBadRequest)
			return
		}

		var buf bytes.Buffer
		if err := labelio.WriteCSV(&buf, sess.Labels()); err != nil {
			h.writeError(w, "Failed to encode labels: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+downloadName(sess)+`"`)
		if _, err := w.Write(buf.Bytes()); err != nil {
			slog.Error("Unable to write download", "err", err)
		}
	})
}
