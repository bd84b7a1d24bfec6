package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/SewarRihani/OnlineLabelingApp/internal/catalog"
	"github.com/SewarRihani/OnlineLabelingApp/internal/labeling"
	"github.com/SewarRihani/OnlineLabelingApp/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("index.html").Funcs(template.FuncMap{
	"percent": func(f float64) string { return fmt.Sprintf("%.0f", f*100) },
}).ParseFS(templateFS, "templates/index.html"))

type pageData struct {
	View         labeling.View
	Labels       []models.Label
	Error        string
	AudioWarning string
	DownloadName string
	AudioType    string
}

func (h *Handler) newPageData(sess *labeling.Session, errMsg string) pageData {
	data := pageData{
		View:   sess.View(),
		Labels: models.Labels,
		Error:  errMsg,
	}
	if sess.State() != labeling.AwaitingUsername {
		data.DownloadName = downloadName(sess)
	}
	if cur, ok := sess.Current(); ok {
		data.AudioType = catalog.ContentType(cur)
		if err := catalog.Probe(cur); err != nil {
			slog.Warn("Audio file unreadable", "file", cur.RelPath, "err", err)
			data.AudioWarning = "Error playing audio: " + err.Error()
		}
	}
	return data
}

// renderPage writes the page for the session's current state
func (h *Handler) renderPage(w http.ResponseWriter, status int, sess *labeling.Session, errMsg string) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, h.newPageData(sess, errMsg)); err != nil {
		h.writeError(w, "Failed to render page: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("Unable to write page", "err", err)
	}
}

func downloadName(sess *labeling.Session) string {
	if sess.State() == labeling.Complete {
		return sess.Username() + "_labels.csv"
	}
	return sess.Username() + "_progress.csv"
}
