package handlers

import (
	"log/slog"
	"net/http"
)

// Routes wires every endpoint onto a new mux
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", h.HandleIndex)
	mux.HandleFunc("/username", h.HandleUsername)
	mux.HandleFunc("/upload", h.HandleUpload)
	mux.HandleFunc("/label", h.HandleLabel)
	mux.HandleFunc("/audio", h.HandleAudio)
	mux.HandleFunc("/download", h.HandleDownload)
	mux.HandleFunc("/logout", h.HandleLogout)
	mux.HandleFunc("/api/session", h.HandleSession)
	mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})
	return mux
}
