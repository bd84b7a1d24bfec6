package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/SewarRihani/OnlineLabelingApp/internal/labeling"
	"github.com/SewarRihani/OnlineLabelingApp/internal/labelio"
)

// HandleUpload resumes the session from a prior-progress file
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	upload, closeUpload, uploadErr := h.optionalUpload(r)
	defer closeUpload()

	h.withSession(w, r, func(sess *labeling.Session) {
		if uploadErr != nil {
			slog.Warn("Rejected upload", "err", uploadErr)
			h.renderPage(w, http.StatusBadRequest, sess, uploadErr.Error())
			return
		}
		if upload == nil {
			h.renderPage(w, http.StatusBadRequest, sess, "Choose a label file to upload")
			return
		}
		h.resume(w, r, sess, upload)
	})
}

func (h *Handler) resume(w http.ResponseWriter, r *http.Request, sess *labeling.Session, upload *labeling.Upload) {
	applied, err := sess.Resume(*upload)
	if err != nil {
		status := statusFor(err)
		if errors.Is(err, labelio.ErrParse) {
			status = http.StatusBadRequest
		}
		slog.Warn("Unable to resume from upload", "file", upload.Name, "err", err)
		h.renderPage(w, status, sess, err.Error())
		return
	}
	if !applied {
		slog.Info("Upload ignored, already processed", "user", sess.Username(), "file", upload.Name)
	}
	h.redirectHome(w, r)
}

// optionalUpload reads the "file" form field. A request without one yields
// a nil upload; the returned close func is always safe to call. It runs
// before the session lock is taken so a slow body never holds the session.
func (h *Handler) optionalUpload(r *http.Request) (*labeling.Upload, func(), error) {
	noop := func() {}

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, noop, fmt.Errorf("file too large (max %d bytes)", h.maxUploadBytes)
		}
		return nil, noop, fmt.Errorf("failed to read form: %w", err)
	}

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, fmt.Errorf("failed to read file: %w", err)
	}

	return &labeling.Upload{Name: filepath.Base(header.Filename), Data: file}, closer(file), nil
}

func closer(f multipart.File) func() {
	return func() {
		if err := f.Close(); err != nil {
			slog.Debug("Unable to close upload", "err", err)
		}
	}
}
