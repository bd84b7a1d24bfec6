// Package labeling drives one user's pass over the audio catalog.
//
// A Session moves through AwaitingUsername, Resuming, Labeling and
// Complete. Resuming is transient: it hydrates the label list from an
// upload or the user's store and settles in Labeling or Complete before
// the call that entered it returns. Every label action persists the full
// label list to the store.
package labeling

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/SewarRihani/OnlineLabelingApp/internal/catalog"
	"github.com/SewarRihani/OnlineLabelingApp/internal/labelio"
	"github.com/SewarRihani/OnlineLabelingApp/internal/models"
)

// State is a step of the labeling flow
type State int

const (
	AwaitingUsername State = iota
	Resuming
	Labeling
	Complete
)

func (s State) String() string {
	switch s {
	case AwaitingUsername:
		return "awaiting_username"
	case Resuming:
		return "resuming"
	case Labeling:
		return "labeling"
	case Complete:
		return "complete"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	ErrNoUsername      = errors.New("username required")
	ErrInvalidUsername = errors.New("invalid username")
	ErrComplete        = errors.New("all files labeled")
	ErrNotFound        = errors.New("no saved labels")
)

// Store persists a user's full label history
type Store interface {
	Load(username string) ([]models.LabelRecord, error)
	Save(username string, records []models.LabelRecord) error
}

// Upload is a prior-progress file supplied by the user
type Upload struct {
	Name string
	Data io.Reader
}

// Session is the state of one browser session. It is not safe for
// concurrent use.
type Session struct {
	store   Store
	catalog []catalog.AudioFile

	state       State
	username    string
	index       int
	labels      []models.LabelRecord
	remaining   []catalog.AudioFile
	seenUploads map[string]bool
}

// New creates a session awaiting a username
func New(files []catalog.AudioFile, store Store) *Session {
	return &Session{
		store:       store,
		catalog:     files,
		state:       AwaitingUsername,
		seenUploads: make(map[string]bool),
	}
}

func (s *Session) State() State { return s.state }

func (s *Session) Username() string { return s.username }

func (s *Session) Index() int { return s.index }

// TotalRemaining is the number of files left after hydration, including
// those labeled since.
func (s *Session) TotalRemaining() int { return len(s.remaining) }

// Labels returns a copy of the label list
func (s *Session) Labels() []models.LabelRecord {
	return append([]models.LabelRecord(nil), s.labels...)
}

// Current returns the file awaiting a label
func (s *Session) Current() (catalog.AudioFile, bool) {
	if s.state != Labeling || s.index >= len(s.remaining) {
		return catalog.AudioFile{}, false
	}
	return s.remaining[s.index], true
}

// maxUsernameBytes leaves room for the store's extension and temp suffix
// within common 255-byte file name limits.
const maxUsernameBytes = 200

// ValidateUsername reports whether name can key a store file that the
// store will also list back.
func ValidateUsername(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty", ErrInvalidUsername)
	case len(name) > maxUsernameBytes:
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidUsername, maxUsernameBytes)
	case strings.HasPrefix(name, "."):
		return fmt.Errorf("%w: %q starts with a dot", ErrInvalidUsername, name)
	case strings.ContainsAny(name, `/\:*?"<>|`):
		return fmt.Errorf("%w: %q contains a reserved character", ErrInvalidUsername, name)
	case strings.IndexFunc(name, unicode.IsControl) >= 0:
		return fmt.Errorf("%w: %q contains a control character", ErrInvalidUsername, name)
	case !utf8.ValidString(name):
		return fmt.Errorf("%w: %q is not valid UTF-8", ErrInvalidUsername, name)
	}
	return nil
}

// Start leaves AwaitingUsername. An empty name is ignored and the session
// keeps waiting. The upload, when not nil, takes priority over the user's
// saved store. On error the session is left unchanged.
func (s *Session) Start(name string, upload *Upload) error {
	if s.state != AwaitingUsername {
		return nil
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	if err := ValidateUsername(name); err != nil {
		return err
	}

	labels, err := s.initialLabels(name, upload)
	if err != nil {
		return err
	}

	s.username = name
	s.state = Resuming
	if upload != nil {
		s.seenUploads[upload.Name] = true
	}
	s.hydrate(labels)
	slog.Info("Labeling session started", "user", name, "labeled", len(labels), "remaining", len(s.remaining))
	return s.persistIfComplete()
}

func (s *Session) initialLabels(name string, upload *Upload) ([]models.LabelRecord, error) {
	if upload != nil {
		labels, err := labelio.Decode(upload.Name, upload.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to read uploaded file %s: %w", upload.Name, err)
		}
		return labels, nil
	}

	labels, err := s.store.Load(name)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load saved labels for %s: %w", name, err)
	}
	return labels, nil
}

// Resume replaces the label list with an uploaded prior-progress file and
// restarts the pass over the remaining files. A file name already uploaded
// in this session is ignored. On parse failure the session is unchanged.
func (s *Session) Resume(upload Upload) (bool, error) {
	if s.state == AwaitingUsername {
		return false, ErrNoUsername
	}
	if s.seenUploads[upload.Name] {
		slog.Debug("Upload already processed", "user", s.username, "file", upload.Name)
		return false, nil
	}

	labels, err := labelio.Decode(upload.Name, upload.Data)
	if err != nil {
		return false, fmt.Errorf("failed to read uploaded file %s: %w", upload.Name, err)
	}

	s.seenUploads[upload.Name] = true
	s.state = Resuming
	s.hydrate(labels)
	slog.Info("Labeling session resumed from upload", "user", s.username, "file", upload.Name, "labeled", len(labels), "remaining", len(s.remaining))
	return true, s.persistIfComplete()
}

// hydrate replaces the label list wholesale and settles the state
func (s *Session) hydrate(labels []models.LabelRecord) {
	s.labels = append([]models.LabelRecord(nil), labels...)
	labeled := make(map[string]bool, len(labels))
	for _, rec := range labels {
		labeled[rec.File] = true
	}
	s.remaining = catalog.Remaining(s.catalog, labeled)
	s.index = 0
	s.settle()
}

func (s *Session) settle() {
	if s.index >= len(s.remaining) {
		s.state = Complete
		return
	}
	s.state = Labeling
}

// Apply labels the current file, advances the cursor and persists the full
// label list. The record is kept in memory even when saving fails.
func (s *Session) Apply(label models.Label) (models.LabelRecord, error) {
	switch s.state {
	case AwaitingUsername:
		return models.LabelRecord{}, ErrNoUsername
	case Complete:
		return models.LabelRecord{}, ErrComplete
	}
	label, err := models.ParseLabel(string(label))
	if err != nil {
		return models.LabelRecord{}, err
	}

	current := s.remaining[s.index]
	rec := models.LabelRecord{
		File:    current.Name,
		Species: current.Species,
		Label:   label,
	}
	s.labels = append(s.labels, rec)
	s.index++
	s.settle()

	slog.Debug("File labeled", "user", s.username, "file", rec.File, "label", rec.Label, "index", s.index, "total", len(s.remaining))
	if err := s.store.Save(s.username, s.labels); err != nil {
		return rec, fmt.Errorf("failed to save labels for %s: %w", s.username, err)
	}
	if s.state == Complete {
		slog.Info("All files labeled", "user", s.username, "labels", len(s.labels))
	}
	return rec, nil
}

func (s *Session) persistIfComplete() error {
	if s.state != Complete {
		return nil
	}
	if err := s.store.Save(s.username, s.labels); err != nil {
		return fmt.Errorf("failed to save labels for %s: %w", s.username, err)
	}
	return nil
}
