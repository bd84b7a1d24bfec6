package storage

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/SewarRihani/OnlineLabelingApp/internal/labeling"
	"github.com/SewarRihani/OnlineLabelingApp/internal/labelio"
	"github.com/SewarRihani/OnlineLabelingApp/internal/models"
)

// LabelStore keeps one CSV file per user under a directory. Two sessions
// saving for the same user race and the last writer wins.
type LabelStore struct {
	dir string
}

func NewLabelStore(dir string) *LabelStore {
	return &LabelStore{dir: dir}
}

// Path is the store file for a user
func (s *LabelStore) Path(username string) string {
	return filepath.Join(s.dir, username+".csv")
}

// Load reads a user's label history; labeling.ErrNotFound when none exists
func (s *LabelStore) Load(username string) ([]models.LabelRecord, error) {
	if err := labeling.ValidateUsername(username); err != nil {
		return nil, err
	}

	file, err := os.Open(s.Path(username))
	if errors.Is(err, os.ErrNotExist) {
		return nil, labeling.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open label file: %w", err)
	}
	defer file.Close()

	records, err := labelio.ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path(username), err)
	}
	return records, nil
}

// Save replaces a user's label history
func (s *LabelStore) Save(username string, records []models.LabelRecord) error {
	if err := labeling.ValidateUsername(username); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := labelio.WriteCSV(&buf, records); err != nil {
		return fmt.Errorf("failed to encode labels: %w", err)
	}
	return writeFileAtomic(s.dir, username+".csv", buf.Bytes())
}

// Users lists every user with a store file, sorted
func (s *LabelStore) Users() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read labels directory: %w", err)
	}

	var users []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.EqualFold(filepath.Ext(name), ".csv") {
			continue
		}
		users = append(users, strings.TrimSuffix(name, filepath.Ext(name)))
	}
	sort.Strings(users)
	return users, nil
}

// writeFileAtomic writes through a temp file in the same directory and
// renames it over the target.
func writeFileAtomic(dir, name string, data []byte) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create labels directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+name+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write labels: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync labels: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, filepath.Join(dir, name)); err != nil {
		return fmt.Errorf("failed to replace label file: %w", err)
	}
	return nil
}
