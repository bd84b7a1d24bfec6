package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/SewarRihani/OnlineLabelingApp/internal/models"
	"golang.org/x/text/cases"
)

// DefaultExtensions are the audio formats offered for labeling
var DefaultExtensions = []string{".wav", ".mp3"}

// ErrCatalogMissing is returned when neither the audio root nor an archive
// to build it from exists.
var ErrCatalogMissing = errors.New("audio directory not found")

// AudioFile is one clip discovered under the catalog root
type AudioFile struct {
	Path    string         `json:"-"`
	RelPath string         `json:"rel_path"`
	Name    string         `json:"name"`
	Species models.Species `json:"species"`
}

var folder = cases.Fold()

// SpeciesOf classifies a clip by its path: any case-insensitive occurrence
// of "cat" means CAT, everything else is DOG.
func SpeciesOf(path string) models.Species {
	if strings.Contains(folder.String(path), "cat") {
		return models.SpeciesCat
	}
	return models.SpeciesDog
}

// Scan walks root recursively and returns every file whose extension is in
// exts, sorted by path relative to root.
func Scan(root string, exts []string) ([]AudioFile, error) {
	root = filepath.Clean(root)
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	allowed := make(map[string]bool, len(exts))
	for _, ext := range exts {
		allowed[strings.ToLower(ext)] = true
	}

	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrCatalogMissing, root)
		}
		return nil, fmt.Errorf("failed to stat audio directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("audio path is not a directory: %s", root)
	}

	files := make([]AudioFile, 0, 128)
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if !allowed[strings.ToLower(filepath.Ext(d.Name()))] {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		files = append(files, AudioFile{
			Path:    path,
			RelPath: rel,
			Name:    d.Name(),
			Species: SpeciesOf(rel),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan audio directory: %w", err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	slog.Debug("Catalog scanned", "root", root, "files", len(files))
	return files, nil
}

// Remaining returns the files whose base name is not in labeled, in catalog
// order. A base name that occurs more than once is only offered the first
// time, so a label history never holds two rows for one file name.
func Remaining(files []AudioFile, labeled map[string]bool) []AudioFile {
	seen := make(map[string]bool, len(files))
	out := make([]AudioFile, 0, len(files))
	for _, f := range files {
		if seen[f.Name] {
			slog.Warn("Duplicate file name in catalog, skipping", "file", f.RelPath)
			continue
		}
		seen[f.Name] = true
		if labeled[f.Name] {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Probe reports whether the clip can be opened for playback
func Probe(f AudioFile) error {
	file, err := os.Open(f.Path)
	if err != nil {
		return fmt.Errorf("failed to open audio file: %w", err)
	}
	return file.Close()
}

// ContentType returns the MIME type used to serve a clip
func ContentType(f AudioFile) string {
	switch strings.ToLower(filepath.Ext(f.Name)) {
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	default:
		return "application/octet-stream"
	}
}
