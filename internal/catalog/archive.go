package catalog

import (
	"archive/zip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Materialize makes sure root exists. An existing root is used as is; a
// missing root is extracted from archive when one is configured.
func Materialize(root, archive string) error {
	if info, err := os.Stat(root); err == nil {
		if !info.IsDir() {
			return fmt.Errorf("audio path is not a directory: %s", root)
		}
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat audio directory: %w", err)
	}

	if archive == "" {
		return fmt.Errorf("%w: %s", ErrCatalogMissing, root)
	}
	if _, err := os.Stat(archive); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s (archive %s not found)", ErrCatalogMissing, root, archive)
		}
		return fmt.Errorf("failed to stat archive: %w", err)
	}

	slog.Info("Extracting audio archive", "archive", archive, "root", root)
	n, err := extractZip(archive, root)
	if err != nil {
		// Leave no half-extracted root behind, the next start retries.
		_ = os.RemoveAll(root)
		return err
	}
	slog.Info("Audio archive extracted", "root", root, "files", n)
	return nil
}

func extractZip(archive, dest string) (int, error) {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return 0, fmt.Errorf("failed to open archive: %w", err)
	}
	defer r.Close()

	dest = filepath.Clean(dest)
	if err := os.MkdirAll(dest, 0755); err != nil {
		return 0, fmt.Errorf("failed to create audio directory: %w", err)
	}

	count := 0
	for _, f := range r.File {
		target := filepath.Join(dest, filepath.FromSlash(f.Name))
		if target != dest && !strings.HasPrefix(target, dest+string(filepath.Separator)) {
			return count, fmt.Errorf("archive entry escapes destination: %s", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return count, fmt.Errorf("failed to create directory %s: %w", f.Name, err)
			}
			continue
		}

		if err := extractEntry(f, target); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func extractEntry(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", f.Name, err)
	}

	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to read archive entry %s: %w", f.Name, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("failed to extract %s: %w", f.Name, err)
	}
	return dst.Close()
}
