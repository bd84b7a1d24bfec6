package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/SewarRihani/OnlineLabelingApp/internal/catalog"
	"github.com/SewarRihani/OnlineLabelingApp/internal/models"
)

// Store is the read side of the per-user label store
type Store interface {
	Users() ([]string, error)
	Load(username string) ([]models.LabelRecord, error)
}

// UserProgress summarizes one user's label file against the catalog
type UserProgress struct {
	Username  string `json:"username"`
	Labeled   int    `json:"labeled"`
	Remaining int    `json:"remaining"`
	Positive  int    `json:"positive"`
	Negative  int    `json:"negative"`
	Unknown   int    `json:"unknown"`
	Cat       int    `json:"cat"`
	Dog       int    `json:"dog"`
	Orphaned  int    `json:"orphaned"` // labeled files no longer in the catalog
	Error     string `json:"error,omitempty"`
}

// Summary is the progress of every user with a label file
type Summary struct {
	CatalogSize int            `json:"catalog_size"`
	Users       []UserProgress `json:"users"`
}

// Build reads every user's labels. A user whose file cannot be read is
// reported with its error rather than failing the whole summary.
func Build(files []catalog.AudioFile, store Store) (*Summary, error) {
	users, err := store.Users()
	if err != nil {
		return nil, err
	}

	inCatalog := make(map[string]bool, len(files))
	for _, f := range files {
		inCatalog[f.Name] = true
	}

	summary := &Summary{
		CatalogSize: len(catalog.Remaining(files, nil)),
		Users:       make([]UserProgress, 0, len(users)),
	}
	for _, user := range users {
		p := UserProgress{Username: user}

		records, err := store.Load(user)
		if err != nil {
			p.Error = err.Error()
			summary.Users = append(summary.Users, p)
			continue
		}

		labeled := make(map[string]bool, len(records))
		for _, rec := range records {
			labeled[rec.File] = true
			if !inCatalog[rec.File] {
				p.Orphaned++
			}
			switch rec.Label {
			case models.LabelPositive:
				p.Positive++
			case models.LabelNegative:
				p.Negative++
			case models.LabelUnknown:
				p.Unknown++
			}
			switch rec.Species {
			case models.SpeciesCat:
				p.Cat++
			case models.SpeciesDog:
				p.Dog++
			}
		}
		p.Labeled = len(records)
		p.Remaining = len(catalog.Remaining(files, labeled))

		summary.Users = append(summary.Users, p)
	}

	return summary, nil
}

// Write renders the summary as text, json or csv
func Write(w io.Writer, s *Summary, format string) error {
	switch format {
	case "text":
		return writeText(w, s)
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(s)
	case "csv":
		return writeCSV(w, s)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func writeText(w io.Writer, s *Summary) error {
	fmt.Fprintln(w, "========================================")
	fmt.Fprintln(w, "Labeling Progress Report")
	fmt.Fprintln(w, "========================================")
	fmt.Fprintf(w, "Catalog: %d files\n", s.CatalogSize)

	if len(s.Users) == 0 {
		fmt.Fprintln(w, "\nNo label files found.")
		return nil
	}

	for _, u := range s.Users {
		fmt.Fprintf(w, "\n%s\n", u.Username)
		if u.Error != "" {
			fmt.Fprintf(w, "  Error: %s\n", u.Error)
			continue
		}
		fmt.Fprintf(w, "  Labeled:   %d (%d remaining)\n", u.Labeled, u.Remaining)
		fmt.Fprintf(w, "  Positive:  %d\n", u.Positive)
		fmt.Fprintf(w, "  Negative:  %d\n", u.Negative)
		fmt.Fprintf(w, "  Unknown:   %d\n", u.Unknown)
		fmt.Fprintf(w, "  CAT / DOG: %d / %d\n", u.Cat, u.Dog)
		if u.Orphaned > 0 {
			fmt.Fprintf(w, "  Not in catalog: %d\n", u.Orphaned)
		}
	}
	return nil
}

func writeCSV(w io.Writer, s *Summary) error {
	writer := csv.NewWriter(w)

	header := []string{"username", "labeled", "remaining", "positive", "negative", "unknown", "cat", "dog", "orphaned", "error"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, u := range s.Users {
		row := []string{u.Username}
		for _, n := range []int{u.Labeled, u.Remaining, u.Positive, u.Negative, u.Unknown, u.Cat, u.Dog, u.Orphaned} {
			row = append(row, strconv.Itoa(n))
		}
		row = append(row, u.Error)
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
