// Package labelio reads and writes label histories in the store formats:
// CSV for the per-user store and downloads, Parquet for dataset exports.
package labelio

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/SewarRihani/OnlineLabelingApp/internal/models"
	"github.com/parquet-go/parquet-go"
)

// ErrParse marks input that is not a valid label file
var ErrParse = errors.New("invalid label file")

// Header is the column order written to CSV files
var Header = []string{"file", "species", "label"}

// Row is the flat Parquet representation of a label record
type Row struct {
	File    string `parquet:"file"`
	Species string `parquet:"species"`
	Label   string `parquet:"label"`
}

// Decode reads a label file, choosing the format from its name
func Decode(name string, r io.Reader) ([]models.LabelRecord, error) {
	ext := strings.ToLower(filepath.Ext(name))

	switch ext {
	case ".csv", "":
		return ReadCSV(r)
	case ".parquet":
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet data: %w", err)
		}
		return ReadParquet(bytes.NewReader(data), int64(len(data)))
	default:
		return nil, fmt.Errorf("%w: unsupported file format %s (supported: .csv, .parquet)", ErrParse, ext)
	}
}

// WriteCSV writes records with a header row
func WriteCSV(w io.Writer, records []models.LabelRecord) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Header); err != nil {
		return err
	}
	for _, rec := range records {
		if err := writer.Write([]string{rec.File, string(rec.Species), string(rec.Label)}); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// ReadCSV parses a CSV label file. Columns are located by header name, so
// extra columns and any column order are accepted.
func ReadCSV(r io.Reader) ([]models.LabelRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", ErrParse)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	for _, name := range Header {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrParse, name)
		}
	}

	var rows []Row
	line := 1
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		if len(fields) == 1 && strings.TrimSpace(fields[0]) == "" {
			continue
		}

		row := Row{}
		for name, dst := range map[string]*string{"file": &row.File, "species": &row.Species, "label": &row.Label} {
			idx := cols[name]
			if idx >= len(fields) {
				return nil, fmt.Errorf("%w: line %d: missing %s value", ErrParse, line, name)
			}
			*dst = fields[idx]
		}
		rows = append(rows, row)
	}

	return fromRows(rows)
}

// WriteParquet writes records as a Parquet file
func WriteParquet(w io.Writer, records []models.LabelRecord) error {
	writer := parquet.NewGenericWriter[Row](w)

	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, Row{File: rec.File, Species: string(rec.Species), Label: string(rec.Label)})
	}

	if _, err := writer.Write(rows); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

// ReadParquet reads a Parquet label file
func ReadParquet(r io.ReaderAt, size int64) ([]models.LabelRecord, error) {
	pf, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	reader := parquet.NewGenericReader[Row](pf)
	defer reader.Close()

	var rows []Row
	batch := make([]Row, 128)
	for {
		n, err := reader.Read(batch)
		rows = append(rows, batch[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
	}

	return fromRows(rows)
}

func fromRows(rows []Row) ([]models.LabelRecord, error) {
	records := make([]models.LabelRecord, 0, len(rows))
	seen := make(map[string]bool, len(rows))

	for i, row := range rows {
		file := row.File
		if strings.TrimSpace(file) == "" {
			return nil, fmt.Errorf("%w: row %d: empty file name", ErrParse, i+1)
		}
		if seen[file] {
			return nil, fmt.Errorf("%w: row %d: duplicate file %q", ErrParse, i+1, file)
		}
		seen[file] = true

		species, err := models.ParseSpecies(row.Species)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrParse, i+1, err)
		}
		label, err := models.ParseLabel(row.Label)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrParse, i+1, err)
		}

		records = append(records, models.LabelRecord{File: file, Species: species, Label: label})
	}

	return records, nil
}
