package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/SewarRihani/OnlineLabelingApp/internal/catalog"
	"github.com/SewarRihani/OnlineLabelingApp/internal/models"
	"github.com/google/go-cmp/cmp"
)

type fakeStore struct {
	data map[string][]models.LabelRecord
	errs map[string]error
}

func (f fakeStore) Users() ([]string, error) {
	var users []string
	for u := range f.data {
		users = append(users, u)
	}
	for u := range f.errs {
		users = append(users, u)
	}
	sort.Strings(users)
	return users, nil
}

func (f fakeStore) Load(username string) ([]models.LabelRecord, error) {
	if err, ok := f.errs[username]; ok {
		return nil, err
	}
	return f.data[username], nil
}

func testFiles() []catalog.AudioFile {
	var files []catalog.AudioFile
	for _, n := range []string{"cat1.wav", "cat2.wav", "dog1.wav"} {
		files = append(files, catalog.AudioFile{RelPath: n, Name: n, Species: catalog.SpeciesOf(n)})
	}
	return files
}

func TestBuild(t *testing.T) {
	store := fakeStore{
		data: map[string][]models.LabelRecord{
			"alice": {
				{File: "cat1.wav", Species: models.SpeciesCat, Label: models.LabelPositive},
				{File: "dog1.wav", Species: models.SpeciesDog, Label: models.LabelUnknown},
				{File: "old.wav", Species: models.SpeciesDog, Label: models.LabelNegative},
			},
		},
		errs: map[string]error{"bob": errors.New("invalid label file")},
	}

	summary, err := Build(testFiles(), store)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := &Summary{
		CatalogSize: 3,
		Users: []UserProgress{
			{Username: "alice", Labeled: 3, Remaining: 1, Positive: 1, Negative: 1, Unknown: 1, Cat: 1, Dog: 2, Orphaned: 1},
			{Username: "bob", Error: "invalid label file"},
		},
	}
	if diff := cmp.Diff(want, summary); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestWrite(t *testing.T) {
	summary := &Summary{
		CatalogSize: 3,
		Users:       []UserProgress{{Username: "alice", Labeled: 2, Remaining: 1, Positive: 2, Cat: 2}},
	}

	tests := []struct {
		format   string
		contains string
	}{
		{format: "text", contains: "Labeled:   2 (1 remaining)"},
		{format: "csv", contains: "alice,2,1,2,0,0,2,0,0,"},
		{format: "json", contains: `"catalog_size": 3`},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Write(&buf, summary, tt.format); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !strings.Contains(buf.String(), tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, buf.String())
			}
		})
	}

	var buf bytes.Buffer
	if err := Write(&buf, summary, "json"); err != nil {
		t.Fatal(err)
	}
	var decoded Summary
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}

	if err := Write(&buf, summary, "xml"); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestWriteTextNoUsers(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, &Summary{}, "text"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No label files found.") {
		t.Errorf("Expected empty notice, got:\n%s", buf.String())
	}
}
