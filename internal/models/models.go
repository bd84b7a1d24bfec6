package models

import (
	"fmt"
	"strings"
)

// Species identifies which animal a clip is expected to contain
type Species string

const (
	SpeciesCat Species = "CAT"
	SpeciesDog Species = "DOG"
)

// ParseSpecies accepts the stored form in any letter case
func ParseSpecies(s string) (Species, error) {
	switch Species(strings.ToUpper(strings.TrimSpace(s))) {
	case SpeciesCat:
		return SpeciesCat, nil
	case SpeciesDog:
		return SpeciesDog, nil
	default:
		return "", fmt.Errorf("unknown species %q", s)
	}
}

// Label is the classification a user assigns to a clip
type Label string

const (
	LabelPositive Label = "positive"
	LabelNegative Label = "negative"
	LabelUnknown  Label = "unknown"
)

// Labels lists every label in button order
var Labels = []Label{LabelPositive, LabelNegative, LabelUnknown}

// ParseLabel accepts the stored form in any letter case
func ParseLabel(s string) (Label, error) {
	switch Label(strings.ToLower(strings.TrimSpace(s))) {
	case LabelPositive:
		return LabelPositive, nil
	case LabelNegative:
		return LabelNegative, nil
	case LabelUnknown:
		return LabelUnknown, nil
	default:
		return "", fmt.Errorf("unknown label %q", s)
	}
}

// LabelRecord is one labeled clip. File is the base filename and is unique
// within a user's label history.
type LabelRecord struct {
	File    string  `json:"file"`
	Species Species `json:"species"`
	Label   Label   `json:"label"`
}
