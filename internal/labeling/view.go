package labeling

import (
	"github.com/SewarRihani/OnlineLabelingApp/internal/catalog"
	"github.com/SewarRihani/OnlineLabelingApp/internal/models"
)

// View is everything the page needs to render a session
type View struct {
	State    string               `json:"state"`
	Username string               `json:"username,omitempty"`
	Current  *catalog.AudioFile   `json:"current,omitempty"`
	Position int                  `json:"position"`
	Index    int                  `json:"index"`
	Total    int                  `json:"total"`
	Progress float64              `json:"progress"`
	Counts   map[models.Label]int `json:"counts"`
	Labeled  int                  `json:"labeled"`
}

// View renders the session without changing it
func (s *Session) View() View {
	v := View{
		State:    s.state.String(),
		Username: s.username,
		Index:    s.index,
		Total:    len(s.remaining),
		Counts:   make(map[models.Label]int, len(models.Labels)),
		Labeled:  len(s.labels),
	}
	for _, l := range models.Labels {
		v.Counts[l] = 0
	}
	for _, rec := range s.labels {
		v.Counts[rec.Label]++
	}

	if cur, ok := s.Current(); ok {
		v.Current = &cur
		v.Position = s.index + 1
	}
	switch {
	case s.state == Complete:
		v.Progress = 1
	case v.Total > 0:
		v.Progress = float64(s.index) / float64(v.Total)
	}
	return v
}
