package services

import (
	"sync"

	"github.com/GrainArc/TrackArt/Transformer"
	"github.com/GrainArc/TrackArt/models"
	"github.com/GrainArc/TrackArt/pipeline"
	"github.com/google/uuid"
)

const (
	SourceSvg = "svg"
	SourceGpx = "gpx"
)

// ArtSession is one editing cycle. All editor access goes through the
// session mutex.
type ArtSession struct {
	ID          string
	Name        string
	Source      string
	ContentHash string
	Layout      Transformer.TrackLayout

	mu        sync.Mutex
	projectID uint
	editor    *pipeline.Editor
}

func newArtSession(name, source, hash string, editor *pipeline.Editor) *ArtSession {
	return &ArtSession{
		ID:          uuid.NewString(),
		Name:        name,
		Source:      source,
		ContentHash: hash,
		editor:      editor,
	}
}

// Edit runs fn under the session lock and returns the resulting summary.
func (s *ArtSession) Edit(fn func(e *pipeline.Editor) error) (models.SessionSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.editor); err != nil {
		return s.summaryLocked(false), err
	}
	return s.summaryLocked(false), nil
}

// Summary 当前状态，withPoints 为真时附带最终轨迹
func (s *ArtSession) Summary(withPoints bool) models.SessionSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summaryLocked(withPoints)
}

// Final 最终轨迹副本
func (s *ArtSession) Final() pipeline.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Final()
}

// ProjectID 已保存作品的 ID，未保存为 0
func (s *ArtSession) ProjectID() uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projectID
}

func (s *ArtSession) summaryLocked(withPoints bool) models.SessionSummary {
	final := s.editor.Final()
	lengthKm := pipeline.GeodesicLength(final) / 1000
	sum := models.SessionSummary{
		ID:         s.ID,
		Name:       s.Name,
		Source:     s.Source,
		ProjectID:  s.projectID,
		State:      s.editor.State(),
		LengthKm:   lengthKm,
		Points:     len(final),
		Degenerate: s.editor.Degenerate(),
	}
	if lengthKm > 0 {
		sum.Slider = pipeline.DefaultLengthSlider.FromKm(lengthKm)
	}
	if c, ok := pipeline.Centroid(final); ok {
		sum.Centroid = &c
	}
	if withPoints {
		sum.Final = final
	}
	return sum
}
