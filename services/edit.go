package services

import (
	"fmt"

	"github.com/GrainArc/TrackArt/pipeline"
)

// EditKind 编辑类型
type EditKind string

const (
	EditDrag      EditKind = "drag"
	EditRotation  EditKind = "rotation"
	EditStretch   EditKind = "stretch"
	EditLength    EditKind = "length"
	EditSlider    EditKind = "slider"
	EditRecenter  EditKind = "recenter"
	EditTranslate EditKind = "translate"
	EditReset     EditKind = "reset"
	EditState     EditKind = "state"
)

// Edit is a single host request against an editing session. Value carries
// degrees, stretch percent, km or slider position depending on Kind.
type Edit struct {
	Kind   EditKind
	Value  float64
	Lat    float64
	Lon    float64
	Points pipeline.Track
	State  pipeline.TransformState
}

// Apply 在编辑器上执行
func (ed Edit) Apply(e *pipeline.Editor) error {
	switch ed.Kind {
	case EditDrag:
		return e.ApplyDrag(ed.Points)
	case EditRotation:
		e.SetRotation(ed.Value)
	case EditStretch:
		e.SetStretchPercent(ed.Value)
	case EditLength:
		e.ResizeToLength(ed.Value)
	case EditSlider:
		slider := pipeline.DefaultLengthSlider
		e.ResizeToLength(slider.ToKm(slider.Clamp(ed.Value)))
	case EditRecenter:
		e.Recenter(ed.Lat, ed.Lon)
	case EditTranslate:
		e.TranslateBy(ed.Lat, ed.Lon)
	case EditReset:
		e.Reset()
	case EditState:
		e.SetState(ed.State)
	default:
		return fmt.Errorf("unknown edit %q: %w", ed.Kind, pipeline.ErrInvalidEdit)
	}
	return nil
}
