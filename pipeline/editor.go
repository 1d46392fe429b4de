package pipeline

import (
	"fmt"
	"math"
)

const (
	MinRotation       = -180.0
	MaxRotation       = 180.0
	MinStretchPercent = 25.0
	MaxStretchPercent = 400.0
)

// TransformState holds the per-session edit parameters. Rotation and stretch
// are reapplied fresh from here on every recompute.
type TransformState struct {
	TargetLengthKm  float64 `json:"target_length_km"`
	RotationDeg     float64 `json:"rotation_deg"`
	HorizontalScale float64 `json:"horizontal_scale"`
	OffsetLat       float64 `json:"offset_lat"`
	OffsetLon       float64 `json:"offset_lon"`
}

// DefaultTransformState 无旋转、无拉伸
func DefaultTransformState() TransformState {
	return TransformState{HorizontalScale: 1}
}

// StretchPercent 以百分比表示的水平拉伸
func (s TransformState) StretchPercent() float64 {
	return s.HorizontalScale * 100
}

// Editor holds the three snapshots of one editing cycle.
//
//	original: sampled/loaded track, immutable until a new load
//	working:  original after uniform scale, translation and drag edits
//	final:    Apply(RotateAndStretch(Remove(working))) with one correction snapshot
//
// Every mutation of working or the state recomputes final from scratch.
type Editor struct {
	original Track
	working  Track
	final    Track
	state    TransformState
}

// NewEditor 以原始轨迹创建编辑器
func NewEditor(original Track) *Editor {
	e := &Editor{
		original: original.Clone(),
		working:  original.Clone(),
		state:    DefaultTransformState(),
	}
	e.state.TargetLengthKm = GeodesicLength(e.working) / 1000
	e.recompute()
	return e
}

// RestoreEditor rebuilds an editor from persisted snapshots.
func RestoreEditor(original, working Track, state TransformState) *Editor {
	if state.HorizontalScale == 0 {
		state.HorizontalScale = 1
	}
	e := &Editor{
		original: original.Clone(),
		working:  working.Clone(),
		state:    state,
	}
	e.recompute()
	return e
}

func (e *Editor) Original() Track { return e.original.Clone() }
func (e *Editor) Working() Track  { return e.working.Clone() }
func (e *Editor) Final() Track    { return e.final.Clone() }

func (e *Editor) State() TransformState { return e.state }

// LengthKm 当前最终轨迹长度（公里）
func (e *Editor) LengthKm() float64 {
	return GeodesicLength(e.final) / 1000
}

// Degenerate reports whether the working track is too small to be resized
// or corrected; edits on it silently no-op.
func (e *Editor) Degenerate() bool {
	if len(e.working) == 0 || GeodesicLength(e.working) == 0 {
		return true
	}
	c, _ := Centroid(e.working)
	return math.Abs(c.Lat) > MaxCorrectionLatitude
}

// SetRotation clamps degrees to [-180,180].
func (e *Editor) SetRotation(degrees float64) {
	e.state.RotationDeg = math.Max(MinRotation, math.Min(MaxRotation, degrees))
	e.recompute()
}

// SetStretch sets the horizontal scale factor (1.0 = none).
func (e *Editor) SetStretch(scale float64) {
	e.SetStretchPercent(scale * 100)
}

// SetStretchPercent clamps pct to [25,400].
func (e *Editor) SetStretchPercent(pct float64) {
	pct = math.Max(MinStretchPercent, math.Min(MaxStretchPercent, pct))
	e.state.HorizontalScale = pct / 100
	e.recompute()
}

// SetState replaces rotation and stretch and, when positive, resizes to the
// target length. Offsets are applied as a translation relative to the
// previous state.
func (e *Editor) SetState(s TransformState) {
	if s.HorizontalScale == 0 || !isFinite(s.HorizontalScale) {
		s.HorizontalScale = 1
	}
	if !isFinite(s.RotationDeg) {
		s.RotationDeg = e.state.RotationDeg
	}
	dLat := s.OffsetLat - e.state.OffsetLat
	dLon := s.OffsetLon - e.state.OffsetLon
	moved := Translate(e.working, dLat, dLon)
	if (dLat != 0 || dLon != 0) && moved.Finite() {
		e.working = moved
	} else {
		s.OffsetLat, s.OffsetLon = e.state.OffsetLat, e.state.OffsetLon
	}
	if !isFinite(s.TargetLengthKm) {
		s.TargetLengthKm = e.state.TargetLengthKm
	}
	if s.TargetLengthKm > 0 && s.TargetLengthKm != e.state.TargetLengthKm {
		if resized, ok := resizeToLength(e.working, s.TargetLengthKm); ok {
			e.working = resized
		} else {
			s.TargetLengthKm = e.state.TargetLengthKm
		}
	}
	e.state = s
	e.state.RotationDeg = math.Max(MinRotation, math.Min(MaxRotation, s.RotationDeg))
	e.state.HorizontalScale = math.Max(MinStretchPercent, math.Min(MaxStretchPercent, s.HorizontalScale*100)) / 100
	e.recompute()
}

// ResizeToLength scales working to the target length in km. Requests the
// package-level ResizeToLength would skip leave working and state untouched.
func (e *Editor) ResizeToLength(km float64) {
	resized, ok := resizeToLength(e.working, km)
	if !ok {
		return
	}
	e.working = resized
	e.state.TargetLengthKm = km
	e.recompute()
}

// TranslateBy 平移工作轨迹
func (e *Editor) TranslateBy(dLat, dLon float64) {
	moved := Translate(e.working, dLat, dLon)
	if !moved.Finite() {
		return
	}
	e.working = moved
	e.state.OffsetLat += dLat
	e.state.OffsetLon += dLon
	e.recompute()
}

// Recenter moves the working centroid onto (lat, lon).
func (e *Editor) Recenter(lat, lon float64) {
	c, ok := Centroid(e.working)
	if !ok {
		return
	}
	e.TranslateBy(lat-c.Lat, lon-c.Lon)
}

// ApplyDrag takes the point set reported by a map drag and translates working
// by the difference between its centroid and the working centroid. Rotation
// and stretch keep the centroid, so the delta is the drag offset. An empty
// drag is rejected and leaves working untouched.
func (e *Editor) ApplyDrag(points Track) error {
	newCenter, ok := Centroid(points)
	if !ok {
		return fmt.Errorf("drag carries no points: %w", ErrInvalidEdit)
	}
	if !points.Finite() {
		return fmt.Errorf("drag point is not finite: %w", ErrInvalidEdit)
	}
	prevCenter, ok := Centroid(e.working)
	if !ok {
		return fmt.Errorf("working track is empty: %w", ErrInvalidEdit)
	}
	e.TranslateBy(newCenter.Lat-prevCenter.Lat, newCenter.Lon-prevCenter.Lon)
	return nil
}

// Reset 恢复到原始轨迹与默认参数
func (e *Editor) Reset() {
	e.working = e.original.Clone()
	e.state = DefaultTransformState()
	e.state.TargetLengthKm = GeodesicLength(e.working) / 1000
	e.recompute()
}

func (e *Editor) recompute() {
	e.final = Render(e.working, e.state.RotationDeg, e.state.HorizontalScale)
}

// Render is the pure edit chain: remove the longitude correction, rotate and
// stretch in the isotropic frame, then reapply the correction with the same
// snapshot.
func Render(working Track, rotationDegrees, horizontalScale float64) Track {
	c, ok := NewCorrection(working)
	if !ok {
		return working.Clone()
	}
	return c.Apply(RotateAndStretch(c.Remove(working), rotationDegrees, horizontalScale))
}
