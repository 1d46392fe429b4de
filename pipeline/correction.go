package pipeline

import "math"

// MaxCorrectionLatitude bounds the average latitude used for the longitude
// correction; 1/cos(lat) diverges at the poles.
const MaxCorrectionLatitude = 89.0

// Correction is a snapshot of the reference values for the equirectangular
// correction. Apply and Remove are exact inverses (up to floating point) only
// when both use the same snapshot.
type Correction struct {
	AvgLat    float64
	CenterLon float64
}

// NewCorrection snapshots the mean latitude and mean longitude of t.
// ok is false for an empty track.
func NewCorrection(t Track) (Correction, bool) {
	c, ok := Centroid(t)
	if !ok {
		return Correction{}, false
	}
	return Correction{AvgLat: c.Lat, CenterLon: c.Lon}, true
}

// NewCorrectionChecked is NewCorrection that rejects empty and near-pole tracks.
func NewCorrectionChecked(t Track) (Correction, error) {
	c, ok := NewCorrection(t)
	if !ok {
		return Correction{}, ErrEmptyTrack
	}
	if math.Abs(c.AvgLat) > MaxCorrectionLatitude {
		return Correction{}, ErrNearPole
	}
	return c, nil
}

// clampedLat 限制纬度，避免 cos 接近 0
func (c Correction) clampedLat() float64 {
	return math.Max(-MaxCorrectionLatitude, math.Min(MaxCorrectionLatitude, c.AvgLat))
}

// Factor is 1/cos(AvgLat), the longitude stretch applied by Apply.
func (c Correction) Factor() float64 {
	return 1 / math.Cos(c.clampedLat()*math.Pi/180)
}

// Apply stretches longitude offsets from CenterLon by 1/cos(AvgLat),
// turning a frame where one degree is the same distance on both axes into
// real geographic longitudes.
func (c Correction) Apply(t Track) Track {
	return c.scale(t, c.Factor())
}

// Remove compresses longitude offsets by cos(AvgLat); inverse of Apply.
func (c Correction) Remove(t Track) Track {
	return c.scale(t, 1/c.Factor())
}

func (c Correction) scale(t Track, factor float64) Track {
	out := make(Track, len(t))
	for i, p := range t {
		out[i] = TrackPoint{
			Lat: p.Lat,
			Lon: c.CenterLon + (p.Lon-c.CenterLon)*factor,
		}
	}
	return out
}

// ApplyCorrection snapshots t and applies the correction. Empty input is
// returned unchanged.
func ApplyCorrection(t Track) Track {
	c, ok := NewCorrection(t)
	if !ok {
		return t.Clone()
	}
	return c.Apply(t)
}

// RemoveCorrection snapshots t and removes the correction. Calling it on the
// output of ApplyCorrection recomputes the snapshot and is only approximately
// inverse; use a shared Correction when exactness matters.
func RemoveCorrection(t Track) Track {
	c, ok := NewCorrection(t)
	if !ok {
		return t.Clone()
	}
	return c.Remove(t)
}
