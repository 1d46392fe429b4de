package pipeline

import "math"

// RotateAndStretch stretches longitude about the centroid by horizontalScale
// and then rotates about the same centroid. Positive degrees rotate clockwise
// on a map, which is a negative mathematical angle with lon as x and lat as y.
// Stretch comes first so "horizontal" stays the pre-rotation east-west axis.
// It must be called in a corrected (isotropic) frame.
func RotateAndStretch(t Track, rotationDegrees, horizontalScale float64) Track {
	c, ok := Centroid(t)
	if !ok {
		return t.Clone()
	}

	theta := -rotationDegrees * math.Pi / 180
	cosA := math.Cos(theta)
	sinA := math.Sin(theta)

	out := make(Track, len(t))
	for i, p := range t {
		dLon := horizontalScale * (p.Lon - c.Lon)
		dLat := p.Lat - c.Lat
		out[i] = TrackPoint{
			Lat: c.Lat + dLon*sinA + dLat*cosA,
			Lon: c.Lon + dLon*cosA - dLat*sinA,
		}
	}
	return out
}
