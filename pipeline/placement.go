package pipeline

import "math"

// scaleDownFactor keeps raw drawing units inside valid lat/lon ranges so the
// bounding box can be measured with a geodesic distance function.
const scaleDownFactor = 0.000001

// PlaceAtSize scales a raw (lat=-y, lon=x) point cloud so that the longest
// geodesic side of its bounding box is targetSizeMeters, then moves its
// arithmetic-mean centre to (centerLat, centerLon).
//
// The result is isotropic in degrees: it is measured near the equator, so
// after recentring away from it the longitude extent is foreshortened by
// cos(lat). PlaceOnMap applies the correction that undoes this.
func PlaceAtSize(t Track, targetSizeMeters, centerLat, centerLon float64) (Track, error) {
	if len(t) == 0 {
		return nil, ErrEmptyTrack
	}

	minLat, maxLat := math.Inf(1), math.Inf(-1)
	minLon, maxLon := math.Inf(1), math.Inf(-1)
	for _, p := range t {
		minLat = math.Min(minLat, p.Lat)
		maxLat = math.Max(maxLat, p.Lat)
		minLon = math.Min(minLon, p.Lon)
		maxLon = math.Max(maxLon, p.Lon)
	}
	minLat *= scaleDownFactor
	maxLat *= scaleDownFactor
	minLon *= scaleDownFactor
	maxLon *= scaleDownFactor

	height := Distance(TrackPoint{Lat: minLat, Lon: minLon}, TrackPoint{Lat: maxLat, Lon: minLon})
	width := Distance(TrackPoint{Lat: minLat, Lon: minLon}, TrackPoint{Lat: minLat, Lon: maxLon})
	largest := math.Max(height, width)
	if largest == 0 || math.IsNaN(largest) {
		return nil, ErrDegenerateTrack
	}
	scale := targetSizeMeters / largest * scaleDownFactor

	scaled := make(Track, len(t))
	for i, p := range t {
		scaled[i] = TrackPoint{
			Lat: minLat + (p.Lat-minLat)*scale,
			Lon: minLon + (p.Lon-minLon)*scale,
		}
	}
	return CenterAt(scaled, centerLat, centerLon), nil
}

// PlaceOnMap places a sampled drawing at its real-world size: PlaceAtSize
// followed by the equirectangular correction, so the drawing keeps its
// aspect ratio on a map at centerLat.
func PlaceOnMap(t Track, targetSizeMeters, centerLat, centerLon float64) (Track, error) {
	placed, err := PlaceAtSize(t, targetSizeMeters, centerLat, centerLon)
	if err != nil {
		return nil, err
	}
	c, err := NewCorrectionChecked(placed)
	if err != nil {
		return nil, err
	}
	return c.Apply(placed), nil
}

// ResizeToLength scales the track about its arithmetic-mean centroid so its
// geodesic length becomes targetLengthKm. The centroid does not move, which
// keeps repeated live resizes from drifting. Degenerate input, a non-finite
// target and a scale that pushes latitudes past the poles return the input
// unchanged.
func ResizeToLength(t Track, targetLengthKm float64) Track {
	out, ok := resizeToLength(t, targetLengthKm)
	if !ok {
		return t.Clone()
	}
	return out
}

// resizeToLength reports ok=false when the resize was skipped.
func resizeToLength(t Track, targetLengthKm float64) (Track, bool) {
	if targetLengthKm <= 0 || !isFinite(targetLengthKm) {
		return nil, false
	}
	current := GeodesicLength(t)
	if current == 0 || !isFinite(current) {
		return nil, false
	}
	c, ok := Centroid(t)
	if !ok {
		return nil, false
	}
	factor := targetLengthKm * 1000 / current
	if !isFinite(factor) {
		return nil, false
	}
	out := ScaleAround(t, c.Lat, c.Lon, factor)
	if !out.Finite() {
		return nil, false
	}
	b := Bounds(out)
	if b.Min.Lat() < -90 || b.Max.Lat() > 90 {
		return nil, false
	}
	return out, true
}
