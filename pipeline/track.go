package pipeline

import (
	"math"

	"github.com/paulmach/orb"
)

// TrackPoint 轨迹点（十进制度）
type TrackPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lng"`
}

// Track is an ordered point sequence; consecutive points are joined by
// straight geodesic segments when rendered.
type Track []TrackPoint

// Clone 深拷贝轨迹
func (t Track) Clone() Track {
	if t == nil {
		return nil
	}
	out := make(Track, len(t))
	copy(out, t)
	return out
}

// Centroid returns the arithmetic mean of latitudes and longitudes.
// ok is false for an empty track; a centroid of exactly (0,0) is valid.
func Centroid(t Track) (c TrackPoint, ok bool) {
	if len(t) == 0 {
		return TrackPoint{}, false
	}
	var latSum, lonSum float64
	for _, p := range t {
		latSum += p.Lat
		lonSum += p.Lon
	}
	n := float64(len(t))
	return TrackPoint{Lat: latSum / n, Lon: lonSum / n}, true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Finite reports whether every coordinate is a finite number.
func (t Track) Finite() bool {
	for _, p := range t {
		if !isFinite(p.Lat) || !isFinite(p.Lon) {
			return false
		}
	}
	return true
}

// Translate 平移轨迹
func Translate(t Track, dLat, dLon float64) Track {
	out := make(Track, len(t))
	for i, p := range t {
		out[i] = TrackPoint{Lat: p.Lat + dLat, Lon: p.Lon + dLon}
	}
	return out
}

// ScaleAround scales every point's offset from (lat, lon) by factor.
func ScaleAround(t Track, lat, lon, factor float64) Track {
	out := make(Track, len(t))
	for i, p := range t {
		out[i] = TrackPoint{
			Lat: lat + (p.Lat-lat)*factor,
			Lon: lon + (p.Lon-lon)*factor,
		}
	}
	return out
}

// CenterAt moves the arithmetic-mean centroid of t onto (lat, lon).
func CenterAt(t Track, lat, lon float64) Track {
	c, ok := Centroid(t)
	if !ok {
		return t.Clone()
	}
	return Translate(t, lat-c.Lat, lon-c.Lon)
}

// Bounds 计算轨迹包围盒（orb 约定：X 为经度，Y 为纬度）
func Bounds(t Track) orb.Bound {
	if len(t) == 0 {
		return orb.Bound{}
	}
	b := orb.Bound{
		Min: orb.Point{math.Inf(1), math.Inf(1)},
		Max: orb.Point{math.Inf(-1), math.Inf(-1)},
	}
	for _, p := range t {
		b.Min[0] = math.Min(b.Min[0], p.Lon)
		b.Min[1] = math.Min(b.Min[1], p.Lat)
		b.Max[0] = math.Max(b.Max[0], p.Lon)
		b.Max[1] = math.Max(b.Max[1], p.Lat)
	}
	return b
}

// LineString 转换为 orb.LineString
func (t Track) LineString() orb.LineString {
	ls := make(orb.LineString, len(t))
	for i, p := range t {
		ls[i] = orb.Point{p.Lon, p.Lat}
	}
	return ls
}

// FromLineString 从 orb.LineString 构建轨迹
func FromLineString(ls orb.LineString) Track {
	t := make(Track, len(ls))
	for i, p := range ls {
		t[i] = TrackPoint{Lat: p.Lat(), Lon: p.Lon()}
	}
	return t
}
