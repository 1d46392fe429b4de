package pipeline

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Distance 两点间的大圆距离（米，haversine）
func Distance(a, b TrackPoint) float64 {
	return geo.DistanceHaversine(orb.Point{a.Lon, a.Lat}, orb.Point{b.Lon, b.Lat})
}

// GeodesicLength sums the distances between consecutive points, in meters.
func GeodesicLength(t Track) float64 {
	if len(t) < 2 {
		return 0
	}
	length := 0.0
	for i := 0; i < len(t)-1; i++ {
		length += Distance(t[i], t[i+1])
	}
	return length
}
