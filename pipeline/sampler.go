package pipeline

// DefaultInterpolationPoints 每段贝塞尔曲线的默认采样点数
const DefaultInterpolationPoints = 3

// SampleSegments converts path segments into an ordered point list.
// Lines emit both endpoints verbatim, curves emit n points at evenly spaced
// t over [0,1]. Boundary points shared by adjacent segments are emitted twice.
func SampleSegments(segs []PathSegment, n int) []Point {
	if n < 2 {
		n = 2
	}
	ts := linspace(n)

	points := make([]Point, 0, len(segs)*n)
	for _, seg := range segs {
		switch seg.Kind {
		case SegmentLine:
			points = append(points, seg.Start, seg.End)
		case SegmentQuadratic, SegmentCubic:
			for _, t := range ts {
				p, _ := seg.Eval(t)
				points = append(points, p)
			}
		default:
			// 不支持的段类型直接跳过
		}
	}
	return points
}

// ToTrack maps Cartesian points to lat/lon candidates: lat = -y, lon = x.
// SVG y grows downward while latitude grows northward.
func ToTrack(points []Point) Track {
	track := make(Track, len(points))
	for i, p := range points {
		track[i] = TrackPoint{Lat: -p.Y, Lon: p.X}
	}
	return track
}

// SampleSegmentsToTrack 采样并翻转 y 轴
func SampleSegmentsToTrack(segs []PathSegment, n int) Track {
	return ToTrack(SampleSegments(segs, n))
}

// linspace returns n values evenly spaced over [0,1] with both ends exact.
func linspace(n int) []float64 {
	ts := make([]float64, n)
	step := 1 / float64(n-1)
	for i := range ts {
		ts[i] = float64(i) * step
	}
	ts[n-1] = 1
	return ts
}
