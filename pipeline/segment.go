package pipeline

// Point 二维笛卡尔坐标（SVG 坐标空间，y 轴向下）
type Point struct {
	X, Y float64
}

func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

func (p Point) Mul(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

// SegmentKind 路径段类型
type SegmentKind int

const (
	SegmentLine SegmentKind = iota
	SegmentQuadratic
	SegmentCubic
	// SegmentArc is kept so parsed paths stay complete; the sampler skips it.
	SegmentArc
)

func (k SegmentKind) String() string {
	switch k {
	case SegmentLine:
		return "line"
	case SegmentQuadratic:
		return "quadratic"
	case SegmentCubic:
		return "cubic"
	case SegmentArc:
		return "arc"
	}
	return "unknown"
}

// PathSegment is one parsed segment of an SVG path. Control1 is the single
// control point of a quadratic curve; Control2 is only used by cubics.
type PathSegment struct {
	Kind     SegmentKind
	Start    Point
	Control1 Point
	Control2 Point
	End      Point
}

func NewLine(start, end Point) PathSegment {
	return PathSegment{Kind: SegmentLine, Start: start, End: end}
}

func NewQuadratic(start, control, end Point) PathSegment {
	return PathSegment{Kind: SegmentQuadratic, Start: start, Control1: control, End: end}
}

func NewCubic(start, control1, control2, end Point) PathSegment {
	return PathSegment{Kind: SegmentCubic, Start: start, Control1: control1, Control2: control2, End: end}
}

func NewArc(start, end Point) PathSegment {
	return PathSegment{Kind: SegmentArc, Start: start, End: end}
}

// Eval evaluates the segment at parameter t in [0,1]. The second result is
// false for segment kinds that have no closed form here.
func (s PathSegment) Eval(t float64) (Point, bool) {
	mt := 1 - t
	switch s.Kind {
	case SegmentLine:
		return Point{
			X: mt*s.Start.X + t*s.End.X,
			Y: mt*s.Start.Y + t*s.End.Y,
		}, true
	case SegmentQuadratic:
		a := mt * mt
		b := 2 * mt * t
		c := t * t
		return Point{
			X: a*s.Start.X + b*s.Control1.X + c*s.End.X,
			Y: a*s.Start.Y + b*s.Control1.Y + c*s.End.Y,
		}, true
	case SegmentCubic:
		a := mt * mt * mt
		b := 3 * mt * mt * t
		c := 3 * mt * t * t
		d := t * t * t
		return Point{
			X: a*s.Start.X + b*s.Control1.X + c*s.Control2.X + d*s.End.X,
			Y: a*s.Start.Y + b*s.Control1.Y + c*s.Control2.Y + d*s.End.Y,
		}, true
	}
	return Point{}, false
}
