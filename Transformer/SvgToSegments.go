package Transformer

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/GrainArc/TrackArt/pipeline"
	"github.com/tdewolff/parse/v2/strconv"
	"golang.org/x/text/encoding/htmlindex"
)

var (
	// ErrSourceNotFound 源文件不存在
	ErrSourceNotFound = errors.New("source file not found")
	// ErrNoGeometry 文件中没有可用的几何
	ErrNoGeometry = errors.New("no geometry found")
)

// ParseSvgFile 读取 SVG 文件中的全部路径段
func ParseSvgFile(path string) ([]pipeline.PathSegment, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("svg %s: %w", path, ErrSourceNotFound)
		}
		return nil, fmt.Errorf("open svg %s: %w", path, err)
	}
	defer f.Close()
	return ParseSvg(f)
}

// ParseSvg collects the segments of every <path>, <line>, <polyline>,
// <polygon> and <rect> element in document order. Transforms, strokes and
// fills are ignored.
func ParseSvg(r io.Reader) ([]pipeline.PathSegment, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charsetReader

	var segs []pipeline.PathSegment
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode svg: %w", err)
		}
		el, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		var d string
		switch el.Name.Local {
		case "path":
			d = attr(el, "d")
		case "line":
			d = lineToPathData(el)
		case "polyline":
			d = pointsToPathData(attr(el, "points"), false)
		case "polygon":
			d = pointsToPathData(attr(el, "points"), true)
		case "rect":
			d = rectToPathData(el)
		default:
			continue
		}
		if d == "" {
			continue
		}
		elSegs, err := ParsePathData(d)
		if err != nil {
			return nil, fmt.Errorf("<%s>: %w", el.Name.Local, err)
		}
		segs = append(segs, elSegs...)
	}
	if len(segs) == 0 {
		return nil, ErrNoGeometry
	}
	return segs, nil
}

// charsetReader 处理非 UTF-8 编码的 SVG（如 GBK）
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", label, err)
	}
	return enc.NewDecoder().Reader(input), nil
}

func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return strings.TrimSpace(a.Value)
		}
	}
	return ""
}

func lineToPathData(el xml.StartElement) string {
	return fmt.Sprintf("M %s %s L %s %s",
		numOrZero(attr(el, "x1")), numOrZero(attr(el, "y1")),
		numOrZero(attr(el, "x2")), numOrZero(attr(el, "y2")))
}

func pointsToPathData(points string, closed bool) string {
	if points == "" {
		return ""
	}
	d := "M " + points
	if closed {
		d += " Z"
	}
	return d
}

func rectToPathData(el xml.StartElement) string {
	w, h := attr(el, "width"), attr(el, "height")
	if w == "" || h == "" {
		return ""
	}
	x := numOrZero(attr(el, "x"))
	return fmt.Sprintf("M %s %s h %s v %s H %s Z", x, numOrZero(attr(el, "y")), w, h, x)
}

func numOrZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}

func skipCommaWhitespace(path []byte) int {
	i := 0
	for i < len(path) && (path[i] == ' ' || path[i] == ',' || path[i] == '\n' || path[i] == '\r' || path[i] == '\t') {
		i++
	}
	return i
}

var cmdLens = map[byte]int{
	'M': 2,
	'Z': 0,
	'L': 2,
	'H': 1,
	'V': 1,
	'C': 6,
	'S': 4,
	'Q': 4,
	'T': 2,
	'A': 7,
}

// ParsePathData parses SVG path data into segments. Z emits a closing line
// when the current point is not already the subpath start. Arcs become
// SegmentArc segments with only their endpoints.
func ParsePathData(s string) ([]pipeline.PathSegment, error) {
	path := []byte(s)
	i := skipCommaWhitespace(path)
	if i >= len(path) {
		return nil, nil
	}
	if path[i] < 'A' {
		return nil, fmt.Errorf("bad path: path should start with command")
	}

	var segs []pipeline.PathSegment
	var f [7]float64
	var p0, start, ctrlQ, ctrlC pipeline.Point
	prevCmd := byte('z')
	for {
		i += skipCommaWhitespace(path[i:])
		if len(path) <= i {
			break
		}

		cmd := prevCmd
		repeat := true
		if cmd == 'z' || cmd == 'Z' || !(path[i] >= '0' && path[i] <= '9' || path[i] == '.' || path[i] == '-' || path[i] == '+') {
			cmd = path[i]
			repeat = false
			i++
			i += skipCommaWhitespace(path[i:])
		}

		CMD := cmd
		if 'a' <= cmd && cmd <= 'z' {
			CMD -= 'a' - 'A'
		}
		n, known := cmdLens[CMD]
		if !known {
			return nil, fmt.Errorf("bad path: unknown command '%c' at position %d", cmd, i)
		}
		for j := 0; j < n; j++ {
			if CMD == 'A' && (j == 3 || j == 4) {
				if i < len(path) && (path[i] == '0' || path[i] == '1') {
					f[j] = float64(path[i] - '0')
					i++
				} else {
					return nil, fmt.Errorf("bad path: largeArc and sweep flags should be 0 or 1 in command '%c' at position %d", cmd, i+1)
				}
			} else {
				num, k := strconv.ParseFloat(path[i:])
				if k == 0 {
					if repeat && j == 0 && i < len(path) {
						return nil, fmt.Errorf("bad path: unknown command '%c' at position %d", path[i], i+1)
					}
					return nil, fmt.Errorf("bad path: sets of %d numbers should follow command '%c' at position %d", n, cmd, i+1)
				}
				f[j] = num
				i += k
			}
			i += skipCommaWhitespace(path[i:])
		}

		rel := cmd >= 'a' && cmd <= 'z'
		abs := func(x, y float64) pipeline.Point {
			p := pipeline.Point{X: x, Y: y}
			if rel {
				p = p.Add(p0)
			}
			return p
		}

		var p1 pipeline.Point
		switch CMD {
		case 'M':
			p1 = abs(f[0], f[1])
			start = p1
			// subsequent pairs are implicit line-to commands
			if rel {
				cmd = 'l'
			} else {
				cmd = 'L'
			}
		case 'Z':
			p1 = start
			if p0 != start {
				segs = append(segs, pipeline.NewLine(p0, start))
			}
		case 'L':
			p1 = abs(f[0], f[1])
			segs = append(segs, pipeline.NewLine(p0, p1))
		case 'H':
			p1 = pipeline.Point{X: f[0], Y: p0.Y}
			if rel {
				p1.X += p0.X
			}
			segs = append(segs, pipeline.NewLine(p0, p1))
		case 'V':
			p1 = pipeline.Point{X: p0.X, Y: f[0]}
			if rel {
				p1.Y += p0.Y
			}
			segs = append(segs, pipeline.NewLine(p0, p1))
		case 'C':
			cp1 := abs(f[0], f[1])
			cp2 := abs(f[2], f[3])
			p1 = abs(f[4], f[5])
			segs = append(segs, pipeline.NewCubic(p0, cp1, cp2, p1))
			ctrlC = cp2
		case 'S':
			cp1 := p0
			if isCubic(prevCmd) {
				cp1 = p0.Mul(2).Sub(ctrlC)
			}
			cp2 := abs(f[0], f[1])
			p1 = abs(f[2], f[3])
			segs = append(segs, pipeline.NewCubic(p0, cp1, cp2, p1))
			ctrlC = cp2
		case 'Q':
			cp := abs(f[0], f[1])
			p1 = abs(f[2], f[3])
			segs = append(segs, pipeline.NewQuadratic(p0, cp, p1))
			ctrlQ = cp
		case 'T':
			cp := p0
			if isQuadratic(prevCmd) {
				cp = p0.Mul(2).Sub(ctrlQ)
			}
			p1 = abs(f[0], f[1])
			segs = append(segs, pipeline.NewQuadratic(p0, cp, p1))
			ctrlQ = cp
		case 'A':
			p1 = abs(f[5], f[6])
			segs = append(segs, pipeline.NewArc(p0, p1))
		}
		prevCmd = cmd
		p0 = p1
	}
	return segs, nil
}

func isCubic(cmd byte) bool {
	return cmd == 'C' || cmd == 'c' || cmd == 'S' || cmd == 's'
}

func isQuadratic(cmd byte) bool {
	return cmd == 'Q' || cmd == 'q' || cmd == 'T' || cmd == 't'
}
