package Transformer

import (
	"errors"
	"fmt"
	"os"

	"github.com/GrainArc/TrackArt/pipeline"
	"github.com/tkrajina/gpxgo/gpx"
)

// Creator GPX 文件 creator 字段
const Creator = "TrackArt"

// TrackLayout records how many points each segment of each GPX track held,
// so a flattened Track can be written back with the same structure.
type TrackLayout [][]int

// Total 布局中的点数
func (l TrackLayout) Total() int {
	n := 0
	for _, trk := range l {
		for _, c := range trk {
			n += c
		}
	}
	return n
}

// LoadGpx 读取 GPX 文件并展平为一条轨迹
func LoadGpx(path string) (pipeline.Track, TrackLayout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("gpx %s: %w", path, ErrSourceNotFound)
		}
		return nil, nil, fmt.Errorf("error reading GPX file %s: %w", path, err)
	}
	return ParseGpx(data)
}

// ParseGpx 解析 GPX 字节
func ParseGpx(data []byte) (pipeline.Track, TrackLayout, error) {
	g, err := gpx.ParseBytes(data)
	if err != nil {
		return nil, nil, fmt.Errorf("error parsing GPX: %w", err)
	}
	track, layout := GpxToTrack(g)
	if len(track) == 0 {
		return nil, nil, ErrNoGeometry
	}
	return track, layout, nil
}

// GpxToTrack flattens every track and segment into one point sequence in
// file order.
func GpxToTrack(g *gpx.GPX) (pipeline.Track, TrackLayout) {
	var track pipeline.Track
	layout := make(TrackLayout, 0, len(g.Tracks))
	for _, trk := range g.Tracks {
		counts := make([]int, 0, len(trk.Segments))
		for _, seg := range trk.Segments {
			for _, p := range seg.Points {
				track = append(track, pipeline.TrackPoint{Lat: p.Latitude, Lon: p.Longitude})
			}
			counts = append(counts, len(seg.Points))
		}
		layout = append(layout, counts)
	}
	return track, layout
}

// TrackToGpx builds a GPX document. When layout matches the track it is used
// to split points back into tracks and segments; otherwise one track with one
// segment is written.
func TrackToGpx(t pipeline.Track, name string, layout TrackLayout) *gpx.GPX {
	g := &gpx.GPX{
		Version: "1.1",
		Creator: Creator,
		Name:    name,
	}
	if layout == nil || layout.Total() != len(t) {
		layout = TrackLayout{{len(t)}}
	}

	i := 0
	for _, counts := range layout {
		trk := gpx.GPXTrack{Name: name}
		for _, c := range counts {
			seg := gpx.GPXTrackSegment{Points: make([]gpx.GPXPoint, 0, c)}
			for _, p := range t[i : i+c] {
				var pt gpx.GPXPoint
				pt.Latitude = p.Lat
				pt.Longitude = p.Lon
				seg.Points = append(seg.Points, pt)
			}
			i += c
			trk.Segments = append(trk.Segments, seg)
		}
		g.Tracks = append(g.Tracks, trk)
	}
	return g
}

// GpxBytes 轨迹序列化为 GPX 1.1
func GpxBytes(t pipeline.Track, name string, layout TrackLayout) ([]byte, error) {
	xmlBytes, err := TrackToGpx(t, name, layout).ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
	if err != nil {
		return nil, fmt.Errorf("error converting GPX to XML: %w", err)
	}
	return xmlBytes, nil
}

// SaveGpx 写出 GPX 文件
func SaveGpx(t pipeline.Track, name string, layout TrackLayout, path string) error {
	xmlBytes, err := GpxBytes(t, name, layout)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, xmlBytes, 0644); err != nil {
		return fmt.Errorf("error writing GPX file %s: %w", path, err)
	}
	return nil
}
