package Transformer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/GrainArc/TrackArt/pipeline"
	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func TestFeatureCollectionRoundTrip(t *testing.T) {
	track := sampleTrack()
	fc := TrackToFeatureCollection(track, map[string]interface{}{"name": "star"})
	data, err := fc.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}

	parsed, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		t.Fatal(err)
	}
	props := parsed.Features[0].Properties
	if props.MustString("name", "") != "star" {
		t.Errorf("name property = %v", props["name"])
	}
	if props.MustInt("points", 0) != len(track) {
		t.Errorf("points property = %v", props["points"])
	}
	if got := props.MustFloat64("length_m", 0); got <= 0 {
		t.Errorf("length_m = %v", got)
	}

	got, err := GeojsonToTrack(parsed)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(track, got, approx); diff != "" {
		t.Errorf("track mismatch (-want +got):\n%s", diff)
	}
}

func TestGeojsonToTrackMultiLineString(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(orb.Point{1, 2}))
	fc.Append(geojson.NewFeature(orb.MultiLineString{
		{{1, 2}, {3, 4}},
		{{5, 6}},
	}))
	got, err := GeojsonToTrack(fc)
	if err != nil {
		t.Fatal(err)
	}
	want := pipeline.Track{{Lat: 2, Lon: 1}, {Lat: 4, Lon: 3}, {Lat: 6, Lon: 5}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("track mismatch (-want +got):\n%s", diff)
	}

	empty := geojson.NewFeatureCollection()
	if _, err := GeojsonToTrack(empty); !errors.Is(err, ErrNoGeometry) {
		t.Errorf("got %v, want ErrNoGeometry", err)
	}
}

func TestWKBRoundTrip(t *testing.T) {
	track := sampleTrack()
	data, err := TrackToWKB(track)
	if err != nil {
		t.Fatal(err)
	}
	got, err := WKBToTrack(data)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(track, got); diff != "" {
		t.Errorf("track mismatch (-want +got):\n%s", diff)
	}

	if got, err := WKBToTrack(nil); err != nil || got != nil {
		t.Errorf("WKBToTrack(nil) = %v, %v", got, err)
	}
	if _, err := WKBToTrack([]byte{1, 2, 3}); err == nil {
		t.Error("expected decode error")
	}
}

func TestTrackToDXF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "art.dxf")
	if err := TrackToDXF(sampleTrack(), "", path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "LWPOLYLINE") {
		t.Error("dxf has no LWPOLYLINE entity")
	}
	if err := TrackToDXF(nil, "Track", path); !errors.Is(err, ErrNoGeometry) {
		t.Errorf("got %v, want ErrNoGeometry", err)
	}
}

func TestFindFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.svg", "a.SVG", "sub/c.svg", "d.gpx", "e.txt"} {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	got, err := FindFiles(dir, "svg", ".gpx")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "a.SVG"),
		filepath.Join(dir, "b.svg"),
		filepath.Join(dir, "d.gpx"),
		filepath.Join(dir, "sub", "c.svg"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
}
