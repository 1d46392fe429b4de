package pipeline

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRotateAndStretchIdentity(t *testing.T) {
	track := Track{{Lat: 54.9, Lon: 23.9}, {Lat: 54.91, Lon: 23.93}, {Lat: 54.89, Lon: 23.95}}
	got := RotateAndStretch(track, 0, 1.0)
	if diff := cmp.Diff(track, got, approx); diff != "" {
		t.Errorf("identity transform changed the track:\n%s", diff)
	}
}

func TestRotateHorizontalToVertical(t *testing.T) {
	track := Track{{Lat: 54.9, Lon: 23.899}, {Lat: 54.9, Lon: 23.901}}
	got := RotateAndStretch(track, 90, 1.0)
	for _, p := range got {
		if math.Abs(p.Lon-23.9) > 1e-9 {
			t.Errorf("longitude %v, want 23.9", p.Lon)
		}
	}
	if math.Abs((got[0].Lat-54.9)+(got[1].Lat-54.9)) > 1e-9 {
		t.Errorf("latitudes not symmetric about 54.9: %v", got)
	}
	if math.Abs(math.Abs(got[0].Lat-got[1].Lat)-0.002) > 1e-9 {
		t.Errorf("length not preserved: %v", got)
	}
	// clockwise on a map: the eastern end moves south
	if got[1].Lat >= 54.9 {
		t.Errorf("expected clockwise rotation, east end went to %v", got[1])
	}
}

func TestStretchBeforeRotation(t *testing.T) {
	track := Track{{Lat: 0, Lon: -1}, {Lat: 0, Lon: 1}, {Lat: 1, Lon: 0}, {Lat: -1, Lon: 0}}
	got := RotateAndStretch(track, 90, 2)
	// stretched east-west to ±2 first, then turned to north-south
	want := Track{{Lat: 2, Lon: 0}, {Lat: -2, Lon: 0}, {Lat: 0, Lon: 1}, {Lat: 0, Lon: -1}}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("unexpected result (-want +got):\n%s", diff)
	}
}

func TestRotateAndStretchKeepsCentroid(t *testing.T) {
	track := Track{{Lat: 10, Lon: 10}, {Lat: 10.2, Lon: 10.1}, {Lat: 9.9, Lon: 10.3}, {Lat: 10.05, Lon: 9.8}}
	before, _ := Centroid(track)
	for _, deg := range []float64{-180, -45, 17, 90, 180} {
		for _, scale := range []float64{0.25, 1, 4} {
			after, _ := Centroid(RotateAndStretch(track, deg, scale))
			if math.Abs(after.Lat-before.Lat) > 1e-9 || math.Abs(after.Lon-before.Lon) > 1e-9 {
				t.Errorf("deg %v scale %v: centroid moved %v -> %v", deg, scale, before, after)
			}
		}
	}
}

func TestRotateAndStretchEmpty(t *testing.T) {
	if got := RotateAndStretch(nil, 45, 2); len(got) != 0 {
		t.Errorf("expected empty, got %v", got)
	}
}
