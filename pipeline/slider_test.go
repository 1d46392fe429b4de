package pipeline

import (
	"math"
	"testing"
)

func TestLengthSlider(t *testing.T) {
	s := DefaultLengthSlider
	cases := []struct {
		value int
		km    float64
	}{
		{0, 0.1},
		{1000, 1},
		{2000, 10},
		{3000, 100},
	}
	for _, c := range cases {
		if got := s.ToKm(c.value); math.Abs(got-c.km) > 1e-9 {
			t.Errorf("ToKm(%d) = %v, want %v", c.value, got, c.km)
		}
	}
	if s.Max() != 3000 {
		t.Errorf("Max() = %d", s.Max())
	}
	if got := s.FromKm(10); got != 2000 {
		t.Errorf("FromKm(10) = %d", got)
	}
	if got := s.FromKm(0); got != 0 {
		t.Errorf("FromKm(0) = %d", got)
	}
	for v := 0; v <= s.Max(); v += 137 {
		back := s.FromKm(s.ToKm(v))
		if back < v-1 || back > v {
			t.Errorf("round trip %d -> %d", v, back)
		}
	}
}

func TestLengthSliderClampsPositions(t *testing.T) {
	s := DefaultLengthSlider
	cases := []struct {
		in   float64
		want int
	}{
		{-5, 0},
		{math.NaN(), 0},
		{1500.7, 1500},
		{3000, 3000},
		{400000, 3000},
		{math.Inf(1), 3000},
	}
	for _, c := range cases {
		if got := s.Clamp(c.in); got != c.want {
			t.Errorf("Clamp(%v) = %d, want %d", c.in, got, c.want)
		}
	}
	if got := s.ToKm(400000); math.Abs(got-100) > 1e-9 {
		t.Errorf("ToKm(400000) = %v, want 100", got)
	}
	if got := s.ToKm(-10); math.Abs(got-0.1) > 1e-9 {
		t.Errorf("ToKm(-10) = %v, want 0.1", got)
	}
}
