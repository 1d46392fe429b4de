package pipeline

import "math"

// LengthSlider maps an integer slider position to a path length on a log
// scale: km = 10^(v/ExponentScale - 1).
type LengthSlider struct {
	ExponentScale float64
}

// DefaultLengthSlider spans 0.1 km to 100 km over [0, 3000].
var DefaultLengthSlider = LengthSlider{ExponentScale: 1000}

func (s LengthSlider) Max() int {
	return int(3 * s.ExponentScale)
}

// Clamp bounds a slider position to [0, Max()].
func (s LengthSlider) Clamp(v float64) int {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= float64(s.Max()) {
		return s.Max()
	}
	return int(v)
}

// ToKm 滑块值转公里，越界位置按端点处理
func (s LengthSlider) ToKm(v int) float64 {
	return math.Pow(10, float64(s.Clamp(float64(v)))/s.ExponentScale-1)
}

// FromKm 公里转滑块值，非正值返回 0
func (s LengthSlider) FromKm(km float64) int {
	if km <= 0 {
		return 0
	}
	return int((math.Log10(km) + 1) * s.ExponentScale)
}
