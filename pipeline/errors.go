package pipeline

import "errors"

var (
	// ErrEmptyTrack 轨迹没有任何点
	ErrEmptyTrack = errors.New("track has no points")
	// ErrDegenerateTrack 轨迹包围盒或长度为零，无法缩放
	ErrDegenerateTrack = errors.New("track has zero extent")
	// ErrNearPole 平均纬度过于接近极点，经度校正发散
	ErrNearPole = errors.New("track average latitude too close to a pole")
	// ErrInvalidEdit 外部编辑结果无法使用
	ErrInvalidEdit = errors.New("invalid edit")
)
