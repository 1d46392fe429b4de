// models/track.go
package models

import (
	"github.com/GrainArc/TrackArt/pipeline"
	"github.com/paulmach/orb/geojson"
)

// SessionSummary 编辑会话的当前状态
type SessionSummary struct {
	ID         string                  `json:"id"`
	Name       string                  `json:"name"`
	Source     string                  `json:"source"`
	ProjectID  uint                    `json:"project_id,omitempty"`
	State      pipeline.TransformState `json:"state"`
	LengthKm   float64                 `json:"length_km"`
	Slider     int                     `json:"slider"`
	Centroid   *pipeline.TrackPoint    `json:"centroid,omitempty"`
	Points     int                     `json:"points"`
	Degenerate bool                    `json:"degenerate"`
	Final      pipeline.Track          `json:"final,omitempty"`
}

type LengthRequest struct {
	LengthKm *float64 `json:"length_km"`
	Slider   *int     `json:"slider"`
}

type RotationRequest struct {
	Degrees *float64 `json:"degrees" binding:"required"`
}

type StretchRequest struct {
	Percent *float64 `json:"percent" binding:"required"`
}

type RecenterRequest struct {
	Lat *float64 `json:"lat" binding:"required"`
	Lon *float64 `json:"lon" binding:"required"`
}

type TranslateRequest struct {
	DLat float64 `json:"d_lat"`
	DLon float64 `json:"d_lon"`
}

// DragRequest 地图拖拽后的点集
type DragRequest struct {
	Points  pipeline.Track             `json:"points"`
	GeoJSON *geojson.FeatureCollection `json:"geojson,omitempty"` // 拖拽后的图层，points 为空时使用
}

// LiveEditMessage WebSocket 客户端消息
type LiveEditMessage struct {
	Action  string                     `json:"action"` // drag, rotation, stretch, length, slider, recenter, translate, state, reset, complete
	Value   *float64                   `json:"value,omitempty"`
	Lat     *float64                   `json:"lat,omitempty"`
	Lon     *float64                   `json:"lon,omitempty"`
	Points  pipeline.Track             `json:"points,omitempty"`
	GeoJSON *geojson.FeatureCollection `json:"geojson,omitempty"`
	State   *pipeline.TransformState   `json:"state,omitempty"`
}

// LiveEditResponse WebSocket 服务端消息
type LiveEditResponse struct {
	Type    string                     `json:"type"`              // "init", "track", "error" 或 "complete"
	Track   *geojson.FeatureCollection `json:"track,omitempty"`   // 最终轨迹
	Summary *SessionSummary            `json:"summary,omitempty"` // 会话状态
	Message string                     `json:"message,omitempty"`
}
