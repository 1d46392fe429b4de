package models

import (
	"gorm.io/datatypes"
)

// ArtProject 保存的轨迹作品，三份快照以 WKB 存储
type ArtProject struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"index;not null" json:"name"`
	Source      string `gorm:"not null" json:"source"`
	ContentHash string `gorm:"index" json:"content_hash"`

	Original []byte `json:"-"`
	Working  []byte `json:"-"`
	Final    []byte `json:"-"`

	State  datatypes.JSON `json:"state"`
	Layout datatypes.JSON `json:"layout"`

	LengthKm   float64 `json:"length_km"`
	PointCount int     `json:"point_count"`

	CreatedAt int64 `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt int64 `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ArtProject) TableName() string {
	return "art_projects"
}

// ProjectListItem 列表项（不包含快照数据）
type ProjectListItem struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	Source     string  `json:"source"`
	LengthKm   float64 `json:"length_km"`
	PointCount int     `json:"point_count"`
	UpdatedAt  int64   `json:"updated_at"`
}
