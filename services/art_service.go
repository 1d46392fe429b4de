package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/GrainArc/TrackArt/Transformer"
	"github.com/GrainArc/TrackArt/config"
	"github.com/GrainArc/TrackArt/methods"
	"github.com/GrainArc/TrackArt/models"
	"github.com/GrainArc/TrackArt/pipeline"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrNoDatabase      = errors.New("database not configured")
)

// Placement SVG 放置参数：目标尺寸（米）、中心点、每段曲线采样点数
type Placement struct {
	SizeMeters    float64
	CenterLat     float64
	CenterLon     float64
	Interpolation int
}

// PlacementFromConfig 从配置读取默认放置参数
func PlacementFromConfig(cfg config.Config) Placement {
	return Placement{
		SizeMeters:    cfg.TargetSize,
		CenterLat:     cfg.CenterLat,
		CenterLon:     cfg.CenterLon,
		Interpolation: cfg.Interpolation,
	}
}

// PlaceSvg samples segments and places the result on the map at p.
func PlaceSvg(segs []pipeline.PathSegment, p Placement) (pipeline.Track, error) {
	n := p.Interpolation
	if n <= 0 {
		n = pipeline.DefaultInterpolationPoints
	}
	track := pipeline.SampleSegmentsToTrack(segs, n)
	return pipeline.PlaceOnMap(track, p.SizeMeters, p.CenterLat, p.CenterLon)
}

type ArtService struct {
	sessions  *SessionCache
	db        *gorm.DB
	placement Placement
}

// NewArtService db 可以为 nil，此时保存/打开作品不可用
func NewArtService(sessions *SessionCache, db *gorm.DB, placement Placement) *ArtService {
	return &ArtService{
		sessions:  sessions,
		db:        db,
		placement: placement,
	}
}

// DefaultPlacement 服务默认放置参数
func (s *ArtService) DefaultPlacement() Placement {
	return s.placement
}

// CreateFromSvg 解析 SVG、采样并放置到地图，创建新会话
func (s *ArtService) CreateFromSvg(name string, data []byte, p Placement) (*ArtSession, error) {
	segs, err := Transformer.ParseSvg(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	track, err := PlaceSvg(segs, p)
	if err != nil {
		return nil, err
	}

	sess := newArtSession(name, SourceSvg, methods.Md5Bytes(data), pipeline.NewEditor(track))
	s.sessions.Put(sess)
	config.Log.Infof("session %s created from svg %q: %d segments, %d points", sess.ID, name, len(segs), len(track))
	return sess, nil
}

// CreateFromGpx 读取 GPX 轨迹创建新会话
func (s *ArtService) CreateFromGpx(name string, data []byte) (*ArtSession, error) {
	track, layout, err := Transformer.ParseGpx(data)
	if err != nil {
		return nil, err
	}

	sess := newArtSession(name, SourceGpx, methods.Md5Bytes(data), pipeline.NewEditor(track))
	sess.Layout = layout
	s.sessions.Put(sess)
	config.Log.Infof("session %s created from gpx %q: %d points", sess.ID, name, len(track))
	return sess, nil
}

// Session 获取会话
func (s *ArtService) Session(id string) (*ArtSession, error) {
	sess, ok := s.sessions.Get(id)
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrSessionNotFound)
	}
	return sess, nil
}

// ApplyEdit 对会话执行一次编辑
func (s *ArtService) ApplyEdit(id string, edit Edit) (models.SessionSummary, error) {
	sess, err := s.Session(id)
	if err != nil {
		return models.SessionSummary{}, err
	}
	sum, err := sess.Edit(edit.Apply)
	if err != nil {
		config.Log.Warnf("session %s: %s edit discarded: %v", id, edit.Kind, err)
		return sum, err
	}
	config.Log.Debugf("session %s: %s applied, length %.3f km", id, edit.Kind, sum.LengthKm)
	return sum, nil
}

// Close 关闭会话
func (s *ArtService) Close(id string) error {
	if !s.sessions.Delete(id) {
		return fmt.Errorf("%s: %w", id, ErrSessionNotFound)
	}
	config.Log.Infof("session %s closed", id)
	return nil
}

// Save 保存会话为作品；已保存过的会话更新原记录
func (s *ArtService) Save(id string) (*models.ArtProject, error) {
	if s.db == nil {
		return nil, ErrNoDatabase
	}
	sess, err := s.Session(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	var project models.ArtProject
	if sess.projectID != 0 {
		if err := s.db.First(&project, sess.projectID).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("load project %d: %w", sess.projectID, err)
		}
	}
	if err := fillProject(&project, sess); err != nil {
		return nil, err
	}
	if err := s.db.Save(&project).Error; err != nil {
		return nil, fmt.Errorf("save project: %w", err)
	}
	sess.projectID = project.ID
	config.Log.Infof("session %s saved as project %d", id, project.ID)
	return &project, nil
}

func fillProject(project *models.ArtProject, sess *ArtSession) error {
	e := sess.editor
	var err error
	if project.Original, err = Transformer.TrackToWKB(e.Original()); err != nil {
		return err
	}
	if project.Working, err = Transformer.TrackToWKB(e.Working()); err != nil {
		return err
	}
	final := e.Final()
	if project.Final, err = Transformer.TrackToWKB(final); err != nil {
		return err
	}
	state, err := json.Marshal(e.State())
	if err != nil {
		return err
	}
	layout, err := json.Marshal(sess.Layout)
	if err != nil {
		return err
	}
	project.Name = sess.Name
	project.Source = sess.Source
	project.ContentHash = sess.ContentHash
	project.State = datatypes.JSON(state)
	project.Layout = datatypes.JSON(layout)
	project.LengthKm = pipeline.GeodesicLength(final) / 1000
	project.PointCount = len(final)
	return nil
}

// ListProjects 分页获取作品列表（不包含快照数据）
func (s *ArtService) ListProjects(page, pageSize int) ([]models.ProjectListItem, int64, error) {
	if s.db == nil {
		return nil, 0, ErrNoDatabase
	}
	var projects []models.ArtProject
	var total int64

	if err := s.db.Model(&models.ArtProject{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := s.db.Select("id, name, source, length_km, point_count, updated_at").
		Order("id DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	items := make([]models.ProjectListItem, len(projects))
	for i, p := range projects {
		items[i] = models.ProjectListItem{
			ID:         p.ID,
			Name:       p.Name,
			Source:     p.Source,
			LengthKm:   p.LengthKm,
			PointCount: p.PointCount,
			UpdatedAt:  p.UpdatedAt,
		}
	}
	return items, total, nil
}

// OpenProject 从保存的作品恢复一个新会话
func (s *ArtService) OpenProject(id uint) (*ArtSession, error) {
	if s.db == nil {
		return nil, ErrNoDatabase
	}
	var project models.ArtProject
	if err := s.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%d: %w", id, ErrProjectNotFound)
		}
		return nil, err
	}

	original, err := Transformer.WKBToTrack(project.Original)
	if err != nil {
		return nil, err
	}
	working, err := Transformer.WKBToTrack(project.Working)
	if err != nil {
		return nil, err
	}
	state := pipeline.DefaultTransformState()
	if len(project.State) > 0 {
		if err := json.Unmarshal(project.State, &state); err != nil {
			return nil, fmt.Errorf("decode state of project %d: %w", id, err)
		}
	}
	var layout Transformer.TrackLayout
	if len(project.Layout) > 0 {
		if err := json.Unmarshal(project.Layout, &layout); err != nil {
			return nil, fmt.Errorf("decode layout of project %d: %w", id, err)
		}
	}

	sess := newArtSession(project.Name, project.Source, project.ContentHash, pipeline.RestoreEditor(original, working, state))
	sess.Layout = layout
	sess.projectID = project.ID
	s.sessions.Put(sess)
	config.Log.Infof("project %d opened as session %s", id, sess.ID)
	return sess, nil
}

// DeleteProject 删除作品
func (s *ArtService) DeleteProject(id uint) error {
	if s.db == nil {
		return ErrNoDatabase
	}
	result := s.db.Delete(&models.ArtProject{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%d: %w", id, ErrProjectNotFound)
	}
	return nil
}
