package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/GrainArc/TrackArt/Transformer"
	"github.com/GrainArc/TrackArt/methods"
	"github.com/GrainArc/TrackArt/pipeline"
	"github.com/paulmach/orb/geojson"
)

// WriteTrack writes t to path in the format named by its extension:
// .gpx, .geojson/.json or .dxf.
func WriteTrack(t pipeline.Track, name, path string, layout Transformer.TrackLayout) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gpx":
		return Transformer.SaveGpx(t, name, layout, path)
	case ".geojson", ".json":
		data, err := Transformer.TrackToFeatureCollection(t, map[string]interface{}{"name": name}).MarshalJSON()
		if err != nil {
			return err
		}
		return os.WriteFile(path, data, 0644)
	case ".dxf":
		return Transformer.TrackToDXF(t, name, path)
	default:
		return fmt.Errorf("unsupported output format %q", filepath.Ext(path))
	}
}

type ExportService struct {
	workDir string
}

// NewExportService workDir 为打包临时目录，空值使用系统临时目录
func NewExportService(workDir string) *ExportService {
	return &ExportService{workDir: workDir}
}

// GeoJSON 最终轨迹要素集合
func (s *ExportService) GeoJSON(sess *ArtSession) *geojson.FeatureCollection {
	return featureCollection(sess.Final(), sess.Summary(false))
}

// Gpx 最终轨迹 GPX，返回内容与下载文件名
func (s *ExportService) Gpx(sess *ArtSession) ([]byte, string, error) {
	data, err := Transformer.GpxBytes(sess.Final(), sess.Name, sess.Layout)
	if err != nil {
		return nil, "", err
	}
	return data, methods.FileSlug(sess.Name) + ".gpx", nil
}

// Bundle 打包 gpx、geojson、dxf 三种格式
func (s *ExportService) Bundle(sess *ArtSession) ([]byte, string, error) {
	if s.workDir != "" {
		if err := os.MkdirAll(s.workDir, os.ModePerm); err != nil {
			return nil, "", err
		}
	}
	dir, err := os.MkdirTemp(s.workDir, "bundle-")
	if err != nil {
		return nil, "", err
	}
	defer os.RemoveAll(dir)

	slug := methods.FileSlug(sess.Name)
	final := sess.Final()
	var files []string
	for _, ext := range []string{".gpx", ".geojson", ".dxf"} {
		path := filepath.Join(dir, slug+ext)
		if err := WriteTrack(final, sess.Name, path, sess.Layout); err != nil {
			return nil, "", fmt.Errorf("bundle %s: %w", ext, err)
		}
		files = append(files, path)
	}

	data, err := methods.ZipFilesOut(files)
	if err != nil {
		return nil, "", err
	}
	return data, slug + ".zip", nil
}
