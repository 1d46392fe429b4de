package Transformer

import (
	"fmt"

	"github.com/GrainArc/TrackArt/pipeline"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	"github.com/paulmach/orb/geojson"
)

// TrackToFeature 轨迹转为 LineString 要素，附带长度与点数
func TrackToFeature(t pipeline.Track) *geojson.Feature {
	feature := geojson.NewFeature(t.LineString())
	feature.Properties["length_m"] = pipeline.GeodesicLength(t)
	feature.Properties["points"] = len(t)
	return feature
}

// TrackToFeatureCollection wraps the track feature; extra properties are
// copied onto it.
func TrackToFeatureCollection(t pipeline.Track, extra map[string]interface{}) *geojson.FeatureCollection {
	feature := TrackToFeature(t)
	for k, v := range extra {
		feature.Properties[k] = v
	}
	fc := geojson.NewFeatureCollection()
	fc.Append(feature)
	return fc
}

// GeojsonToTrack takes the first LineString or MultiLineString feature.
// MultiLineString parts are concatenated in order.
func GeojsonToTrack(fc *geojson.FeatureCollection) (pipeline.Track, error) {
	if fc == nil {
		return nil, ErrNoGeometry
	}
	for _, feature := range fc.Features {
		if feature == nil || feature.Geometry == nil {
			continue
		}
		switch geom := feature.Geometry.(type) {
		case orb.LineString:
			return pipeline.FromLineString(geom), nil
		case orb.MultiLineString:
			var t pipeline.Track
			for _, ls := range geom {
				t = append(t, pipeline.FromLineString(ls)...)
			}
			return t, nil
		}
	}
	return nil, ErrNoGeometry
}

// TrackToWKB 轨迹编码为 WKB
func TrackToWKB(t pipeline.Track) ([]byte, error) {
	data, err := wkb.Marshal(t.LineString())
	if err != nil {
		return nil, fmt.Errorf("encode wkb: %w", err)
	}
	return data, nil
}

// WKBToTrack 从 WKB 解码轨迹
func WKBToTrack(data []byte) (pipeline.Track, error) {
	if len(data) == 0 {
		return nil, nil
	}
	geom, err := wkb.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("decode wkb: %w", err)
	}
	ls, ok := geom.(orb.LineString)
	if !ok {
		return nil, fmt.Errorf("decode wkb: unexpected geometry %s", geom.GeoJSONType())
	}
	return pipeline.FromLineString(ls), nil
}
