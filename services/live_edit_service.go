package services

import (
	"fmt"
	"math"

	"github.com/GrainArc/TrackArt/Transformer"
	"github.com/GrainArc/TrackArt/models"
	"github.com/GrainArc/TrackArt/pipeline"
	"github.com/paulmach/orb/geojson"
)

// ActionComplete ends a live edit session.
const ActionComplete = "complete"

// ParseLiveEdit converts a WebSocket message into an Edit. Messages that do
// not carry the fields their action needs are rejected with ErrInvalidEdit.
func ParseLiveEdit(msg models.LiveEditMessage) (Edit, error) {
	value := func() (float64, error) {
		if msg.Value == nil || math.IsNaN(*msg.Value) || math.IsInf(*msg.Value, 0) {
			return 0, fmt.Errorf("%s needs a numeric value: %w", msg.Action, pipeline.ErrInvalidEdit)
		}
		return *msg.Value, nil
	}

	kind := EditKind(msg.Action)
	switch kind {
	case EditDrag:
		points, err := DragPoints(msg.Points, msg.GeoJSON)
		if err != nil {
			return Edit{}, err
		}
		return Edit{Kind: kind, Points: points}, nil
	case EditRotation, EditStretch, EditLength, EditSlider:
		v, err := value()
		if err != nil {
			return Edit{}, err
		}
		return Edit{Kind: kind, Value: v}, nil
	case EditRecenter, EditTranslate:
		if msg.Lat == nil || msg.Lon == nil {
			return Edit{}, fmt.Errorf("%s needs lat and lon: %w", msg.Action, pipeline.ErrInvalidEdit)
		}
		return Edit{Kind: kind, Lat: *msg.Lat, Lon: *msg.Lon}, nil
	case EditState:
		if msg.State == nil {
			return Edit{}, fmt.Errorf("state needs a state object: %w", pipeline.ErrInvalidEdit)
		}
		return Edit{Kind: kind, State: *msg.State}, nil
	case EditReset:
		return Edit{Kind: kind}, nil
	default:
		return Edit{}, fmt.Errorf("unknown action %q: %w", msg.Action, pipeline.ErrInvalidEdit)
	}
}

// DragPoints takes the dragged point set either as explicit points or as the
// dragged map layer.
func DragPoints(points pipeline.Track, fc *geojson.FeatureCollection) (pipeline.Track, error) {
	if len(points) > 0 {
		return points, nil
	}
	if fc != nil {
		track, err := Transformer.GeojsonToTrack(fc)
		if err != nil {
			return nil, fmt.Errorf("drag layer: %v: %w", err, pipeline.ErrInvalidEdit)
		}
		if len(track) > 0 {
			return track, nil
		}
	}
	return nil, fmt.Errorf("drag needs points: %w", pipeline.ErrInvalidEdit)
}

// TrackResponse 最终轨迹推送消息
func TrackResponse(kind string, s *ArtSession, message string) models.LiveEditResponse {
	sum := s.Summary(false)
	return models.LiveEditResponse{
		Type:    kind,
		Track:   featureCollection(s.Final(), sum),
		Summary: &sum,
		Message: message,
	}
}

func featureCollection(final pipeline.Track, sum models.SessionSummary) *geojson.FeatureCollection {
	return Transformer.TrackToFeatureCollection(final, map[string]interface{}{
		"name":       sum.Name,
		"session_id": sum.ID,
		"rotation":   sum.State.RotationDeg,
		"stretch":    sum.State.StretchPercent(),
	})
}
