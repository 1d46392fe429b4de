package Transformer

import (
	"fmt"

	"github.com/GrainArc/TrackArt/pipeline"
	"github.com/paulmach/orb/project"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/entity"
)

// TrackToDXF writes the track as a single LwPolyline in Web Mercator meters.
func TrackToDXF(t pipeline.Track, layerName string, outputFilename string) error {
	if len(t) == 0 {
		return ErrNoGeometry
	}
	if layerName == "" {
		layerName = "Track"
	}

	d := dxf.NewDrawing()
	d.Header().LtScale = 1.0
	d.AddLayer(layerName, color.Red, dxf.DefaultLineType, true)
	d.ChangeLayer(layerName)

	ls := project.LineString(t.LineString(), project.WGS84.ToMercator)
	lwp := entity.NewLwPolyline(len(ls))
	for j, pt := range ls {
		lwp.Vertices[j] = []float64{pt[0], pt[1]}
	}
	d.AddEntity(lwp)

	if err := d.SaveAs(outputFilename); err != nil {
		return fmt.Errorf("save dxf %s: %w", outputFilename, err)
	}
	return nil
}
