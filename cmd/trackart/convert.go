package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/GrainArc/TrackArt/config"
	"github.com/GrainArc/TrackArt/pipeline"
	"github.com/GrainArc/TrackArt/services"
	"github.com/spf13/cobra"
)

var (
	convertOut     string
	convertOpts    = services.ConvertOptions{Placement: services.PlacementFromConfig(config.DefaultConfig())}
	convertSliderV int
)

var convertCmd = &cobra.Command{
	Use:   "convert [file.svg]",
	Short: "Convert one SVG drawing into a GPX, GeoJSON or DXF track",
	Long: `Sample the SVG paths, place the drawing at --size meters around --lat/--lon,
optionally resize it to --length km, then stretch and rotate it. The output
format follows the extension of -o.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	f := convertCmd.Flags()
	f.StringVarP(&convertOut, "output", "o", "", "output file (.gpx, .geojson, .dxf); defaults to <input>.gpx")
	addPlacementFlags(convertCmd, &convertOpts)
	f.IntVar(&convertSliderV, "slider", -1, "length as a log slider position (0..3000), overrides --length")
	rootCmd.AddCommand(convertCmd)
}

// addPlacementFlags 放置与变换参数，convert 与 batch 共用
func addPlacementFlags(cmd *cobra.Command, opts *services.ConvertOptions) {
	f := cmd.Flags()
	f.Float64Var(&opts.Placement.SizeMeters, "size", opts.Placement.SizeMeters, "longest side of the drawing in meters")
	f.Float64Var(&opts.Placement.CenterLat, "lat", opts.Placement.CenterLat, "center latitude")
	f.Float64Var(&opts.Placement.CenterLon, "lon", opts.Placement.CenterLon, "center longitude")
	f.IntVar(&opts.Placement.Interpolation, "interpolation", opts.Placement.Interpolation, "points sampled per curve segment")
	f.Float64Var(&opts.LengthKm, "length", 0, "target path length in km (0 keeps the placed size)")
	f.Float64Var(&opts.RotationDeg, "rotate", 0, "rotation in degrees, clockwise positive")
	f.Float64Var(&opts.StretchPercent, "stretch", 100, "horizontal stretch in percent")
}

func runConvert(cmd *cobra.Command, args []string) error {
	in := args[0]
	out := convertOut
	if out == "" {
		out = strings.TrimSuffix(in, filepath.Ext(in)) + ".gpx"
	}
	opts := convertOpts
	if convertSliderV >= 0 {
		opts.LengthKm = pipeline.DefaultLengthSlider.ToKm(convertSliderV)
	}

	final, err := services.ConvertSvgFile(in, out, opts)
	if err != nil {
		return err
	}
	c, _ := pipeline.Centroid(final)
	fmt.Printf("Wrote %s\n", out)
	fmt.Printf("  Points: %d\n", len(final))
	fmt.Printf("  Length: %.3f km\n", pipeline.GeodesicLength(final)/1000)
	fmt.Printf("  Center: %.6f, %.6f\n", c.Lat, c.Lon)
	return nil
}
