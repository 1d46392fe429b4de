package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/GrainArc/TrackArt/config"
	"github.com/GrainArc/TrackArt/methods"
	"github.com/GrainArc/TrackArt/services"
	"github.com/spf13/cobra"
)

var (
	batchOut     string
	batchFormat  string
	batchWorkers int
	batchClean   bool
	batchOpts    = services.ConvertOptions{Placement: services.PlacementFromConfig(config.DefaultConfig())}
)

var batchCmd = &cobra.Command{
	Use:   "batch [dir|archive.zip]",
	Short: "Convert every SVG in a directory tree or zip archive",
	Args:  cobra.ExactArgs(1),
	RunE:  runBatch,
}

func init() {
	f := batchCmd.Flags()
	f.StringVarP(&batchOut, "output", "o", "out", "output directory")
	f.StringVarP(&batchFormat, "format", "f", "gpx", "output format: gpx, geojson or dxf")
	f.IntVarP(&batchWorkers, "workers", "w", 4, "concurrent conversions")
	f.BoolVar(&batchClean, "clean", false, "empty the output directory first")
	addPlacementFlags(batchCmd, &batchOpts)
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	in := args[0]
	ext := strings.ToLower(filepath.Ext(in))
	if ext == ".zip" || ext == ".rar" {
		dir, err := methods.Unzip(in)
		if err != nil {
			return err
		}
		defer os.RemoveAll(dir)
		in = dir
	}

	if batchClean {
		if err := methods.DeleteFiles(batchOut); err != nil && !errors.Is(err, os.ErrNotExist) {
			config.Log.Warnf("clean %s: %v", batchOut, err)
		}
	}

	results, err := services.ConvertBatch(cmd.Context(), in, batchOut, batchFormat, batchOpts, batchWorkers)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Printf("  FAIL %s: %v\n", r.Source, r.Err)
			continue
		}
		fmt.Printf("  %s -> %s (%.3f km)\n", r.Source, r.Output, r.LengthKm)
	}
	fmt.Printf("Converted %d of %d files\n", len(results)-failed, len(results))
	if failed > 0 {
		return fmt.Errorf("%d conversions failed", failed)
	}
	return nil
}
