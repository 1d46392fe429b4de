package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/GrainArc/TrackArt/Transformer"
	"github.com/GrainArc/TrackArt/config"
	"github.com/GrainArc/TrackArt/methods"
	"github.com/GrainArc/TrackArt/pipeline"
	"golang.org/x/sync/errgroup"
)

// ConvertOptions 命令行转换参数
type ConvertOptions struct {
	Placement      Placement
	LengthKm       float64 // <= 0 keeps the placed size
	RotationDeg    float64
	StretchPercent float64 // 0 means 100
}

// ConvertSvgFile runs the full pipeline on one SVG file and writes the final
// track to out.
func ConvertSvgFile(in, out string, opts ConvertOptions) (pipeline.Track, error) {
	segs, err := Transformer.ParseSvgFile(in)
	if err != nil {
		return nil, err
	}
	track, err := PlaceSvg(segs, opts.Placement)
	if err != nil {
		return nil, err
	}

	e := pipeline.NewEditor(track)
	if opts.LengthKm > 0 {
		e.ResizeToLength(opts.LengthKm)
	}
	if opts.StretchPercent != 0 {
		e.SetStretchPercent(opts.StretchPercent)
	}
	e.SetRotation(opts.RotationDeg)

	final := e.Final()
	name := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	if err := WriteTrack(final, name, out, nil); err != nil {
		return nil, err
	}
	return final, nil
}

// BatchResult 单个文件的转换结果
type BatchResult struct {
	Source   string
	Output   string
	LengthKm float64
	Err      error
}

// ConvertBatch converts every SVG under inDir into outDir with the given
// extension. Failures are reported per file; only cancellation aborts.
func ConvertBatch(ctx context.Context, inDir, outDir, ext string, opts ConvertOptions, workers int) ([]BatchResult, error) {
	files, err := Transformer.FindFiles(inDir, "svg")
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outDir, os.ModePerm); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = 4
	}
	ext = "." + strings.TrimPrefix(ext, ".")

	results := make([]BatchResult, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rel, err := filepath.Rel(inDir, file)
			if err != nil {
				rel = filepath.Base(file)
			}
			rel = strings.TrimSuffix(rel, filepath.Ext(rel))
			out := filepath.Join(outDir, methods.FileSlug(strings.ReplaceAll(rel, string(filepath.Separator), "_"))+ext)

			res := BatchResult{Source: file, Output: out}
			final, err := ConvertSvgFile(file, out, opts)
			if err != nil {
				config.Log.Warnf("convert %s: %v", file, err)
				res.Err = err
			} else {
				res.LengthKm = pipeline.GeodesicLength(final) / 1000
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
