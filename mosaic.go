package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

type MosaicConfig struct {
	Files      []string
	OutputPath string
	Render     RenderOptions
	Grid       GridOptions
}

// runMosaic renders each input to its own bitmap in a run-scoped temp dir,
// then composes them into one grid image at cfg.OutputPath.
func runMosaic(cfg MosaicConfig, reader TrackReader, progress *Progress) Result {
	progress.Info(fmt.Sprintf("starting mosaic generation, %d activity files", len(cfg.Files)))

	tempDir, err := os.MkdirTemp("", "ridemap-*")
	if err != nil {
		return failure(fmt.Errorf("failed to create temp dir: %w", err))
	}
	defer os.RemoveAll(tempDir)

	images, items := renderTracks(cfg, reader, tempDir, progress)
	var skipped []string
	for _, item := range items {
		if !item.OK() {
			skipped = append(skipped, filepath.Base(item.Path))
		}
	}
	if len(skipped) > 0 {
		logger := progress.Logger()
		logger.Info().Strs("files", skipped).
			Msg(fmt.Sprintf("skipped %d activities without renderable GPS data", len(skipped)))
	}
	progress.Info(fmt.Sprintf("rendered %d track images", len(images)))

	if len(images) == 0 {
		return failure(errNoTracks)
	}

	progress.Info("composing mosaic ...")
	img, layout, err := composeGrid(images, cfg.Grid)
	if err != nil {
		return failure(fmt.Errorf("failed to compose mosaic: %w", err))
	}
	if err := writeImage(cfg.OutputPath, img); err != nil {
		return failure(fmt.Errorf("failed to save mosaic: %w", err))
	}

	return Result{
		Success:     true,
		TotalTracks: len(images),
		GridSize:    layout.GridSize(),
		OutputPath:  cfg.OutputPath,
	}
}

// renderTracks handles one input at a time; a bad input only costs itself.
func renderTracks(cfg MosaicConfig, reader TrackReader, dir string, progress *Progress) ([]RenderedImage, []itemResult) {
	var images []RenderedImage
	items := make([]itemResult, 0, len(cfg.Files))

	progress.StartItems(len(cfg.Files), "Rendering tracks")
	defer progress.FinishItems()

	for i, path := range cfg.Files {
		progress.Item(i+1, len(cfg.Files), path)

		track := loadTrack(reader, path, progress)
		img, err := renderTrackFile(track, cfg.Render, dir, i)
		items = append(items, itemResult{Path: path, Err: err})
		if err != nil {
			if !errors.Is(err, errEmptyTrack) {
				progress.Warn(fmt.Sprintf("failed to render %s", filepath.Base(path)), err)
			}
			continue
		}
		images = append(images, img)
	}
	return images, items
}
