package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"path/filepath"

	"github.com/fogleman/gg"
)

var errEmptyTrack = errors.New("track has no GPS points")

type RenderOptions struct {
	Size       int     // canvas side in pixels
	LineWidth  float64 // track width in points
	DPI        float64
	Accent     color.Color
	Background color.Color
}

// linePixels converts the point-based line width to canvas pixels.
func (o RenderOptions) linePixels() float64 {
	return o.LineWidth * o.DPI / 72
}

// project maps a coordinate into canvas pixels. Latitude grows upwards, so y
// is flipped.
func project(c Coordinate, w BoundingWindow, size int) (float64, float64) {
	scale := float64(size) / (2 * w.HalfExtent)
	x := (c.Lon - w.MinLon()) * scale
	y := (w.MaxLat() - c.Lat) * scale
	return x, y
}

// renderTrack paints the track as one continuous line on a square canvas.
func renderTrack(track Track, window BoundingWindow, opts RenderOptions) (image.Image, error) {
	if track.Empty() {
		return nil, errEmptyTrack
	}
	if opts.Size <= 0 {
		return nil, fmt.Errorf("invalid render size %d", opts.Size)
	}

	dc := gg.NewContext(opts.Size, opts.Size)
	dc.SetColor(opts.Background)
	dc.Clear()

	dc.SetColor(opts.Accent)
	lineWidth := opts.linePixels()

	if len(track.Points) == 1 {
		// A lone fix has no segment to stroke.
		x, y := project(track.Points[0], window, opts.Size)
		dc.DrawCircle(x, y, lineWidth/2)
		dc.Fill()
		return dc.Image(), nil
	}

	dc.SetLineWidth(lineWidth)
	dc.SetLineCapRound()
	dc.SetLineJoinRound()
	for i, p := range track.Points {
		x, y := project(p, window, opts.Size)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.Stroke()

	return dc.Image(), nil
}

// renderTrackFile renders one track into dir. Files are named by input
// index since two inputs may share a name.
func renderTrackFile(track Track, opts RenderOptions, dir string, index int) (RenderedImage, error) {
	window, ok := windowFor(track.Points, mapMarginRatio)
	if !ok {
		return RenderedImage{}, errEmptyTrack
	}
	img, err := renderTrack(track, window, opts)
	if err != nil {
		return RenderedImage{}, err
	}

	path := filepath.Join(dir, fmt.Sprintf("%04d.png", index))
	if err := gg.SavePNG(path, img); err != nil {
		return RenderedImage{}, fmt.Errorf("failed to save track image: %w", err)
	}

	return RenderedImage{Path: path, Key: orderingKey(track.Name), Index: index}, nil
}
