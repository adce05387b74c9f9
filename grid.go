package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

const jpegQuality = 95

var (
	errNoImages         = errors.New("no images to compose")
	errCellSizeMismatch = errors.New("image size differs from the first image")

	trailingDigits = regexp.MustCompile(`(\d+)$`)
)

// RenderedImage is a per-track bitmap waiting on disk to be pasted into the
// grid. Key orders the grid; Index is the input position.
type RenderedImage struct {
	Path  string
	Key   int64
	Index int
}

// orderingKey is the number a source name ends with, e.g. the ride id in
// "ride_12345". Names without one, or with one too large to parse, sort as 0.
func orderingKey(name string) int64 {
	m := trailingDigits.FindString(name)
	if m == "" {
		return 0
	}
	key, err := strconv.ParseInt(m, 10, 64)
	if err != nil {
		return 0
	}
	return key
}

// sortRenderedImages orders by key. Keys are only a hint and may repeat, so
// equal keys keep their input order.
func sortRenderedImages(images []RenderedImage) []RenderedImage {
	sorted := make([]RenderedImage, len(images))
	copy(sorted, images)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Key < sorted[j].Key
	})
	return sorted
}

// --- Layout ---

type GridOptions struct {
	Margin      int
	Columns     int
	TargetWidth int
	Background  color.Color
}

type GridLayout struct {
	Columns, Rows         int
	Margin                int
	CellWidth, CellHeight int
}

func newGridLayout(count, columns, margin, cellWidth, cellHeight int) (GridLayout, error) {
	if count <= 0 {
		return GridLayout{}, errNoImages
	}
	if columns <= 0 {
		return GridLayout{}, fmt.Errorf("invalid column count %d", columns)
	}
	if margin < 0 {
		return GridLayout{}, fmt.Errorf("invalid margin %d", margin)
	}
	if cellWidth <= 0 || cellHeight <= 0 {
		return GridLayout{}, fmt.Errorf("invalid cell size %dx%d", cellWidth, cellHeight)
	}
	return GridLayout{
		Columns:    columns,
		Rows:       (count + columns - 1) / columns,
		Margin:     margin,
		CellWidth:  cellWidth,
		CellHeight: cellHeight,
	}, nil
}

func (l GridLayout) CanvasSize() (int, int) {
	w := l.CellWidth*l.Columns + l.Margin*(l.Columns+1)
	h := l.CellHeight*l.Rows + l.Margin*(l.Rows+1)
	return w, h
}

// CellOrigin is the top-left pixel of cell i, filled row by row.
func (l GridLayout) CellOrigin(i int) image.Point {
	row := i / l.Columns
	col := i % l.Columns
	return image.Point{
		X: l.Margin + col*(l.CellWidth+l.Margin),
		Y: l.Margin + row*(l.CellHeight+l.Margin),
	}
}

func (l GridLayout) CellRect(i int) image.Rectangle {
	return image.Rectangle{Min: l.CellOrigin(i), Max: l.CellOrigin(i).Add(image.Pt(l.CellWidth, l.CellHeight))}
}

// GridSize is reported as "<rows>x<cols>".
func (l GridLayout) GridSize() string {
	return fmt.Sprintf("%dx%d", l.Rows, l.Columns)
}

// --- Composition ---

func decodeImageConfig(path string) (image.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, err
	}
	defer f.Close()
	return png.DecodeConfig(f)
}

// probeCellSize checks every image against the first one before anything is
// drawn, so a stray size fails the run instead of corrupting the mosaic.
func probeCellSize(images []RenderedImage) (image.Point, error) {
	if len(images) == 0 {
		return image.Point{}, errNoImages
	}
	var cell image.Point
	for i, img := range images {
		cfg, err := decodeImageConfig(img.Path)
		if err != nil {
			return image.Point{}, fmt.Errorf("failed to read %s: %w", filepath.Base(img.Path), err)
		}
		size := image.Pt(cfg.Width, cfg.Height)
		if i == 0 {
			cell = size
			continue
		}
		if size != cell {
			return image.Point{}, fmt.Errorf("%w: %s is %dx%d, expected %dx%d",
				errCellSizeMismatch, filepath.Base(img.Path), size.X, size.Y, cell.X, cell.Y)
		}
	}
	return cell, nil
}

func pasteImage(canvas draw.Image, path string, at image.Point) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	b := img.Bounds()
	draw.Draw(canvas, image.Rectangle{Min: at, Max: at.Add(b.Size())}, img, b.Min, draw.Src)
	return nil
}

// scaledHeight keeps the aspect ratio, rounded to the nearest pixel.
func scaledHeight(width, height, targetWidth int) int {
	h := int(math.Round(float64(height) * float64(targetWidth) / float64(width)))
	if h < 1 {
		h = 1
	}
	return h
}

func scaleToWidth(src image.Image, targetWidth int) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, targetWidth, scaledHeight(b.Dx(), b.Dy(), targetWidth)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// composeGrid pastes the images into a margin-separated grid, ordered by key,
// and scales the result to opts.TargetWidth.
func composeGrid(images []RenderedImage, opts GridOptions) (image.Image, GridLayout, error) {
	if len(images) == 0 {
		return nil, GridLayout{}, errNoImages
	}
	if opts.TargetWidth <= 0 {
		return nil, GridLayout{}, fmt.Errorf("invalid target width %d", opts.TargetWidth)
	}
	sorted := sortRenderedImages(images)

	cell, err := probeCellSize(sorted)
	if err != nil {
		return nil, GridLayout{}, err
	}
	layout, err := newGridLayout(len(sorted), opts.Columns, opts.Margin, cell.X, cell.Y)
	if err != nil {
		return nil, GridLayout{}, err
	}

	w, h := layout.CanvasSize()
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	for i, img := range sorted {
		if err := pasteImage(canvas, img.Path, layout.CellOrigin(i)); err != nil {
			return nil, GridLayout{}, err
		}
	}

	return scaleToWidth(canvas, opts.TargetWidth), layout, nil
}

// --- Output ---

func encoderFor(path string) func(io.Writer, image.Image) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return func(w io.Writer, img image.Image) error {
			return jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
		}
	case ".tif", ".tiff":
		return func(w io.Writer, img image.Image) error {
			return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
		}
	default:
		return png.Encode
	}
}

// writeImage encodes img by the extension of path. The file only appears
// once fully written.
func writeImage(path string, img image.Image) error {
	encode := encoderFor(path)
	return writeFileAtomic(path, func(w io.Writer) error {
		return encode(w, img)
	})
}
