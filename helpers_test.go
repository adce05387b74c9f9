package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestProgress() (*Progress, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewProgress(&buf, false), &buf
}

// circleTrack returns n fixes on a small loop around Bilbao.
func circleTrack(name string, n int) Track {
	points := make([]Coordinate, n)
	for i := range points {
		a := 2 * math.Pi * float64(i) / float64(n)
		points[i] = Coordinate{Lat: 43.26 + 0.01*math.Sin(a), Lon: -2.93 + 0.02*math.Cos(a)}
	}
	return Track{Name: name, Points: points}
}

func writeSolidPNG(t *testing.T, dir, name string, w, h int, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func decodeFile(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, _, err := image.Decode(f)
	require.NoError(t, err)
	return img
}

func rgbaAt(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}
