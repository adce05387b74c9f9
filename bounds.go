package main

import (
	"math"

	"github.com/paulmach/orb"
)

const (
	mapMarginRatio = 0.1
	// minWindowSpan floors the window of a track that has no extent (a single
	// fix, or a device that never moved) so the viewport cannot collapse.
	// 0.001° is roughly 110 m of latitude.
	minWindowSpan = 0.001
)

// BoundingWindow is a square region in degree space.
type BoundingWindow struct {
	CenterLat, CenterLon float64
	HalfExtent           float64
}

func (w BoundingWindow) MinLat() float64 { return w.CenterLat - w.HalfExtent }
func (w BoundingWindow) MaxLat() float64 { return w.CenterLat + w.HalfExtent }
func (w BoundingWindow) MinLon() float64 { return w.CenterLon - w.HalfExtent }
func (w BoundingWindow) MaxLon() float64 { return w.CenterLon + w.HalfExtent }

// Contains reports whether c lies strictly inside the window.
func (w BoundingWindow) Contains(c Coordinate) bool {
	return c.Lat > w.MinLat() && c.Lat < w.MaxLat() && c.Lon > w.MinLon() && c.Lon < w.MaxLon()
}

// windowFor centers a square window on the track. The side is the larger of
// the two spans plus marginRatio of it, so both axes share one scale.
func windowFor(points []Coordinate, marginRatio float64) (BoundingWindow, bool) {
	if len(points) == 0 {
		return BoundingWindow{}, false
	}
	b := lineString(points).Bound()

	span := math.Max(b.Top()-b.Bottom(), b.Right()-b.Left())
	if span < minWindowSpan {
		span = minWindowSpan
	}
	margin := span * marginRatio
	center := b.Center()

	return BoundingWindow{
		CenterLat:  center.Lat(),
		CenterLon:  center.Lon(),
		HalfExtent: (span + margin) / 2,
	}, true
}

func lineString(points []Coordinate) orb.LineString {
	ls := make(orb.LineString, len(points))
	for i, p := range points {
		ls[i] = orb.Point{p.Lon, p.Lat}
	}
	return ls
}

// --- Streaming bounds ---

// RunningBounds accumulates the extent of many tracks without keeping their
// points. It only grows.
type RunningBounds struct {
	bound orb.Bound
	count int
}

func NewRunningBounds() *RunningBounds {
	return &RunningBounds{
		bound: orb.Bound{
			Min: orb.Point{math.Inf(1), math.Inf(1)},
			Max: orb.Point{math.Inf(-1), math.Inf(-1)},
		},
	}
}

func (r *RunningBounds) Extend(points []Coordinate) {
	for _, p := range points {
		r.bound = r.bound.Extend(orb.Point{p.Lon, p.Lat})
		r.count++
	}
}

func (r *RunningBounds) Empty() bool {
	return r.count == 0
}

func (r *RunningBounds) Points() int {
	return r.count
}

// Bound returns the accumulated extent. It is meaningless while Empty.
func (r *RunningBounds) Bound() orb.Bound {
	return r.bound
}

// Center is the midpoint of the accumulated extent, or false when nothing
// was added.
func (r *RunningBounds) Center() (Coordinate, bool) {
	if r.Empty() {
		return Coordinate{}, false
	}
	c := r.bound.Center()
	return Coordinate{Lat: c.Lat(), Lon: c.Lon()}, true
}
