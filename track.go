package main

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
)

// --- Structs ---

// Coordinate is a GPS fix in degrees. Zero on either axis means "no fix"
// and never makes it into a Track.
type Coordinate struct {
	Lat, Lon float64
}

type Track struct {
	Name   string
	Points []Coordinate
}

func (t Track) Empty() bool {
	return len(t.Points) == 0
}

// TrackReader turns an input path into a Track. A parse failure is an error;
// a readable file without fixes is an empty Track.
type TrackReader interface {
	ReadTrack(path string) (Track, error)
}

type TrackReaderFunc func(path string) (Track, error)

func (f TrackReaderFunc) ReadTrack(path string) (Track, error) {
	return f(path)
}

// --- Reading ---

type fileTrackReader struct{}

func (fileTrackReader) ReadTrack(path string) (Track, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gpx":
		return readGpxTrack(path)
	default:
		return readFitTrack(path)
	}
}

// loadTrack never fails: an unreadable input is reported and treated as an
// empty track so the run can carry on with the rest.
func loadTrack(reader TrackReader, path string, progress *Progress) Track {
	track, err := reader.ReadTrack(path)
	if err != nil {
		progress.Warn(fmt.Sprintf("failed to extract GPS data from %s", filepath.Base(path)), err)
		return Track{Name: trackName(path)}
	}
	if track.Name == "" {
		track.Name = trackName(path)
	}
	return track
}

func trackName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func validCoordinate(lat, lon float64) bool {
	if lat == 0 || lon == 0 {
		return false
	}
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	return true
}
