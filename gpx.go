package main

import (
	"fmt"

	"github.com/tkrajina/gpxgo/gpx"
)

// --- GPX Parsing ---

func readGpxTrack(filePath string) (Track, error) {
	gpxFile, err := gpx.ParseFile(filePath)
	if err != nil {
		return Track{}, fmt.Errorf("failed to parse GPX file: %w", err)
	}
	return Track{Name: trackName(filePath), Points: gpxCoordinates(gpxFile)}, nil
}

func parseGpxBytes(name string, data []byte) (Track, error) {
	gpxFile, err := gpx.ParseBytes(data)
	if err != nil {
		return Track{}, fmt.Errorf("failed to parse GPX data: %w", err)
	}
	return Track{Name: name, Points: gpxCoordinates(gpxFile)}, nil
}

// gpxCoordinates flattens every track segment in file order. Routes and
// waypoints are not recorded movement and are ignored.
func gpxCoordinates(gpxFile *gpx.GPX) []Coordinate {
	var points []Coordinate
	for _, track := range gpxFile.Tracks {
		for _, segment := range track.Segments {
			for _, p := range segment.Points {
				if !validCoordinate(p.Latitude, p.Longitude) {
					continue
				}
				points = append(points, Coordinate{Lat: p.Latitude, Lon: p.Longitude})
			}
		}
	}
	return points
}
