package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/tormoder/fit"
)

// semicircleScale converts FIT semicircles to degrees: 2^31 semicircles is 180°.
const semicircleScale = 180.0 / (1 << 31)

// rawFix is one record's position as stored in the file. A missing axis is
// flagged rather than encoded as a magic value.
type rawFix struct {
	Lat, Long       int32
	HasLat, HasLong bool
}

func semicirclesToDegrees(v int32) float64 {
	return float64(v) * semicircleScale
}

// extractCoordinates keeps fixes with both axes present and non-zero.
func extractCoordinates(fixes []rawFix) []Coordinate {
	points := make([]Coordinate, 0, len(fixes))
	for _, f := range fixes {
		if !f.HasLat || !f.HasLong || f.Lat == 0 || f.Long == 0 {
			continue
		}
		points = append(points, Coordinate{
			Lat: semicirclesToDegrees(f.Lat),
			Lon: semicirclesToDegrees(f.Long),
		})
	}
	return points
}

func readFitTrack(filePath string) (Track, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return Track{}, fmt.Errorf("failed to open FIT file: %w", err)
	}
	defer f.Close()

	fitFile, err := fit.Decode(bufio.NewReader(f))
	if err != nil {
		return Track{}, fmt.Errorf("failed to decode FIT file: %w", err)
	}
	records, err := fitRecords(fitFile)
	if err != nil {
		return Track{}, err
	}

	fixes := make([]rawFix, 0, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		fixes = append(fixes, rawFix{
			Lat:     r.PositionLat.Semicircles(),
			Long:    r.PositionLong.Semicircles(),
			HasLat:  !r.PositionLat.Invalid(),
			HasLong: !r.PositionLong.Invalid(),
		})
	}

	return Track{Name: trackName(filePath), Points: extractCoordinates(fixes)}, nil
}

// fitRecords returns the record messages of activity and course files.
// Other file types carry no records and yield none.
func fitRecords(f *fit.File) ([]*fit.RecordMsg, error) {
	switch f.Type() {
	case fit.FileTypeActivity:
		activity, err := f.Activity()
		if err != nil {
			return nil, fmt.Errorf("failed to read FIT activity: %w", err)
		}
		return activity.Records, nil
	case fit.FileTypeCourse:
		course, err := f.Course()
		if err != nil {
			return nil, fmt.Errorf("failed to read FIT course: %w", err)
		}
		return course.Records, nil
	default:
		return nil, nil
	}
}
