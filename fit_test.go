package main

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tormoder/fit"
)

// sampleRecords mixes two real fixes with an indoor record and a zeroed one.
func sampleRecords() []*fit.RecordMsg {
	start := time.Date(2024, 5, 1, 7, 30, 0, 0, time.UTC)
	var records []*fit.RecordMsg
	add := func(lat fit.Latitude, lon fit.Longitude) {
		r := fit.NewRecordMsg()
		r.Timestamp = start.Add(time.Duration(len(records)) * time.Second)
		r.PositionLat = lat
		r.PositionLong = lon
		records = append(records, r)
	}
	add(fit.NewLatitudeDegrees(43.2630), fit.NewLongitudeDegrees(-2.9350))
	add(fit.NewLatitudeInvalid(), fit.NewLongitudeInvalid())
	add(fit.NewLatitude(0), fit.NewLongitude(0))
	add(fit.NewLatitudeDegrees(43.2650), fit.NewLongitudeDegrees(-2.9370))
	return records
}

func writeFitFile(t *testing.T, path string, fileType fit.FileType, records []*fit.RecordMsg) {
	t.Helper()
	file, err := fit.NewFile(fileType, fit.NewHeader(fit.V20, false))
	require.NoError(t, err)

	switch fileType {
	case fit.FileTypeActivity:
		activity, err := file.Activity()
		require.NoError(t, err)
		activity.Records = records
	case fit.FileTypeCourse:
		course, err := file.Course()
		require.NoError(t, err)
		course.Records = records
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, fit.Encode(f, file, binary.LittleEndian))
}

func TestExtractCoordinates(t *testing.T) {
	t.Run("converts semicircles to degrees", func(t *testing.T) {
		points := extractCoordinates([]rawFix{
			{Lat: 1 << 30, Long: -(1 << 30), HasLat: true, HasLong: true},
			{Lat: 2147483647, Long: -2147483648, HasLat: true, HasLong: true},
		})
		require.Len(t, points, 2)
		assert.InDelta(t, 90.0, points[0].Lat, 1e-12)
		assert.InDelta(t, -90.0, points[0].Lon, 1e-12)
		assert.InDelta(t, 180.0, points[1].Lat, 1e-6)
		assert.InDelta(t, -180.0, points[1].Lon, 1e-12)
	})

	t.Run("drops fixes with a zero or missing axis", func(t *testing.T) {
		points := extractCoordinates([]rawFix{
			{Lat: 0, Long: 1000, HasLat: true, HasLong: true},
			{Lat: 1000, Long: 0, HasLat: true, HasLong: true},
			{Lat: 1000, Long: 1000, HasLat: false, HasLong: true},
			{Lat: 1000, Long: 1000, HasLat: true, HasLong: false},
			{Lat: 516064998, Long: -34998632, HasLat: true, HasLong: true},
		})
		require.Len(t, points, 1)
		assert.InDelta(t, 43.2561, points[0].Lat, 1e-4)
		assert.InDelta(t, -2.9336, points[0].Lon, 1e-4)
	})

	t.Run("keeps record order", func(t *testing.T) {
		points := extractCoordinates([]rawFix{
			{Lat: 100, Long: 200, HasLat: true, HasLong: true},
			{Lat: 300, Long: 400, HasLat: true, HasLong: true},
		})
		require.Len(t, points, 2)
		assert.Less(t, points[0].Lat, points[1].Lat)
	})

	t.Run("empty input gives an empty track", func(t *testing.T) {
		assert.Empty(t, extractCoordinates(nil))
	})
}

func TestReadFitTrack(t *testing.T) {
	dir := t.TempDir()

	for name, fileType := range map[string]fit.FileType{
		"activity": fit.FileTypeActivity,
		"course":   fit.FileTypeCourse,
	} {
		t.Run(name+" records become the track", func(t *testing.T) {
			path := filepath.Join(dir, "ride_"+name+".fit")
			writeFitFile(t, path, fileType, sampleRecords())

			track, err := readFitTrack(path)
			require.NoError(t, err)

			assert.Equal(t, "ride_"+name, track.Name)
			require.Len(t, track.Points, 2)
			assert.InDelta(t, 43.2630, track.Points[0].Lat, 1e-6)
			assert.InDelta(t, -2.9350, track.Points[0].Lon, 1e-6)
			assert.InDelta(t, 43.2650, track.Points[1].Lat, 1e-6)
			assert.InDelta(t, -2.9370, track.Points[1].Lon, 1e-6)
		})
	}

	t.Run("file without records gives an empty track", func(t *testing.T) {
		path := filepath.Join(dir, "settings.fit")
		writeFitFile(t, path, fit.FileTypeSettings, nil)

		track, err := readFitTrack(path)
		require.NoError(t, err)
		assert.True(t, track.Empty())
	})

	t.Run("corrupt file is an error", func(t *testing.T) {
		path := filepath.Join(dir, "broken.fit")
		require.NoError(t, os.WriteFile(path, []byte("definitely not a FIT file"), 0o644))

		_, err := readFitTrack(path)
		assert.Error(t, err)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := readFitTrack(filepath.Join(dir, "missing.fit"))
		assert.Error(t, err)
	})
}

func TestLoadTrack(t *testing.T) {
	t.Run("read failure is logged and yields an empty track", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "bad_42.fit")
		require.NoError(t, os.WriteFile(path, []byte{0x0e, 0x10}, 0o644))

		progress, out := newTestProgress()
		track := loadTrack(fileTrackReader{}, path, progress)

		assert.True(t, track.Empty())
		assert.Equal(t, "bad_42", track.Name)
		assert.Contains(t, out.String(), "PROGRESS: failed to extract GPS data from bad_42.fit")
	})

	t.Run("fills in the name from the path", func(t *testing.T) {
		reader := TrackReaderFunc(func(path string) (Track, error) {
			return Track{Points: []Coordinate{{Lat: 1, Lon: 2}}}, nil
		})
		progress, _ := newTestProgress()

		track := loadTrack(reader, "/data/rides/12345.fit", progress)
		assert.Equal(t, "12345", track.Name)
		assert.Len(t, track.Points, 1)
	})
}
