package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Run("replaces an existing file in full", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "overlay.html")
		require.NoError(t, os.WriteFile(path, []byte("old content that is longer"), 0o644))

		require.NoError(t, writeFileAtomic(path, func(w io.Writer) error {
			_, err := w.Write([]byte("new"))
			return err
		}))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "new", string(data))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.NotZero(t, info.Mode().Perm()&0o400, "owner can read the artifact")

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("a failed write keeps the previous file and no temp file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "mosaic.png")
		require.NoError(t, os.WriteFile(path, []byte("previous"), 0o644))

		errDisk := errors.New("disk full")
		err := writeFileAtomic(path, func(w io.Writer) error {
			w.Write([]byte("partial"))
			return errDisk
		})
		assert.ErrorIs(t, err, errDisk)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "previous", string(data))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("a failed first write leaves nothing", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "tracks.geojson")

		err := writeFileAtomic(path, func(w io.Writer) error {
			return errors.New("boom")
		})
		assert.Error(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestWriteResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, Result{Success: true, TotalTracks: 2, GridSize: "1x6", OutputPath: "a<b>.png"}))
	assert.Equal(t, `{"success":true,"total_tracks":2,"grid_size":"1x6","output_path":"a<b>.png"}`+"\n", buf.String())

	buf.Reset()
	require.NoError(t, writeResult(&buf, failure(errNoTracks)))
	assert.Equal(t, `{"success":false,"error":"no valid GPS data"}`+"\n", buf.String())
	assert.Equal(t, 1, failure(errNoTracks).ExitCode())
}
