package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// Result is the single JSON line a run prints on stdout.
type Result struct {
	Success     bool   `json:"success"`
	TotalTracks int    `json:"total_tracks,omitempty"`
	GridSize    string `json:"grid_size,omitempty"`
	MapStyle    string `json:"map_style,omitempty"`
	OutputPath  string `json:"output_path,omitempty"`
	Error       string `json:"error,omitempty"`
	Stack       string `json:"stack,omitempty"`
}

func failure(err error) Result {
	return Result{Success: false, Error: err.Error()}
}

func (r Result) ExitCode() int {
	if r.Success {
		return 0
	}
	return 1
}

func writeResult(w io.Writer, r Result) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(r)
}

// itemResult is the outcome of one input file.
type itemResult struct {
	Path string
	Err  error
}

func (r itemResult) OK() bool {
	return r.Err == nil
}

// writeFileAtomic streams into a temp file next to path, syncs it and
// renames it into place. path either keeps its old content or gets the new
// content in full.
func writeFileAtomic(path string, write func(io.Writer) error) error {
	pending, err := renameio.NewPendingFile(path,
		renameio.WithTempDir(filepath.Dir(path)),
		renameio.WithPermissions(0o644),
	)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer pending.Cleanup()

	if err := write(pending); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", filepath.Base(path), err)
	}
	return nil
}
