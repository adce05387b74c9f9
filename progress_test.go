package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressLines(t *testing.T) {
	progress, out := newTestProgress()

	progress.Info("starting")
	progress.Item(2, 5, "ride_2.fit")
	progress.Warn("failed to extract GPS data from x.fit", errors.New("bad header"))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 3)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "PROGRESS: "), line)
	}
	assert.Equal(t, "PROGRESS: starting", lines[0])
	assert.Contains(t, lines[1], "processing activity 2/5 ...")
	assert.Contains(t, lines[1], "ride_2.fit")
	assert.Contains(t, lines[2], "bad header")
}

func TestProgressBarReplacesItemLines(t *testing.T) {
	var out bytes.Buffer
	progress := NewProgress(&out, true)

	progress.StartItems(3, "Rendering tracks")
	for i := 1; i <= 3; i++ {
		progress.Item(i, 3, "ride.fit")
	}
	progress.FinishItems()

	assert.NotContains(t, out.String(), "processing activity")
	assert.Nil(t, progress.bar)
}
