package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/debug"
)

// --- Main Logic ---

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run prints exactly one result line on stdout and returns the exit status.
// Anything that escapes the pipelines is reported here with a stack trace.
func run(argv []string, stdout, stderr io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			writeResult(stdout, Result{
				Success: false,
				Error:   fmt.Sprint(r),
				Stack:   string(debug.Stack()),
			})
			code = 1
		}
	}()

	args, err := parseArguments(argv, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		writeResult(stdout, failure(err))
		return 2
	}

	progress := NewProgress(stderr, args.ProgressBar)

	var result Result
	switch args.Command {
	case "mosaic":
		result = runMosaic(args.Mosaic, fileTrackReader{}, progress)
	case "overlay":
		result = runOverlay(args.Overlay, fileTrackReader{}, progress)
	}

	if err := writeResult(stdout, result); err != nil {
		progress.Warn("failed to write result", err)
		return 1
	}
	return result.ExitCode()
}
