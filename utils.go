package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"io"
	"strconv"
)

const (
	defaultTrackWidth  = 4
	defaultMargin      = 300
	defaultColumns     = 6
	defaultTargetWidth = 1200
	defaultTileSize    = 1000
	defaultDPI         = 100
	defaultAccent      = "#F1532E"
	defaultBackground  = "#000000"
)

var errUsage = errors.New("usage: ridemap mosaic [flags] <files...> <output> | ridemap overlay [flags] <files...> <output> <style>")

// --- Structs ---

type Arguments struct {
	Command     string
	ProgressBar bool
	Mosaic      MosaicConfig
	Overlay     OverlayConfig
}

// --- Argument Parsing ---

func parseArguments(argv []string, stderr io.Writer) (*Arguments, error) {
	if len(argv) == 0 {
		return nil, errUsage
	}
	args := &Arguments{Command: argv[0]}

	switch args.Command {
	case "mosaic":
		return args, parseMosaicArguments(args, argv[1:], stderr)
	case "overlay":
		return args, parseOverlayArguments(args, argv[1:], stderr)
	default:
		return nil, fmt.Errorf("unknown command %q: %w", args.Command, errUsage)
	}
}

func parseMosaicArguments(args *Arguments, argv []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("mosaic", flag.ContinueOnError)
	fs.SetOutput(stderr)

	trackWidth := fs.Float64("track-width", defaultTrackWidth, "Width of the drawn track in points.")
	margin := fs.Int("margin", defaultMargin, "Gap between images in pixels, before scaling.")
	columns := fs.Int("columns", defaultColumns, "Number of images per row.")
	width := fs.Int("width", defaultTargetWidth, "Width of the final mosaic in pixels.")
	size := fs.Int("size", defaultTileSize, "Side of each track image in pixels.")
	accentStr := fs.String("accent", defaultAccent, "Track color (hex).")
	backgroundStr := fs.String("background", defaultBackground, "Background color (hex).")
	fs.BoolVar(&args.ProgressBar, "bar", false, "Show a progress bar instead of per-file progress lines.")

	if err := fs.Parse(argv); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("mosaic needs at least one input file and an output path: %w", errUsage)
	}

	switch {
	case *trackWidth <= 0:
		return fmt.Errorf("track-width must be positive, got %v", *trackWidth)
	case *margin < 0:
		return fmt.Errorf("margin must not be negative, got %d", *margin)
	case *columns < 1:
		return fmt.Errorf("columns must be at least 1, got %d", *columns)
	case *width < 1:
		return fmt.Errorf("width must be at least 1, got %d", *width)
	case *size < 1:
		return fmt.Errorf("size must be at least 1, got %d", *size)
	}

	accent, err := parseHexColor(*accentStr)
	if err != nil {
		return fmt.Errorf("invalid accent color %q: %w", *accentStr, err)
	}
	background, err := parseHexColor(*backgroundStr)
	if err != nil {
		return fmt.Errorf("invalid background color %q: %w", *backgroundStr, err)
	}

	positional := fs.Args()
	args.Mosaic = MosaicConfig{
		Files:      positional[:len(positional)-1],
		OutputPath: positional[len(positional)-1],
		Render: RenderOptions{
			Size:       *size,
			LineWidth:  *trackWidth,
			DPI:        defaultDPI,
			Accent:     accent,
			Background: background,
		},
		Grid: GridOptions{
			Margin:      *margin,
			Columns:     *columns,
			TargetWidth: *width,
			Background:  background,
		},
	}
	return nil
}

func parseOverlayArguments(args *Arguments, argv []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("overlay", flag.ContinueOnError)
	fs.SetOutput(stderr)

	geojsonPath := fs.String("geojson", "", "Also write all tracks as a GeoJSON FeatureCollection to this path.")
	fs.BoolVar(&args.ProgressBar, "bar", false, "Show a progress bar instead of per-file progress lines.")

	if err := fs.Parse(argv); err != nil {
		return err
	}
	if fs.NArg() < 3 {
		return fmt.Errorf("overlay needs at least one input file, an output path and a map style: %w", errUsage)
	}

	positional := fs.Args()
	n := len(positional)
	args.Overlay = OverlayConfig{
		Files:       positional[:n-2],
		OutputPath:  positional[n-2],
		Style:       positional[n-1],
		GeoJSONPath: *geojsonPath,
	}
	return nil
}

var errHexColor = errors.New("want #rrggbb")

// parseHexColor reads an opaque #rrggbb color.
func parseHexColor(s string) (color.Color, error) {
	if len(s) != 7 || s[0] != '#' {
		return nil, errHexColor
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not hex", errHexColor, s[1:])
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}
