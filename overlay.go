package main

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"os"

	"github.com/paulmach/orb/geojson"
	"github.com/twpayne/go-polyline"
)

const (
	overlayTrackColor    = "#F1532E"
	overlayTrackWeight   = 2
	overlayTrackOpacity  = 0.7
	overlayZoom          = 12
	overlayProgressEvery = 50
)

// trackCodec encodes lines at 1e-6 degrees, about 0.1 m.
var trackCodec = polyline.Codec{Dim: 2, Scale: 1e6}

var (
	errNoTracks     = errors.New("no valid GPS data")
	errNotFinalized = errors.New("overlay map center not set")
)

// overlayBuilder feeds tracks into the map one at a time. Only the running
// bounds and the encoded lines are kept, never the raw points.
type overlayBuilder struct {
	layer    TileLayer
	bounds   *RunningBounds
	lines    []string
	features *geojson.FeatureCollection
	expected int
	progress *Progress

	center    Coordinate
	finalized bool
}

func newOverlayBuilder(style TileStyle, expected int, withGeoJSON bool, progress *Progress) *overlayBuilder {
	b := &overlayBuilder{
		layer:    style.Layer(),
		bounds:   NewRunningBounds(),
		expected: expected,
		progress: progress,
	}
	if withGeoJSON {
		b.features = geojson.NewFeatureCollection()
	}
	return b
}

// AddTrack draws the track as its own polyline. Empty tracks are skipped and
// reported as false.
func (b *overlayBuilder) AddTrack(track Track) bool {
	if track.Empty() {
		return false
	}
	b.bounds.Extend(track.Points)

	coords := make([][]float64, len(track.Points))
	for i, p := range track.Points {
		coords[i] = []float64{p.Lat, p.Lon}
	}
	b.lines = append(b.lines, string(trackCodec.EncodeCoords(nil, coords)))

	if b.features != nil {
		f := geojson.NewFeature(lineString(track.Points))
		f.Properties["name"] = track.Name
		b.features.Append(f)
	}

	if n := len(b.lines); n%overlayProgressEvery == 0 {
		b.progress.Info(fmt.Sprintf("processed %d/%d tracks ...", n, b.expected))
	}
	return true
}

func (b *overlayBuilder) Tracks() int {
	return len(b.lines)
}

// Finalize fixes the map center from everything added so far. It must run
// after the last AddTrack and before any Write.
func (b *overlayBuilder) Finalize() error {
	center, ok := b.bounds.Center()
	if !ok {
		return errNoTracks
	}
	b.center = center
	b.finalized = true
	return nil
}

func (b *overlayBuilder) Center() (Coordinate, bool) {
	return b.center, b.finalized
}

type overlayDocument struct {
	Center  [2]float64
	Zoom    int
	Layer   TileLayer
	Lines   []string
	Scale   float64
	Color   string
	Weight  int
	Opacity float64
}

func (b *overlayBuilder) WriteHTML(w io.Writer) error {
	if !b.finalized {
		return errNotFinalized
	}
	return overlayTemplate.Execute(w, overlayDocument{
		Center:  [2]float64{b.center.Lat, b.center.Lon},
		Zoom:    overlayZoom,
		Layer:   b.layer,
		Lines:   b.lines,
		Scale:   trackCodec.Scale,
		Color:   overlayTrackColor,
		Weight:  overlayTrackWeight,
		Opacity: overlayTrackOpacity,
	})
}

func (b *overlayBuilder) WriteGeoJSON(w io.Writer) error {
	if b.features == nil {
		return errors.New("geojson output not enabled")
	}
	data, err := b.features.MarshalJSON()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// --- Overlay pipeline ---

type OverlayConfig struct {
	Files       []string
	OutputPath  string
	Style       string
	GeoJSONPath string
}

func runOverlay(cfg OverlayConfig, reader TrackReader, progress *Progress) Result {
	progress.Info(fmt.Sprintf("starting interactive map generation, %d activity files", len(cfg.Files)))
	progress.Info(fmt.Sprintf("using map style: %s", cfg.Style))

	style, ok := parseTileStyle(cfg.Style)
	if !ok {
		progress.Info(fmt.Sprintf("unknown map style %q, falling back to %s", cfg.Style, style))
	}

	builder := newOverlayBuilder(style, len(cfg.Files), cfg.GeoJSONPath != "", progress)

	progress.StartItems(len(cfg.Files), "Reading tracks")
	for i, path := range cfg.Files {
		progress.Item(i+1, len(cfg.Files), path)
		builder.AddTrack(loadTrack(reader, path, progress))
	}
	progress.FinishItems()
	progress.Info(fmt.Sprintf("extracted GPS data for %d tracks", builder.Tracks()))

	if err := builder.Finalize(); err != nil {
		return failure(err)
	}

	progress.Info("writing interactive map ...")
	if err := writeOverlay(builder, cfg); err != nil {
		return failure(fmt.Errorf("failed to generate overlay map: %w", err))
	}

	return Result{
		Success:     true,
		TotalTracks: builder.Tracks(),
		MapStyle:    cfg.Style,
		OutputPath:  cfg.OutputPath,
	}
}

// writeOverlay renders every artifact before touching the disk, and removes
// the map again if the sidecar cannot be written.
func writeOverlay(builder *overlayBuilder, cfg OverlayConfig) error {
	var doc bytes.Buffer
	if err := builder.WriteHTML(&doc); err != nil {
		return err
	}
	var sidecar bytes.Buffer
	if cfg.GeoJSONPath != "" {
		if err := builder.WriteGeoJSON(&sidecar); err != nil {
			return err
		}
	}

	if err := writeFileAtomic(cfg.OutputPath, func(w io.Writer) error {
		_, err := doc.WriteTo(w)
		return err
	}); err != nil {
		return err
	}
	if cfg.GeoJSONPath == "" {
		return nil
	}
	if err := writeFileAtomic(cfg.GeoJSONPath, func(w io.Writer) error {
		_, err := sidecar.WriteTo(w)
		return err
	}); err != nil {
		os.Remove(cfg.OutputPath)
		return err
	}
	return nil
}

var overlayTemplate = template.Must(template.New("overlay").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Ride overlay</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>html, body, #map { width: 100%; height: 100%; margin: 0; padding: 0; }</style>
</head>
<body>
<div id="map"></div>
<script>
function decodePolyline(str, scale) {
  var index = 0, lat = 0, lng = 0, coords = [];
  while (index < str.length) {
    var b, shift = 0, result = 0;
    do { b = str.charCodeAt(index++) - 63; result |= (b & 0x1f) << shift; shift += 5; } while (b >= 0x20);
    lat += (result & 1) ? ~(result >> 1) : (result >> 1);
    shift = 0; result = 0;
    do { b = str.charCodeAt(index++) - 63; result |= (b & 0x1f) << shift; shift += 5; } while (b >= 0x20);
    lng += (result & 1) ? ~(result >> 1) : (result >> 1);
    coords.push([lat / scale, lng / scale]);
  }
  return coords;
}

var map = L.map("map", {center: {{.Center}}, zoom: {{.Zoom}}});
var tileOptions = {attribution: {{.Layer.Attribution}}, maxZoom: 19};
{{- if .Layer.Subdomains}}
tileOptions.subdomains = {{.Layer.Subdomains}};
{{- end}}
var baseLayer = L.tileLayer({{.Layer.URL}}, tileOptions).addTo(map);
var baseLayers = {};
baseLayers[{{.Layer.Name}}] = baseLayer;
L.control.layers(baseLayers).addTo(map);

var lineStyle = {color: {{.Color}}, weight: {{.Weight}}, opacity: {{.Opacity}}, lineCap: "round", lineJoin: "round"};
var tracks = {{.Lines}};
var scale = {{.Scale}};
for (var i = 0; i < tracks.length; i++) {
  L.polyline(decodePolyline(tracks[i], scale), lineStyle).addTo(map);
}
</script>
</body>
</html>
`))
