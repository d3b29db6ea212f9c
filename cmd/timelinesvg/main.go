// Command timelinesvg renders one frame of the collection timeline to an SVG
// file.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"eracanvas/internal/catalog"
	"eracanvas/internal/config"
	"eracanvas/internal/engine"
	"eracanvas/internal/era"
	"eracanvas/internal/logging"
	"eracanvas/internal/render"
	"eracanvas/internal/scale"
	"eracanvas/internal/timeline"
)

var errNoRecords = errors.New("no items or landmarks found")

type options struct {
	debug      bool
	configFile string
	itemsDir   string
	landmarks  string
	output     string
	start, end float64
	width      float64
	height     float64
	pixelRatio float64
	zoom       int
	category   string
	featured   bool

	viewportSet bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options

	fs := flag.NewFlagSet("timelinesvg", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&o.debug, "debug", false, "Enable debug mode for verbose output")
	fs.StringVar(&o.configFile, "config", "", "YAML configuration file (optional)")
	fs.StringVar(&o.itemsDir, "items", "", "Directory of item YAML files (overrides config)")
	fs.StringVar(&o.landmarks, "landmarks", "", "Landmarks YAML file (overrides config)")
	fs.StringVar(&o.output, "output", "timeline.svg", "Output SVG filename")
	fs.Float64Var(&o.start, "start", 0, "First visible year, BC negative (requires --end)")
	fs.Float64Var(&o.end, "end", 0, "Last visible year, BC negative (requires --start)")
	fs.Float64Var(&o.width, "width", 1200, "Surface width in pixels")
	fs.Float64Var(&o.height, "height", 600, "Surface height in pixels")
	fs.Float64Var(&o.pixelRatio, "ratio", 1, "Device pixel ratio")
	fs.IntVar(&o.zoom, "zoom", 0, "Zoom steps around the center, negative zooms out")
	fs.StringVar(&o.category, "category", "", "Only draw items of this category ("+strings.Join(catalog.Categories, ", ")+")")
	fs.BoolVar(&o.featured, "featured", false, "Only draw featured items")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: timelinesvg [options]\n")
		fmt.Fprintf(stderr, "\nOptions:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nWithout --start/--end the view is fitted to the items.\n")
		fmt.Fprintf(stderr, "\nExample:\n")
		fmt.Fprintf(stderr, "  timelinesvg --items data/items --start -3000 --end 0 --zoom 1 --output bronze-age.svg\n")
	}

	if err := fs.Parse(args); err != nil {
		return o, err
	}

	var sawStart, sawEnd bool
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "start":
			sawStart = true
		case "end":
			sawEnd = true
		}
	})
	if sawStart != sawEnd {
		return o, errors.New("--start and --end must be given together")
	}
	o.viewportSet = sawStart

	if o.category != "" && !slices.Contains(catalog.Categories, o.category) {
		return o, fmt.Errorf("unknown category %q, expected one of: %s", o.category, strings.Join(catalog.Categories, ", "))
	}
	return o, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	cfg, err := config.Load(o.configFile)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}
	if o.debug {
		cfg.Logging.Level = "debug"
	}
	if o.itemsDir != "" {
		cfg.Data.ItemsDir = o.itemsDir
	}
	if o.landmarks != "" {
		cfg.Data.LandmarksFile = o.landmarks
	}

	logger := logging.NewWriter(stderr, cfg.Logging.Level)
	logger.Debug("configuration loaded", "items", cfg.Data.ItemsDir, "landmarks", cfg.Data.LandmarksFile)

	records, err := catalog.Load(cfg.Data.ItemsDir, cfg.Data.LandmarksFile)
	if err != nil {
		return err
	}
	if len(records.Items()) == 0 && len(records.Landmarks()) == 0 {
		return errNoRecords
	}
	items := selectItems(records, o)
	fmt.Fprintf(stdout, "Loaded %d items and %d landmarks\n", len(items), len(records.Landmarks()))

	opts := cfg.EngineOptions()
	opts.Logger = logger
	if o.viewportSet {
		opts.Initial = &scale.Viewport{Start: o.start, End: o.end}
	}

	canvas := render.NewCanvas(engine.Size{Width: o.width, Height: o.height, PixelRatio: o.pixelRatio}, cfg.Theme)
	ticks := &engine.ManualTicks{}
	stage := engine.NewStage(canvas)
	if err := stage.Mount(engine.New(items, records.Landmarks(), opts), nil, ticks); err != nil {
		return err
	}
	defer stage.Unmount()

	e := stage.Engine()
	for i := 0; i < o.zoom; i++ {
		if err := e.ZoomIn(); err != nil {
			return err
		}
	}
	for i := 0; i > o.zoom; i-- {
		if err := e.ZoomOut(); err != nil {
			return err
		}
	}
	if o.zoom != 0 {
		ticks.Fire()
	}

	state, err := e.State()
	if err != nil {
		return err
	}
	logger.Debug("frame drawn",
		"start", state.ViewportStart,
		"end", state.ViewportEnd,
		"level", state.ZoomLevel,
		"visible_items", state.VisibleEntityCount,
		"visible_landmarks", state.VisibleLandmarkCount)

	if err := os.WriteFile(o.output, canvas.SVG(), 0o644); err != nil {
		return fmt.Errorf("error writing SVG file: %w", err)
	}
	fmt.Fprintf(stdout, "Timeline SVG generated successfully: %s (%s to %s)\n",
		o.output, era.FormatYear(state.ViewportStart), era.FormatYear(state.ViewportEnd))
	return nil
}

// selectItems applies the --category and --featured filters.
func selectItems(records *catalog.Catalog, o options) []timeline.Artifact {
	switch {
	case o.category != "" && o.featured:
		return slices.DeleteFunc(records.ByCategory(o.category), func(a timeline.Artifact) bool { return !a.Featured })
	case o.category != "":
		return records.ByCategory(o.category)
	case o.featured:
		return records.Featured()
	default:
		return records.Items()
	}
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
