/*
Package config loads eracanvas settings.

Settings come from three layers, later ones winning:

  - Default(), the built-in geometry and colors,
  - an optional YAML file; keys it leaves out keep their defaults,
  - ERACANVAS_* environment variables for the host-level settings.

Example YAML:

	timeline:
	  min_span: 50
	  initial: {start: -3000, end: 0}
	layout:
	  marker_spacing: 26
	theme:
	  background: "#ffffff"
	  artifact: {shape: square}
	server:
	  addr: ":8080"
	  frame_rate: 30
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"eracanvas/internal/engine"
	"eracanvas/internal/interaction"
	"eracanvas/internal/projector"
	"eracanvas/internal/render"
	"eracanvas/internal/scale"
	"eracanvas/internal/timeline"
)

// layoutOptions carries the validation of the projector geometry.
type layoutOptions projector.Options

// Config is the complete configuration of the CLI and the HTTP host.
type Config struct {
	Timeline TimelineConfig    `yaml:"timeline"`
	Layout   projector.Options `yaml:"layout"`
	Theme    render.Theme      `yaml:"theme"`
	Server   ServerConfig      `yaml:"server"`
	Logging  LoggingConfig     `yaml:"logging"`
	Data     DataConfig        `yaml:"data"`
}

// TimelineConfig controls navigation and row packing.
type TimelineConfig struct {
	Domain  scale.Domain `yaml:"domain"`
	MinSpan float64      `yaml:"min_span" env:"ERACANVAS_MIN_SPAN"`

	// Initial fixes the starting viewport. The zero viewport means fit to
	// the items.
	Initial scale.Viewport `yaml:"initial"`

	WheelZoomIn    float64 `yaml:"wheel_zoom_in"`
	WheelZoomOut   float64 `yaml:"wheel_zoom_out"`
	ClickThreshold float64 `yaml:"click_threshold"` // max pointer travel in pixels for a click

	SpanBuffer   float64 `yaml:"span_buffer"`   // years kept free around span bars in a row
	MarkerBuffer float64 `yaml:"marker_buffer"` // half-width in years reserved around markers
}

// ServerConfig controls the HTTP host.
type ServerConfig struct {
	Addr         string        `yaml:"addr" env:"ERACANVAS_ADDR"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"ERACANVAS_READ_TIMEOUT"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"ERACANVAS_WRITE_TIMEOUT"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"ERACANVAS_IDLE_TIMEOUT"`

	// FrameRate is the number of ticks per second of every session.
	FrameRate int `yaml:"frame_rate" env:"ERACANVAS_FRAME_RATE"`
	// MaxSessions caps concurrently open sessions.
	MaxSessions int `yaml:"max_sessions" env:"ERACANVAS_MAX_SESSIONS"`
	// SessionTTL closes sessions idle for longer than this.
	SessionTTL time.Duration `yaml:"session_ttl" env:"ERACANVAS_SESSION_TTL"`
	// EventRate and EventBurst bound the input events a session accepts
	// per second.
	EventRate  float64 `yaml:"event_rate" env:"ERACANVAS_EVENT_RATE"`
	EventBurst int     `yaml:"event_burst" env:"ERACANVAS_EVENT_BURST"`
}

// LoggingConfig controls the logger.
type LoggingConfig struct {
	Level string `yaml:"level" env:"ERACANVAS_LOG_LEVEL"`
}

// DataConfig locates the records and the item pages.
type DataConfig struct {
	ItemsDir      string `yaml:"items_dir" env:"ERACANVAS_ITEMS_DIR"`
	LandmarksFile string `yaml:"landmarks_file" env:"ERACANVAS_LANDMARKS_FILE"`
	BasePath      string `yaml:"base_path" env:"ERACANVAS_BASE_PATH"`
}

// Default returns the built-in configuration.
func Default() Config {
	ic := interaction.DefaultConfig()
	lo := timeline.DefaultLayoutOptions()

	return Config{
		Timeline: TimelineConfig{
			Domain:         scale.DefaultDomain,
			MinSpan:        scale.DefaultMinSpan,
			WheelZoomIn:    ic.WheelZoomIn,
			WheelZoomOut:   ic.WheelZoomOut,
			ClickThreshold: ic.ClickThreshold,
			SpanBuffer:     lo.SpanBuffer,
			MarkerBuffer:   lo.MarkerBuffer,
		},
		Layout: projector.DefaultOptions(),
		Theme:  render.DefaultTheme(),
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
			FrameRate:    30,
			MaxSessions:  256,
			SessionTTL:   15 * time.Minute,
			EventRate:    120,
			EventBurst:   240,
		},
		Logging: LoggingConfig{Level: "info"},
		Data: DataConfig{
			ItemsDir:      "data/items",
			LandmarksFile: "data/landmarks.yaml",
			BasePath:      "/Archive",
		},
	}
}

// Load returns the defaults overlaid with the YAML file at path (skipped when
// path is empty) and then with the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("error parsing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings no component can work with.
func (c Config) Validate() error {
	var errs []error

	t := c.Timeline
	if !(t.Domain.Start < t.Domain.End) {
		errs = append(errs, fmt.Errorf("timeline.domain: start %v must be before end %v", t.Domain.Start, t.Domain.End))
	}
	if !(t.MinSpan > 0) {
		errs = append(errs, fmt.Errorf("timeline.min_span must be positive, got %v", t.MinSpan))
	}
	if !(t.WheelZoomIn > 1) || !(t.WheelZoomOut > 0 && t.WheelZoomOut < 1) {
		errs = append(errs, fmt.Errorf("timeline wheel factors must zoom in above 1 and out in (0, 1), got %v/%v", t.WheelZoomIn, t.WheelZoomOut))
	}
	if t.Initial != (scale.Viewport{}) && !(t.Initial.Start < t.Initial.End) {
		errs = append(errs, fmt.Errorf("timeline.initial: start %v must be before end %v", t.Initial.Start, t.Initial.End))
	}
	errs = append(errs, layoutOptions(c.Layout).validate()...)

	if c.Server.FrameRate <= 0 {
		errs = append(errs, fmt.Errorf("server.frame_rate must be positive, got %d", c.Server.FrameRate))
	}
	if !(c.Server.EventRate > 0) || c.Server.EventBurst <= 0 {
		errs = append(errs, fmt.Errorf("server event rate and burst must be positive, got %v/%d", c.Server.EventRate, c.Server.EventBurst))
	}
	if c.Server.MaxSessions <= 0 {
		errs = append(errs, fmt.Errorf("server.max_sessions must be positive, got %d", c.Server.MaxSessions))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// TickInterval is the time between two frames of a session.
func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.Server.FrameRate)
}

// EngineOptions maps the configuration onto engine options.
func (c Config) EngineOptions() engine.Options {
	opts := engine.DefaultOptions()
	opts.BasePath = c.Data.BasePath

	opts.Interaction.Domain = c.Timeline.Domain
	opts.Interaction.MinSpan = c.Timeline.MinSpan
	opts.Interaction.WheelZoomIn = c.Timeline.WheelZoomIn
	opts.Interaction.WheelZoomOut = c.Timeline.WheelZoomOut
	opts.Interaction.ClickThreshold = c.Timeline.ClickThreshold
	opts.Interaction.TooltipLift = c.Layout.Tooltip.Lift

	opts.Layout = timeline.LayoutOptions{
		SpanBuffer:   c.Timeline.SpanBuffer,
		MarkerBuffer: c.Timeline.MarkerBuffer,
	}
	opts.Projector = c.Layout

	if c.Timeline.Initial != (scale.Viewport{}) {
		v := c.Timeline.Initial
		opts.Initial = &v
	}
	return opts
}

func (l layoutOptions) validate() []error {
	var errs []error

	ratios := []struct {
		name  string
		value float64
	}{
		{"axis_ratio", l.AxisRatio},
		{"artifact_ratio", l.ArtifactRatio},
		{"marker_ratio", l.MarkerRatio},
		{"span_ratio", l.SpanRatio},
	}
	for _, f := range ratios {
		if !(f.value >= 0 && f.value <= 1) {
			errs = append(errs, fmt.Errorf("layout.%s must be within [0, 1], got %v", f.name, f.value))
		}
	}

	nonNegative := []struct {
		name  string
		value float64
	}{
		{"marker_spacing", l.MarkerSpacing},
		{"span_spacing", l.SpanSpacing},
		{"cull_margin", l.CullMargin},
		{"clip_margin", l.ClipMargin},
		{"label_margin", l.LabelMargin},
		{"hit_slop", l.HitSlop},
		{"tooltip.padding", l.Tooltip.Padding},
		{"tooltip.margin", l.Tooltip.Margin},
	}
	for _, f := range nonNegative {
		if !(f.value >= 0) {
			errs = append(errs, fmt.Errorf("layout.%s must not be negative, got %v", f.name, f.value))
		}
	}

	positive := []struct {
		name  string
		value float64
	}{
		{"artifact_font_size", l.ArtifactFontSize},
		{"span_font_size", l.SpanFontSize},
		{"marker_font_size", l.MarkerFontSize},
		{"axis_font_size", l.AxisFontSize},
		{"artifact_size", l.ArtifactSize},
		{"marker_size", l.MarkerSize},
		{"bar_height", l.BarHeight},
		{"hover_scale", l.HoverScale},
		{"tooltip.min_width", l.Tooltip.MinWidth},
		{"tooltip.height", l.Tooltip.Height},
		{"tooltip.title_font_size", l.Tooltip.TitleFontSize},
		{"tooltip.subtitle_font_size", l.Tooltip.SubtitleFontSize},
	}
	for _, f := range positive {
		if !(f.value > 0) {
			errs = append(errs, fmt.Errorf("layout.%s must be positive, got %v", f.name, f.value))
		}
	}

	if l.LabelMaxRunes < 0 {
		errs = append(errs, fmt.Errorf("layout.label_max_runes must not be negative, got %d", l.LabelMaxRunes))
	}
	if l.Tooltip.MinWidth > l.Tooltip.MaxWidth {
		errs = append(errs, fmt.Errorf("layout.tooltip: min_width %v exceeds max_width %v", l.Tooltip.MinWidth, l.Tooltip.MaxWidth))
	}
	return errs
}
