package projector

// Options fixes the frame geometry. Vertical positions are ratios of the
// surface height; everything else is in CSS pixels.
type Options struct {
	AxisRatio     float64 `yaml:"axis_ratio"`     // axis line, near the bottom
	ArtifactRatio float64 `yaml:"artifact_ratio"` // collection items, just above the axis
	MarkerRatio   float64 `yaml:"marker_ratio"`   // first marker row, rows go downward
	SpanRatio     float64 `yaml:"span_ratio"`     // first span row, rows go upward
	MarkerSpacing float64 `yaml:"marker_spacing"` // vertical distance between marker rows
	SpanSpacing   float64 `yaml:"span_spacing"`   // vertical distance between span rows

	CullMargin  float64 `yaml:"cull_margin"`  // entities further off-screen than this are not drawn
	ClipMargin  float64 `yaml:"clip_margin"`  // span bars and ticks are clipped this far off-screen
	LabelMargin float64 `yaml:"label_margin"` // minimum gap between a span label and the surface edge

	ArtifactLabelOffset float64 `yaml:"artifact_label_offset"` // below the axis
	SpanLabelOffset     float64 `yaml:"span_label_offset"`     // above the bar
	MarkerLabelOffset   float64 `yaml:"marker_label_offset"`   // below the marker
	LabelMaxRunes       int     `yaml:"label_max_runes"`       // artifact labels are truncated to this

	ArtifactFontSize float64 `yaml:"artifact_font_size"`
	SpanFontSize     float64 `yaml:"span_font_size"`
	MarkerFontSize   float64 `yaml:"marker_font_size"`
	AxisFontSize     float64 `yaml:"axis_font_size"`

	ArtifactSize float64 `yaml:"artifact_size"` // half-diagonal of the artifact diamond
	MarkerSize   float64 `yaml:"marker_size"`   // marker radius
	BarHeight    float64 `yaml:"bar_height"`    // span bar thickness
	HoverScale   float64 `yaml:"hover_scale"`
	HitSlop      float64 `yaml:"hit_slop"` // extra pixels around shapes accepted as a hit

	// AlwaysLabelMarkers keeps marker names visible at every zoom level.
	AlwaysLabelMarkers bool `yaml:"always_label_markers"`

	Tooltip TooltipOptions `yaml:"tooltip"`
}

// TooltipOptions fixes tooltip geometry.
type TooltipOptions struct {
	Padding          float64 `yaml:"padding"`
	MinWidth         float64 `yaml:"min_width"`
	MaxWidth         float64 `yaml:"max_width"`
	Height           float64 `yaml:"height"`
	Offset           float64 `yaml:"offset"`      // gap between tooltip bottom and anchor
	FlipOffset       float64 `yaml:"flip_offset"` // gap below the anchor when flipped
	Margin           float64 `yaml:"margin"`      // minimum distance to the surface edges
	Lift             float64 `yaml:"lift"`        // anchor sits this far above the hovered shape
	TitleFontSize    float64 `yaml:"title_font_size"`
	SubtitleFontSize float64 `yaml:"subtitle_font_size"`
}

// DefaultOptions returns the stock timeline geometry.
func DefaultOptions() Options {
	return Options{
		AxisRatio:     0.88,
		ArtifactRatio: 0.78,
		MarkerRatio:   0.52,
		SpanRatio:     0.42,
		MarkerSpacing: 26,
		SpanSpacing:   28,

		CullMargin:  50,
		ClipMargin:  10,
		LabelMargin: 5,

		ArtifactLabelOffset: 30,
		SpanLabelOffset:     8,
		MarkerLabelOffset:   8,
		LabelMaxRunes:       20,

		ArtifactFontSize: 10,
		SpanFontSize:     9,
		MarkerFontSize:   9,
		AxisFontSize:     10,

		ArtifactSize: 5,
		MarkerSize:   4,
		BarHeight:    6,
		HoverScale:   1.5,
		HitSlop:      3,

		AlwaysLabelMarkers: true,

		Tooltip: TooltipOptions{
			Padding:          12,
			MinWidth:         180,
			MaxWidth:         300,
			Height:           56,
			Offset:           15,
			FlipOffset:       30,
			Margin:           10,
			Lift:             20,
			TitleFontSize:    13,
			SubtitleFontSize: 11,
		},
	}
}
