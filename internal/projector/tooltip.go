package projector

import "math"

// TooltipContent is the single active tooltip descriptor: what to show and
// the pixel it is anchored to.
type TooltipContent struct {
	Title    string
	Subtitle string
	AnchorX  float64
	AnchorY  float64
}

// Tooltip is the placed tooltip box.
type Tooltip struct {
	Title            string
	Subtitle         string
	X, Y             float64
	Width, Height    float64
	Padding          float64
	TitleFontSize    float64
	SubtitleFontSize float64
	Flipped          bool
}

// LayoutTooltip sizes the tooltip to its text within [MinWidth, MaxWidth],
// places it Offset pixels above the anchor, flips it below the anchor when
// it would cross the top margin, and clamps it horizontally so the whole box
// stays inside [0, surfaceWidth].
func LayoutTooltip(c TooltipContent, surfaceWidth float64, opts TooltipOptions) Tooltip {
	textWidth := math.Max(
		EstimateTextWidth(c.Title, opts.TitleFontSize),
		EstimateTextWidth(c.Subtitle, opts.SubtitleFontSize),
	)
	width := math.Min(opts.MaxWidth, math.Max(opts.MinWidth, textWidth+2*opts.Padding))

	margin := opts.Margin
	if surfaceWidth < 2*margin {
		margin = 0
	}
	width = math.Max(0, math.Min(width, surfaceWidth-2*margin))

	t := Tooltip{
		Title:            c.Title,
		Subtitle:         c.Subtitle,
		Width:            width,
		Height:           opts.Height,
		Padding:          opts.Padding,
		TitleFontSize:    opts.TitleFontSize,
		SubtitleFontSize: opts.SubtitleFontSize,
	}

	t.X = c.AnchorX - width/2
	t.X = math.Max(margin, math.Min(surfaceWidth-width-margin, t.X))

	t.Y = c.AnchorY - opts.Height - opts.Offset
	if t.Y < opts.Margin {
		t.Y = c.AnchorY + opts.FlipOffset
		t.Flipped = true
	}

	return t
}
