package projector

import (
	"math"

	"eracanvas/internal/era"
	"eracanvas/internal/scale"
	"eracanvas/internal/timeline"
)

// Input is everything a frame depends on.
type Input struct {
	Entities []timeline.Entity
	Layout   timeline.Layout
	Viewport scale.Viewport
	Size     Size

	Hovered Ref
	Tooltip *TooltipContent

	CursorX       float64
	CursorVisible bool

	Options Options
}

// Project computes the frame geometry for in.
func Project(in Input) *Frame {
	opts := in.Options
	w, h := in.Size.Width, in.Size.Height
	level := scale.LevelOf(in.Viewport)
	cfg := level.Config()

	f := &Frame{
		Size:     in.Size,
		Viewport: in.Viewport,
		Level:    cfg,
		hitSlop:  opts.HitSlop,
	}

	axisY := h * opts.AxisRatio
	f.Axis = projectAxis(in.Viewport, level, w, axisY, opts)

	x := func(year float64) float64 {
		return scale.YearToPixel(year, in.Viewport, w)
	}
	onScreen := func(px float64) bool {
		return px > -opts.CullMargin && px < w+opts.CullMargin
	}

	for _, e := range in.Entities {
		hovered := !in.Hovered.IsZero() && RefOf(e) == in.Hovered
		row := in.Layout.Row(e)

		switch e.Role {
		case timeline.RoleArtifact:
			p := Point{
				Entity:  e,
				Row:     row,
				X:       x(e.Interval.Midpoint),
				Y:       h * opts.ArtifactRatio,
				Size:    opts.ArtifactSize,
				Hovered: hovered,
			}
			p.Visible = onScreen(p.X)
			if hovered {
				p.Size *= opts.HoverScale
			}

			text := Truncate(e.Name, opts.LabelMaxRunes)
			p.Label = Label{
				Text:     text,
				X:        p.X,
				Y:        axisY + opts.ArtifactLabelOffset,
				Width:    EstimateTextWidth(text, opts.ArtifactFontSize),
				FontSize: opts.ArtifactFontSize,
				Visible:  p.Visible && cfg.ShowLabels,
			}

			if p.Visible && p.X > 0 && p.X < w {
				f.VisibleArtifacts++
			}
			f.Artifacts = append(f.Artifacts, p)

		case timeline.RoleSpan:
			b := projectSpan(e, row, x(float64(e.Interval.Start)), x(float64(e.Interval.End)), w, h, opts)
			b.Hovered = hovered
			if b.Visible {
				f.VisibleSpans++
			}
			f.Spans = append(f.Spans, b)

		case timeline.RoleMarker:
			p := Point{
				Entity:  e,
				Row:     row,
				X:       x(e.Interval.Midpoint),
				Y:       h*opts.MarkerRatio + float64(row)*opts.MarkerSpacing,
				Size:    opts.MarkerSize,
				Hovered: hovered,
			}
			p.Visible = onScreen(p.X)
			if hovered {
				p.Size *= opts.HoverScale
			}
			p.Label = Label{
				Text:     e.Name,
				X:        p.X,
				Y:        p.Y + opts.MarkerLabelOffset + opts.MarkerFontSize/2,
				Width:    EstimateTextWidth(e.Name, opts.MarkerFontSize),
				FontSize: opts.MarkerFontSize,
				Visible:  p.Visible && (opts.AlwaysLabelMarkers || cfg.ShowLabels),
			}
			f.Markers = append(f.Markers, p)
		}
	}

	if in.Tooltip != nil {
		t := LayoutTooltip(*in.Tooltip, w, opts.Tooltip)
		f.Tooltip = &t
	}

	if in.CursorVisible && in.CursorX >= 0 && in.CursorX <= w {
		year := int(math.Round(scale.PixelToYear(in.CursorX, in.Viewport, w)))
		f.Cursor = &Cursor{
			X:      in.CursorX,
			Year:   year,
			Label:  era.FormatYear(year),
			LabelY: axisY - 5,
		}
	}

	return f
}

func projectSpan(e timeline.Entity, row int, startX, endX, w, h float64, opts Options) Bar {
	lo, hi := -opts.ClipMargin, w+opts.ClipMargin

	b := Bar{
		Entity:  e,
		Row:     row,
		StartX:  startX,
		EndX:    endX,
		Y:       h*opts.SpanRatio - float64(row)*opts.SpanSpacing,
		Height:  opts.BarHeight,
		Visible: !(endX < -opts.CullMargin || startX > w+opts.CullMargin),
	}
	b.DrawStartX = math.Max(lo, startX)
	b.DrawEndX = math.Min(hi, endX)
	b.StartCap = startX > lo && startX < hi
	b.EndCap = endX > lo && endX < hi

	lw := EstimateTextWidth(e.Name, opts.SpanFontSize)
	center := (b.DrawStartX + b.DrawEndX) / 2
	b.Label = Label{
		Text:     e.Name,
		X:        math.Max(lw/2+opts.LabelMargin, math.Min(w-lw/2-opts.LabelMargin, center)),
		Y:        b.Y - opts.SpanLabelOffset,
		Width:    lw,
		FontSize: opts.SpanFontSize,
		Visible:  b.Visible,
	}
	return b
}

func projectAxis(v scale.Viewport, level scale.Level, w, axisY float64, opts Options) Axis {
	axis := Axis{Y: axisY, FontSize: opts.AxisFontSize}
	for _, t := range scale.GenerateTicks(v, level) {
		px := scale.YearToPixel(float64(t.Year), v, w)
		if px < -opts.ClipMargin || px > w+opts.ClipMargin {
			continue
		}
		axis.Ticks = append(axis.Ticks, AxisTick{Tick: t, X: px})
	}
	return axis
}
