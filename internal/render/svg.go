/*
Package render draws projected timeline frames as SVG documents.

It is a thin drawing layer: every position, visibility flag and label
placement comes from a projector.Frame, and this package only decides colors,
fonts and marker shapes. The output is a standalone SVG document, suitable for
writing to disk or serving over HTTP.
*/
package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"eracanvas/internal/projector"
)

// MarkerStyle controls how a point shape is drawn.
type MarkerStyle struct {
	Shape       string  `yaml:"shape"` // "circle", "square", "diamond" or "triangle"
	FillColor   string  `yaml:"fill_color"`
	StrokeColor string  `yaml:"stroke_color"`
	StrokeWidth float64 `yaml:"stroke_width"`
}

// Theme holds every color and font decision of the drawing layer.
type Theme struct {
	FontFamily string `yaml:"font_family"`

	Background string `yaml:"background"`
	Axis       string `yaml:"axis"`
	Text       string `yaml:"text"`
	Muted      string `yaml:"muted"`
	Span       string `yaml:"span"`
	Hover      string `yaml:"hover"`
	Cursor     string `yaml:"cursor"`

	TooltipBackground string `yaml:"tooltip_background"`
	TooltipBorder     string `yaml:"tooltip_border"`

	Artifact MarkerStyle `yaml:"artifact"`
	Marker   MarkerStyle `yaml:"marker"`
}

// DefaultTheme returns the dark parchment palette.
func DefaultTheme() Theme {
	return Theme{
		FontFamily: "Georgia, serif",

		Background: "#1a1612",
		Axis:       "#8b7355",
		Text:       "#e8dcc8",
		Muted:      "#a89880",
		Span:       "#c9a96e",
		Hover:      "#ffd700",
		Cursor:     "#c9a96e",

		TooltipBackground: "#2a241c",
		TooltipBorder:     "#c9a96e",

		Artifact: MarkerStyle{
			Shape:       "diamond",
			FillColor:   "#d4af37",
			StrokeColor: "#1a1612",
			StrokeWidth: 1,
		},
		Marker: MarkerStyle{
			Shape:       "circle",
			FillColor:   "#8fbc8f",
			StrokeColor: "#1a1612",
			StrokeWidth: 1,
		},
	}
}

// escaped returns a copy of t whose values are safe inside XML attributes and
// text.
func (t Theme) escaped() Theme {
	for _, v := range []*string{
		&t.FontFamily, &t.Background, &t.Axis, &t.Text, &t.Muted, &t.Span,
		&t.Hover, &t.Cursor, &t.TooltipBackground, &t.TooltipBorder,
	} {
		*v = escapeXML(*v)
	}
	t.Artifact = t.Artifact.escaped()
	t.Marker = t.Marker.escaped()
	return t
}

func (m MarkerStyle) escaped() MarkerStyle {
	m.FillColor = escapeXML(m.FillColor)
	m.StrokeColor = escapeXML(m.StrokeColor)
	return m
}

const (
	majorTickLength = 8
	minorTickLength = 4
	axisLabelGap    = 18
)

// SVG renders f as a complete SVG document. pixelRatio scales the document's
// intrinsic size while the viewBox stays in CSS pixels.
func SVG(f *projector.Frame, theme Theme, pixelRatio float64) string {
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	w, h := f.Size.Width, f.Size.Height
	theme = theme.escaped()

	var svg strings.Builder
	svg.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg width="%s" height="%s" viewBox="0 0 %s %s" xmlns="http://www.w3.org/2000/svg">
<rect width="100%%" height="100%%" fill="%s"/>
<defs>
<style>
text { font-family: %s; fill: %s; }
.muted { fill: %s; }
</style>
</defs>
`, num(w*pixelRatio), num(h*pixelRatio), num(w), num(h), theme.Background,
		theme.FontFamily, theme.Text, theme.Muted))

	drawAxis(&svg, f, theme)

	for _, b := range f.Spans {
		if b.Visible {
			drawSpan(&svg, b, theme)
		}
	}
	for _, p := range f.Markers {
		if p.Visible {
			drawPoint(&svg, p, theme.Marker, theme)
		}
	}
	for _, p := range f.Artifacts {
		if p.Visible {
			drawPoint(&svg, p, theme.Artifact, theme)
		}
	}

	if f.Cursor != nil {
		drawCursor(&svg, f, theme)
	}
	if f.Tooltip != nil {
		drawTooltip(&svg, *f.Tooltip, theme)
	}

	svg.WriteString("</svg>")
	return svg.String()
}

func drawAxis(svg *strings.Builder, f *projector.Frame, theme Theme) {
	y := f.Axis.Y
	svg.WriteString(fmt.Sprintf(`<line x1="0" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="1"/>`,
		num(y), num(f.Size.Width), num(y), theme.Axis))

	for _, t := range f.Axis.Ticks {
		length := float64(minorTickLength)
		if t.Major {
			length = majorTickLength
		}
		svg.WriteString(fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="1"/>`,
			num(t.X), num(y), num(t.X), num(y+length), theme.Axis))

		if t.Major {
			svg.WriteString(fmt.Sprintf(`<text x="%s" y="%s" text-anchor="middle" font-size="%s" class="muted">%s</text>`,
				num(t.X), num(y+axisLabelGap), num(f.Axis.FontSize), escapeXML(t.Label)))
		}
	}
}

func drawSpan(svg *strings.Builder, b projector.Bar, theme Theme) {
	color := theme.Span
	if b.Hovered {
		color = theme.Hover
	}

	svg.WriteString(fmt.Sprintf(`<rect x="%s" y="%s" width="%s" height="%s" rx="%s" fill="%s" fill-opacity="0.6"/>`,
		num(b.DrawStartX), num(b.Y-b.Height/2), num(math.Max(0, b.DrawEndX-b.DrawStartX)), num(b.Height),
		num(b.Height/2), color))

	capStyle := MarkerStyle{Shape: "diamond", FillColor: color, StrokeColor: theme.Background, StrokeWidth: 1}
	if b.StartCap {
		drawShape(svg, b.StartX, b.Y, b.Height, capStyle)
	}
	if b.EndCap {
		drawShape(svg, b.EndX, b.Y, b.Height, capStyle)
	}

	drawLabel(svg, b.Label, "")
}

func drawPoint(svg *strings.Builder, p projector.Point, style MarkerStyle, theme Theme) {
	if p.Hovered {
		style.FillColor = theme.Hover
	}
	drawShape(svg, p.X, p.Y, p.Size, style)
	drawLabel(svg, p.Label, "muted")
}

func drawLabel(svg *strings.Builder, l projector.Label, class string) {
	if !l.Visible || l.Text == "" {
		return
	}
	attr := ""
	if class != "" {
		attr = fmt.Sprintf(` class="%s"`, class)
	}
	svg.WriteString(fmt.Sprintf(`<text x="%s" y="%s" text-anchor="middle" dominant-baseline="middle" font-size="%s"%s>%s</text>`,
		num(l.X), num(l.Y), num(l.FontSize), attr, escapeXML(l.Text)))
}

func drawCursor(svg *strings.Builder, f *projector.Frame, theme Theme) {
	c := f.Cursor
	svg.WriteString(fmt.Sprintf(`<line x1="%s" y1="0" x2="%s" y2="%s" stroke="%s" stroke-width="1" stroke-dasharray="4 4" stroke-opacity="0.6"/>`,
		num(c.X), num(c.X), num(f.Axis.Y), theme.Cursor))
	svg.WriteString(fmt.Sprintf(`<text x="%s" y="%s" text-anchor="middle" font-size="%s" fill="%s">%s</text>`,
		num(c.X), num(c.LabelY), num(f.Axis.FontSize), theme.Cursor, escapeXML(c.Label)))
}

func drawTooltip(svg *strings.Builder, t projector.Tooltip, theme Theme) {
	svg.WriteString(fmt.Sprintf(`<g class="tooltip"><rect x="%s" y="%s" width="%s" height="%s" rx="4" fill="%s" stroke="%s" stroke-width="1"/>`,
		num(t.X), num(t.Y), num(t.Width), num(t.Height), theme.TooltipBackground, theme.TooltipBorder))

	titleY := t.Y + t.Padding + t.TitleFontSize
	svg.WriteString(fmt.Sprintf(`<text x="%s" y="%s" font-size="%s" font-weight="bold">%s</text>`,
		num(t.X+t.Padding), num(titleY), num(t.TitleFontSize), escapeXML(t.Title)))

	if t.Subtitle != "" {
		svg.WriteString(fmt.Sprintf(`<text x="%s" y="%s" font-size="%s" class="muted">%s</text>`,
			num(t.X+t.Padding), num(titleY+t.SubtitleFontSize+6), num(t.SubtitleFontSize), escapeXML(t.Subtitle)))
	}
	svg.WriteString("</g>")
}

// drawShape draws a point shape centered on (x, y). size is the radius for
// circles and the half-extent for the other shapes.
func drawShape(svg *strings.Builder, x, y, size float64, style MarkerStyle) {
	paint := fmt.Sprintf(`fill="%s" stroke="%s" stroke-width="%s"`, style.FillColor, style.StrokeColor, num(style.StrokeWidth))

	switch strings.ToLower(style.Shape) {
	case "square":
		svg.WriteString(fmt.Sprintf(`<rect x="%s" y="%s" width="%s" height="%s" %s/>`,
			num(x-size), num(y-size), num(size*2), num(size*2), paint))

	case "diamond":
		svg.WriteString(fmt.Sprintf(`<polygon points="%s,%s %s,%s %s,%s %s,%s" %s/>`,
			num(x), num(y-size),
			num(x+size), num(y),
			num(x), num(y+size),
			num(x-size), num(y),
			paint))

	case "triangle":
		height := size * 1.5
		svg.WriteString(fmt.Sprintf(`<polygon points="%s,%s %s,%s %s,%s" %s/>`,
			num(x), num(y-height),
			num(x-size), num(y+height/2),
			num(x+size), num(y+height/2),
			paint))

	default:
		svg.WriteString(fmt.Sprintf(`<circle cx="%s" cy="%s" r="%s" %s/>`,
			num(x), num(y), num(size), paint))
	}
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

// escapeXML escapes the XML special characters so record names can be
// embedded in SVG text nodes and attributes.
func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
