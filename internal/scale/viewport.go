// Package scale holds the numeric year viewport of the timeline and its
// linear mapping to pixel space.
//
// A Viewport is always a sub-range of a fixed Domain. Zooming changes the
// span while keeping the year under an anchor pixel in place; panning slides
// the whole window and never changes its span. Both finish with a domain
// clamp so the viewport can never leave the navigable years.
package scale

import "math"

// Domain is the fixed outer bound of all navigable years.
type Domain struct {
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
}

// Width returns the number of years covered by the domain.
func (d Domain) Width() float64 {
	return d.End - d.Start
}

// DefaultDomain spans the Early Bronze Age to the end of the Middle Ages.
var DefaultDomain = Domain{Start: -4500, End: 1500}

// DefaultMinSpan is the narrowest viewport, in years, zooming can reach.
const DefaultMinSpan = 50.0

// Viewport is the currently visible [Start, End) year range.
type Viewport struct {
	Start float64 `yaml:"start" json:"start"`
	End   float64 `yaml:"end" json:"end"`
}

// Span returns End-Start.
func (v Viewport) Span() float64 {
	return v.End - v.Start
}

// YearToPixel linearly maps a year onto a surface that is width pixels wide.
func YearToPixel(year float64, v Viewport, width float64) float64 {
	return ((year - v.Start) / v.Span()) * width
}

// PixelToYear is the exact inverse of YearToPixel.
func PixelToYear(px float64, v Viewport, width float64) float64 {
	return v.Start + (px/width)*v.Span()
}

// Zoom scales the span by 1/factor, holding fixed the year currently under
// anchorPx. The new span is clamped to [minSpan, domain width] and the
// result is clamped into the domain. Non-positive or NaN factors and a
// non-positive surface width leave the viewport untouched.
func (v *Viewport) Zoom(factor, anchorPx, width float64, d Domain, minSpan float64) {
	if !(factor > 0) || !(width > 0) {
		return
	}

	current := v.Span()
	maxSpan := d.Width()
	minSpan = math.Min(minSpan, maxSpan)
	span := math.Max(minSpan, math.Min(maxSpan, current/factor))

	ratio := anchorPx / width
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		ratio = 0.5
	}
	anchorYear := v.Start + current*ratio

	v.Start = anchorYear - span*ratio
	v.End = v.Start + span
	v.Clamp(d)
}

// Pan slides both bounds by delta years, then clamps into the domain.
func (v *Viewport) Pan(delta float64, d Domain) {
	if math.IsNaN(delta) {
		return
	}
	v.Start += delta
	v.End += delta
	v.Clamp(d)
}

// Clamp slides the viewport back inside the domain without altering its
// span. A viewport wider than the domain collapses onto the domain.
func (v *Viewport) Clamp(d Domain) {
	span := v.Span()
	if span >= d.Width() || math.IsInf(v.Start, 0) || math.IsInf(v.End, 0) {
		v.Start, v.End = d.Start, d.End
		return
	}

	if v.Start < d.Start {
		v.Start = d.Start
		v.End = v.Start + span
	}
	if v.End > d.End {
		v.End = d.End
		v.Start = v.End - span
	}
}

// Fit returns the initial viewport for a set of year midpoints: their range
// padded by 20% on each side, widened to at least minSpan and clamped into
// the domain. An empty set yields the whole domain.
func Fit(midpoints []float64, d Domain, minSpan float64) Viewport {
	if len(midpoints) == 0 {
		return Viewport{Start: d.Start, End: d.End}
	}

	lo, hi := midpoints[0], midpoints[0]
	for _, m := range midpoints[1:] {
		lo = math.Min(lo, m)
		hi = math.Max(hi, m)
	}
	padding := (hi - lo) * 0.2

	v := Viewport{
		Start: math.Max(d.Start, lo-padding),
		End:   math.Min(d.End, hi+padding),
	}

	minSpan = math.Min(minSpan, d.Width())
	if v.Span() < minSpan {
		center := (v.Start + v.End) / 2
		v.Start = center - minSpan/2
		v.End = center + minSpan/2
	}
	v.Clamp(d)
	return v
}
