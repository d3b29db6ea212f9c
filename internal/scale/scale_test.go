package scale_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eracanvas/internal/scale"
)

const eps = 1e-6

func TestPixelYearRoundTrip(t *testing.T) {
	t.Parallel()

	viewports := []scale.Viewport{
		{Start: -4500, End: 1500},
		{Start: -3000, End: -2950},
		{Start: 120.5, End: 987.25},
	}
	widths := []float64{1, 320, 1280.5}

	for _, v := range viewports {
		for _, w := range widths {
			for _, px := range []float64{-40, 0, 0.5, w / 3, w, w + 99} {
				year := scale.PixelToYear(px, v, w)
				assert.InDelta(t, px, scale.YearToPixel(year, v, w), eps)
			}
		}
	}
}

func TestYearToPixel(t *testing.T) {
	t.Parallel()

	v := scale.Viewport{Start: -1000, End: 1000}
	assert.InDelta(t, 0, scale.YearToPixel(-1000, v, 800), eps)
	assert.InDelta(t, 400, scale.YearToPixel(0, v, 800), eps)
	assert.InDelta(t, 800, scale.YearToPixel(1000, v, 800), eps)
}

func TestZoomPreservesAnchorYear(t *testing.T) {
	t.Parallel()

	v := scale.Viewport{Start: -3000, End: -1000}
	width := 1000.0
	anchor := 250.0
	before := scale.PixelToYear(anchor, v, width)

	v.Zoom(2, anchor, width, scale.DefaultDomain, scale.DefaultMinSpan)

	assert.InDelta(t, 1000, v.Span(), eps)
	assert.InDelta(t, before, scale.PixelToYear(anchor, v, width), eps)
}

func TestZoomStaysInsideBounds(t *testing.T) {
	t.Parallel()

	d := scale.DefaultDomain
	factors := []float64{0.01, 0.5, 0.9, 1, 1.1, 1.5, 10, 1e9}
	anchors := []float64{-500, 0, 1, 400, 799, 800, 5000}
	starts := []scale.Viewport{
		{Start: -4500, End: 1500},
		{Start: -4500, End: -4400},
		{Start: 1400, End: 1500},
		{Start: -200, End: -150},
	}

	for _, start := range starts {
		for _, f := range factors {
			for _, a := range anchors {
				v := start
				v.Zoom(f, a, 800, d, scale.DefaultMinSpan)

				assert.GreaterOrEqual(t, v.Span(), scale.DefaultMinSpan-eps)
				assert.LessOrEqual(t, v.Span(), d.Width()+eps)
				assert.GreaterOrEqual(t, v.Start, d.Start-eps)
				assert.LessOrEqual(t, v.End, d.End+eps)
			}
		}
	}
}

func TestZoomIgnoresInvalidFactor(t *testing.T) {
	t.Parallel()

	v := scale.Viewport{Start: -2000, End: -1000}
	v.Zoom(0, 100, 800, scale.DefaultDomain, scale.DefaultMinSpan)
	v.Zoom(-2, 100, 800, scale.DefaultDomain, scale.DefaultMinSpan)
	assert.Equal(t, scale.Viewport{Start: -2000, End: -1000}, v)
}

func TestPanClampsWithoutChangingSpan(t *testing.T) {
	t.Parallel()

	d := scale.DefaultDomain

	v := scale.Viewport{Start: -4000, End: -3000}
	v.Pan(-2000, d)
	assert.Equal(t, scale.Viewport{Start: -4500, End: -3500}, v)

	v = scale.Viewport{Start: 0, End: 1000}
	v.Pan(900, d)
	assert.Equal(t, scale.Viewport{Start: 500, End: 1500}, v)

	v = scale.Viewport{Start: -2000, End: -1000}
	v.Pan(250, d)
	assert.Equal(t, scale.Viewport{Start: -1750, End: -750}, v)
}

func TestLevelOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		span float64
		want scale.Level
	}{
		{6000, scale.LevelEra},
		{2500, scale.LevelEra},
		{2499, scale.LevelPeriod},
		{250, scale.LevelPeriod},
		{249, scale.LevelCentury},
		{50, scale.LevelCentury},
		{49, scale.LevelDecade},
	}

	for _, tt := range tests {
		got := scale.LevelOf(scale.Viewport{Start: 0, End: tt.span})
		assert.Equal(t, tt.want, got, "span %v", tt.span)
	}

	assert.False(t, scale.LevelEra.Config().ShowLabels)
	assert.True(t, scale.LevelPeriod.Config().ShowLabels)
	assert.Equal(t, 1000, scale.LevelEra.Config().Major)
	assert.Equal(t, 5, scale.LevelDecade.Config().Minor)
}

func TestGenerateTicks(t *testing.T) {
	t.Parallel()

	ticks := scale.GenerateTicks(scale.Viewport{Start: -2750, End: 600}, scale.LevelEra)
	require.NotEmpty(t, ticks)

	assert.Equal(t, -3000, ticks[0].Year)
	assert.Equal(t, 1000, ticks[len(ticks)-1].Year)
	for i := 1; i < len(ticks); i++ {
		assert.Equal(t, 500, ticks[i].Year-ticks[i-1].Year)
	}

	byYear := map[int]scale.Tick{}
	for _, tk := range ticks {
		byYear[tk.Year] = tk
	}
	assert.True(t, byYear[-2000].Major)
	assert.False(t, byYear[-2500].Major)
	assert.Equal(t, "2k BC", byYear[-2000].Label)
	assert.Equal(t, "2.5k BC", byYear[-2500].Label)
	assert.Equal(t, "1 AD", byYear[0].Label)
	assert.Equal(t, "500 AD", byYear[500].Label)
}

func TestTickLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1.5k AD", scale.TickLabel(1500, scale.LevelPeriod))
	assert.Equal(t, "1250 AD", scale.TickLabel(1250, scale.LevelCentury))
	assert.Equal(t, "1.3k AD", scale.TickLabel(1250, scale.LevelPeriod))
	assert.Equal(t, "3000 BC", scale.TickLabel(-3000, scale.LevelDecade))
	assert.Equal(t, "1 AD", scale.TickLabel(0, scale.LevelEra))
}

func TestFit(t *testing.T) {
	t.Parallel()

	d := scale.DefaultDomain

	v := scale.Fit([]float64{-2000, -1000}, d, scale.DefaultMinSpan)
	assert.InDelta(t, -2200, v.Start, eps)
	assert.InDelta(t, -800, v.End, eps)

	v = scale.Fit([]float64{-4400, 1400}, d, scale.DefaultMinSpan)
	assert.Equal(t, scale.Viewport{Start: -4500, End: 1500}, v)

	v = scale.Fit([]float64{300}, d, scale.DefaultMinSpan)
	assert.InDelta(t, scale.DefaultMinSpan, v.Span(), eps)
	assert.InDelta(t, 275, v.Start, eps)

	v = scale.Fit(nil, d, scale.DefaultMinSpan)
	assert.Equal(t, scale.Viewport{Start: d.Start, End: d.End}, v)
}
