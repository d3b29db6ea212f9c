package projector

import "unicode/utf8"

// avgCharWidth is the average glyph width as a fraction of the font size.
const avgCharWidth = 0.6

// EstimateTextWidth estimates the rendered width of text in pixels from its
// rune count. The drawing layer owns no font metrics, so layout works from
// this estimate.
func EstimateTextWidth(text string, fontSize float64) float64 {
	return float64(utf8.RuneCountInString(text)) * fontSize * avgCharWidth
}

// Truncate shortens text to at most maxRunes runes, ending in an ellipsis
// when anything was cut.
func Truncate(text string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxRunes-1]) + "…"
}
