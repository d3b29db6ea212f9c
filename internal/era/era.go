/*
Package era converts free-form, hand-authored date descriptions such as
"6th Century BC", "2400-2200 BC" or "27 BC - 14 AD" into numeric year
intervals on an astronomical year axis.

Years before the common era are negative and years of the common era are
positive. No year zero gap is modeled: 1 BC is -1 and 1 AD is 1, and the
century arithmetic below works directly on those integers.

Parsing never fails. Input that matches none of the recognised patterns
degrades to a best-effort fallback interval, because the upstream data is
free text and the timeline must still place every record somewhere.
*/
package era

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Interval is a resolved year range. Start <= End always holds and Midpoint
// is exactly (Start+End)/2. Display keeps the original text for UI echo.
type Interval struct {
	Start    int
	End      int
	Midpoint float64
	Display  string
}

// Point reports whether the interval covers a single year.
func (i Interval) Point() bool {
	return i.Start == i.End
}

// Era tokens are listed longest first so "BCE" is never split into "BC" + "E",
// which would otherwise break ranges such as "27 BCE - 14 CE".
const eraToken = `(?:(BCE|BC|AD|CE)\b)?`

var (
	centuryRangePattern = regexp.MustCompile(`(?i)(\d+)(?:st|nd|rd|th)\s*[-–]\s*(\d+)(?:st|nd|rd|th)\s*Century\s*` + eraToken)
	centuryPattern      = regexp.MustCompile(`(?i)(\d+)(?:st|nd|rd|th)\s*Century\s*` + eraToken)
	yearRangePattern    = regexp.MustCompile(`(?i)(\d+)\s*` + eraToken + `\s*[-–]\s*(\d+)\s*` + eraToken)
	singleYearPattern   = regexp.MustCompile(`(?i)(\d+)\s*(BCE|BC|AD|CE)\b`)
	numberPattern       = regexp.MustCompile(`\d+`)
)

// Parse resolves text into an Interval using the first matching pattern class:
//
//  1. century range    "6th-7th Century AD"
//  2. single century   "6th Century BC"
//  3. year range       "2400-2200 BC", "27 BC - 14 AD", "2400-2200"
//  4. single year      "476 AD"
//  5. fallback         first integer read as BC, or the zero interval
//
// A year range without any era token reads as BC, unless "BC" or "AD"
// appears elsewhere in the text, in which case both years stay unsigned.
//
// The text is NFKC-normalized before matching so full-width digits and
// dashes are recognised; Display always carries the raw input.
func Parse(text string) Interval {
	normalized := strings.TrimSpace(norm.NFKC.String(text))

	if start, end, ok := parseCenturyRange(normalized); ok {
		return newInterval(start, end, text)
	}
	if start, end, ok := parseCentury(normalized); ok {
		return newInterval(start, end, text)
	}
	if start, end, ok := parseYearRange(normalized); ok {
		return newInterval(start, end, text)
	}
	if year, ok := parseSingleYear(normalized); ok {
		return newInterval(year, year, text)
	}

	fallback := 0
	if digits := numberPattern.FindString(normalized); digits != "" {
		fallback = -atoi(digits)
	}
	return newInterval(fallback, fallback, text)
}

func newInterval(start, end int, display string) Interval {
	if start > end {
		start, end = end, start
	}
	return Interval{
		Start:    start,
		End:      end,
		Midpoint: float64(start+end) / 2,
		Display:  display,
	}
}

func parseCenturyRange(s string) (int, int, bool) {
	m := centuryRangePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}
	bc := isBC(m[3])
	aStart, aEnd := centuryBounds(atoi(m[1]), bc)
	bStart, bEnd := centuryBounds(atoi(m[2]), bc)
	return min(aStart, bStart), max(aEnd, bEnd), true
}

func parseCentury(s string) (int, int, bool) {
	m := centuryPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}
	start, end := centuryBounds(atoi(m[1]), isBC(m[2]))
	return start, end, true
}

// centuryBounds maps century n to its year bounds: BC century n spans
// [-(n*100), -((n-1)*100)], AD century n spans [(n-1)*100, n*100].
func centuryBounds(n int, bc bool) (int, int) {
	if bc {
		return -(n * 100), -((n - 1) * 100)
	}
	return (n - 1) * 100, n * 100
}

func parseYearRange(s string) (int, int, bool) {
	m := yearRangePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}
	startEra, endEra := m[2], m[4]

	switch {
	case startEra == "" && endEra != "":
		startEra = endEra
	case startEra != "" && endEra == "":
		endEra = startEra
	case startEra == "" && endEra == "":
		upper := strings.ToUpper(s)
		if !strings.Contains(upper, "BC") && !strings.Contains(upper, "AD") {
			startEra, endEra = "BC", "BC"
		}
	}

	return signed(atoi(m[1]), startEra), signed(atoi(m[3]), endEra), true
}

func parseSingleYear(s string) (int, bool) {
	m := singleYearPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	return signed(atoi(m[1]), m[2]), true
}

func isBC(token string) bool {
	return strings.HasPrefix(strings.ToUpper(token), "BC")
}

func signed(year int, token string) int {
	if isBC(token) {
		return -year
	}
	return year
}

// atoi reads a run of ASCII digits. Values that overflow int read as zero.
func atoi(digits string) int {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// FormatYear renders a signed year for display. Zero renders as "1 AD"
// because the axis has no year zero.
func FormatYear(year int) string {
	switch {
	case year == 0:
		return "1 AD"
	case year < 0:
		return strconv.Itoa(-year) + " BC"
	default:
		return strconv.Itoa(year) + " AD"
	}
}
