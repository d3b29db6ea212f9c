package scale

import (
	"math"
	"strconv"
)

// Level is one of four discrete zoom tiers derived from the viewport span.
type Level int

const (
	LevelEra Level = iota + 1
	LevelPeriod
	LevelCentury
	LevelDecade
)

// LevelConfig describes a zoom tier: the smallest span that still selects
// it, its major/minor tick intervals and whether point entities are labelled.
type LevelConfig struct {
	Level      Level
	Name       string
	Threshold  float64
	Major      int
	Minor      int
	ShowLabels bool
}

var levelConfigs = [...]LevelConfig{
	{Level: LevelEra, Name: "Era", Threshold: 2500, Major: 1000, Minor: 500, ShowLabels: false},
	{Level: LevelPeriod, Name: "Period", Threshold: 250, Major: 100, Minor: 50, ShowLabels: true},
	{Level: LevelCentury, Name: "Century", Threshold: 50, Major: 50, Minor: 10, ShowLabels: true},
	{Level: LevelDecade, Name: "Decade", Threshold: 0, Major: 10, Minor: 5, ShowLabels: true},
}

// Config returns the tier description. Out-of-range levels resolve to the
// nearest valid tier.
func (l Level) Config() LevelConfig {
	i := int(l) - 1
	i = max(0, min(len(levelConfigs)-1, i))
	return levelConfigs[i]
}

func (l Level) String() string {
	return l.Config().Name
}

// LevelOf selects the zoom tier for a viewport from its span.
func LevelOf(v Viewport) Level {
	span := v.Span()
	for _, cfg := range levelConfigs {
		if span >= cfg.Threshold {
			return cfg.Level
		}
	}
	return LevelDecade
}

// Tick is one axis graduation.
type Tick struct {
	Year  int
	Label string
	Major bool
}

// GenerateTicks snaps the viewport outward to the minor tick grid of level
// and emits one tick per minor step, in ascending year order.
func GenerateTicks(v Viewport, level Level) []Tick {
	cfg := level.Config()
	minor := float64(cfg.Minor)

	first := int(math.Floor(v.Start/minor)) * cfg.Minor
	last := int(math.Ceil(v.End/minor)) * cfg.Minor

	ticks := make([]Tick, 0, (last-first)/cfg.Minor+1)
	for year := first; year <= last; year += cfg.Minor {
		ticks = append(ticks, Tick{
			Year:  year,
			Label: TickLabel(year, level),
			Major: year%cfg.Major == 0,
		})
	}
	return ticks
}

// TickLabel formats an axis year. Coarse tiers abbreviate magnitudes of a
// thousand years or more ("2k BC", "1.5k AD"); year zero renders as "1 AD".
func TickLabel(year int, level Level) string {
	if year == 0 {
		return "1 AD"
	}

	suffix := " AD"
	abs := year
	if year < 0 {
		suffix = " BC"
		abs = -year
	}

	if level <= LevelPeriod && abs >= 1000 {
		prec := 1
		if abs%1000 == 0 {
			prec = 0
		}
		thousands := math.Round(float64(abs)/100) / 10
		return strconv.FormatFloat(thousands, 'f', prec, 64) + "k" + suffix
	}
	return strconv.Itoa(abs) + suffix
}
