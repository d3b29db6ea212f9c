// Package timeline turns the externally supplied artifact and landmark
// records into read-only timeline entities with resolved year intervals,
// and computes their display rows.
package timeline

import (
	"errors"
	"fmt"

	"eracanvas/internal/era"
)

// Artifact is a collection item. Era is free text; the optional explicit
// YearStart/YearEnd pair overrides it when both are set.
type Artifact struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Category    string   `yaml:"category" json:"category"`
	Era         string   `yaml:"era" json:"era"`
	Period      string   `yaml:"period" json:"period"`
	Origin      string   `yaml:"origin" json:"origin"`
	Material    string   `yaml:"material" json:"material"`
	Weight      string   `yaml:"weight,omitempty" json:"weight,omitempty"`
	Dimensions  string   `yaml:"dimensions,omitempty" json:"dimensions,omitempty"`
	Condition   string   `yaml:"condition,omitempty" json:"condition,omitempty"`
	Description string   `yaml:"description" json:"description"`
	Images      []string `yaml:"images" json:"images"`
	Tags        []string `yaml:"tags" json:"tags"`
	Featured    bool     `yaml:"featured,omitempty" json:"featured,omitempty"`
	YearStart   *int     `yaml:"yearStart,omitempty" json:"yearStart,omitempty"`
	YearEnd     *int     `yaml:"yearEnd,omitempty" json:"yearEnd,omitempty"`
}

// Interval resolves the artifact's year interval.
func (a Artifact) Interval() era.Interval {
	if a.YearStart != nil && a.YearEnd != nil && *a.YearStart <= *a.YearEnd {
		return era.Interval{
			Start:    *a.YearStart,
			End:      *a.YearEnd,
			Midpoint: float64(*a.YearStart+*a.YearEnd) / 2,
			Display:  a.Era,
		}
	}
	return era.Parse(a.Era)
}

// LandmarkType classifies a landmark.
type LandmarkType string

const (
	CivilizationStart LandmarkType = "civilization_start"
	Civilization      LandmarkType = "civilization"
	CivilizationEnd   LandmarkType = "civilization_end"
	MajorEvent        LandmarkType = "major_event"
	Person            LandmarkType = "person"
)

// Landmark is a historical reference point: either a single Year or a
// YearStart/YearEnd span, never both.
type Landmark struct {
	ID          string       `yaml:"id" json:"id"`
	Name        string       `yaml:"name" json:"name"`
	Type        LandmarkType `yaml:"type" json:"type"`
	Description string       `yaml:"description,omitempty" json:"description,omitempty"`
	Year        *int         `yaml:"year,omitempty" json:"year,omitempty"`
	YearStart   *int         `yaml:"yearStart,omitempty" json:"yearStart,omitempty"`
	YearEnd     *int         `yaml:"yearEnd,omitempty" json:"yearEnd,omitempty"`
}

var (
	// ErrNoDates marks a landmark carrying neither a year nor a complete span.
	ErrNoDates = errors.New("landmark has neither year nor yearStart/yearEnd")
	// ErrAmbiguousDates marks a landmark carrying both a year and span fields.
	ErrAmbiguousDates = errors.New("landmark has both year and yearStart/yearEnd")
	// ErrInvertedSpan marks a span whose start is after its end.
	ErrInvertedSpan = errors.New("landmark yearStart is after yearEnd")
)

// Interval validates the landmark's date fields and resolves them.
func (l Landmark) Interval() (era.Interval, error) {
	hasSpanField := l.YearStart != nil || l.YearEnd != nil
	hasSpan := l.YearStart != nil && l.YearEnd != nil

	switch {
	case l.Year != nil && hasSpanField:
		return era.Interval{}, ErrAmbiguousDates
	case l.Year != nil:
		return era.Interval{
			Start:    *l.Year,
			End:      *l.Year,
			Midpoint: float64(*l.Year),
			Display:  era.FormatYear(*l.Year),
		}, nil
	case !hasSpan:
		return era.Interval{}, ErrNoDates
	case *l.YearStart > *l.YearEnd:
		return era.Interval{}, fmt.Errorf("%w: %d > %d", ErrInvertedSpan, *l.YearStart, *l.YearEnd)
	}

	return era.Interval{
		Start:    *l.YearStart,
		End:      *l.YearEnd,
		Midpoint: float64(*l.YearStart+*l.YearEnd) / 2,
		Display:  era.FormatYear(*l.YearStart) + " – " + era.FormatYear(*l.YearEnd),
	}, nil
}
