package timeline

import (
	"sort"

	"eracanvas/internal/era"
)

// Kind tells which record type an entity was built from.
type Kind int

const (
	KindArtifact Kind = iota
	KindLandmark
)

// Role decides how an entity is laid out and drawn.
type Role int

const (
	// RoleArtifact entities sit on a fixed line near the axis.
	RoleArtifact Role = iota
	// RoleSpan entities are date-ranged bars stacked upward by row.
	RoleSpan
	// RoleMarker entities are point markers stacked downward by row.
	RoleMarker
)

func (r Role) String() string {
	switch r {
	case RoleArtifact:
		return "artifact"
	case RoleSpan:
		return "span"
	case RoleMarker:
		return "marker"
	default:
		return "unknown"
	}
}

// Entity is a record augmented with its resolved interval. Entities are
// never mutated once built.
type Entity struct {
	Kind     Kind
	Role     Role
	ID       string
	Name     string
	Subtitle string
	Interval era.Interval
}

// Selectable reports whether selecting the entity navigates somewhere.
// Only collection items have a detail page.
func (e Entity) Selectable() bool {
	return e.Kind == KindArtifact
}

// Rejection records a landmark left out of the layout and why.
type Rejection struct {
	ID  string
	Err error
}

// BuildReport summarizes a Build call.
type BuildReport struct {
	Artifacts  int
	Spans      int
	Markers    int
	Rejections []Rejection
}

// Build resolves every record into an Entity. Artifacts come first, then
// landmarks; each group is ordered by midpoint with ties kept in input
// order. Landmarks with malformed dates are excluded and reported.
//
// Person landmarks are always point markers placed at the midpoint of their
// dates. Other landmarks become spans when they carry yearStart/yearEnd and
// point markers when they carry a single year.
func Build(artifacts []Artifact, landmarks []Landmark) ([]Entity, BuildReport) {
	var report BuildReport

	items := make([]Entity, 0, len(artifacts))
	for _, a := range artifacts {
		items = append(items, Entity{
			Kind:     KindArtifact,
			Role:     RoleArtifact,
			ID:       a.ID,
			Name:     a.Name,
			Subtitle: a.Era,
			Interval: a.Interval(),
		})
	}
	sortByMidpoint(items)
	report.Artifacts = len(items)

	marks := make([]Entity, 0, len(landmarks))
	for _, l := range landmarks {
		interval, err := l.Interval()
		if err != nil {
			report.Rejections = append(report.Rejections, Rejection{ID: l.ID, Err: err})
			continue
		}

		role := RoleMarker
		if l.Type != Person && l.Year == nil {
			role = RoleSpan
		}

		subtitle := l.Description
		if subtitle == "" {
			subtitle = interval.Display
		}

		marks = append(marks, Entity{
			Kind:     KindLandmark,
			Role:     role,
			ID:       l.ID,
			Name:     l.Name,
			Subtitle: subtitle,
			Interval: interval,
		})
		if role == RoleSpan {
			report.Spans++
		} else {
			report.Markers++
		}
	}
	sortByMidpoint(marks)

	return append(items, marks...), report
}

func sortByMidpoint(entities []Entity) {
	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].Interval.Midpoint < entities[j].Interval.Midpoint
	})
}
