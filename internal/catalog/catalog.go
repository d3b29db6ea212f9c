// Package catalog reads the collection records from disk: one YAML file per
// artifact in the items directory and a single list of landmarks, in YAML or
// CSV.
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"eracanvas/internal/timeline"
)

// ErrMissingID is returned for an item file without an id.
var ErrMissingID = errors.New("item has no id")

// Categories lists the item categories in display order.
var Categories = []string{"coin", "jewelry", "ring", "seal", "misc"}

// Catalog holds the loaded records.
type Catalog struct {
	items     []timeline.Artifact
	landmarks []timeline.Landmark
}

// Load reads both the items directory and the landmarks file. Either may be
// absent, which yields an empty list.
func Load(itemsDir, landmarksFile string) (*Catalog, error) {
	items, err := LoadItems(itemsDir)
	if err != nil {
		return nil, err
	}
	landmarks, err := LoadLandmarks(landmarksFile)
	if err != nil {
		return nil, err
	}
	return &Catalog{items: items, landmarks: landmarks}, nil
}

// New wraps records that are already in memory.
func New(items []timeline.Artifact, landmarks []timeline.Landmark) *Catalog {
	return &Catalog{items: items, landmarks: landmarks}
}

// LoadItems reads every .yaml/.yml file in dir as one artifact and returns
// them ordered by name.
func LoadItems(dir string) ([]timeline.Artifact, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading items directory: %w", err)
	}

	var items []timeline.Artifact
	seen := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}

		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading item file %s: %w", name, err)
		}

		var item timeline.Artifact
		if err := yaml.Unmarshal(data, &item); err != nil {
			return nil, fmt.Errorf("error parsing item file %s: %w", name, err)
		}
		if item.ID == "" {
			return nil, fmt.Errorf("item file %s: %w", name, ErrMissingID)
		}
		if prev, dup := seen[item.ID]; dup {
			return nil, fmt.Errorf("item file %s: duplicate id %q (also in %s)", name, item.ID, prev)
		}
		seen[item.ID] = name
		items = append(items, item)
	}

	sortByName(items)
	return items, nil
}

// LoadLandmarks reads the landmark list at path: a YAML list, or a CSV
// table when the file name ends in .csv.
func LoadLandmarks(path string) ([]timeline.Landmark, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return LoadLandmarksCSV(path)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading landmarks file: %w", err)
	}

	var landmarks []timeline.Landmark
	if err := yaml.Unmarshal(data, &landmarks); err != nil {
		return nil, fmt.Errorf("error parsing landmarks file: %w", err)
	}
	return landmarks, nil
}

func sortByName(items []timeline.Artifact) {
	c := collate.New(language.Und, collate.IgnoreCase)
	slices.SortStableFunc(items, func(a, b timeline.Artifact) int {
		return c.CompareString(a.Name, b.Name)
	})
}

// Items returns all artifacts ordered by name.
func (c *Catalog) Items() []timeline.Artifact {
	return c.items
}

// Landmarks returns all landmarks in file order.
func (c *Catalog) Landmarks() []timeline.Landmark {
	return c.landmarks
}

// Item looks up an artifact by id.
func (c *Catalog) Item(id string) (timeline.Artifact, bool) {
	for _, it := range c.items {
		if it.ID == id {
			return it, true
		}
	}
	return timeline.Artifact{}, false
}

// ByCategory returns the artifacts of one category.
func (c *Catalog) ByCategory(category string) []timeline.Artifact {
	return c.filter(func(a timeline.Artifact) bool { return a.Category == category })
}

// Featured returns the artifacts flagged as featured.
func (c *Catalog) Featured() []timeline.Artifact {
	return c.filter(func(a timeline.Artifact) bool { return a.Featured })
}

func (c *Catalog) filter(keep func(timeline.Artifact) bool) []timeline.Artifact {
	var out []timeline.Artifact
	for _, it := range c.items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// Materials returns the distinct materials, sorted.
func (c *Catalog) Materials() []string {
	return c.distinct(func(a timeline.Artifact) string { return a.Material })
}

// Periods returns the distinct periods, sorted.
func (c *Catalog) Periods() []string {
	return c.distinct(func(a timeline.Artifact) string { return a.Period })
}

func (c *Catalog) distinct(field func(timeline.Artifact) string) []string {
	set := make(map[string]struct{})
	for _, it := range c.items {
		if v := field(it); v != "" {
			set[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// LandmarksByType returns the landmarks of one type.
func (c *Catalog) LandmarksByType(t timeline.LandmarkType) []timeline.Landmark {
	var out []timeline.Landmark
	for _, l := range c.landmarks {
		if l.Type == t {
			out = append(out, l)
		}
	}
	return out
}
