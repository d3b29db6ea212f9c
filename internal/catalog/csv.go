package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"eracanvas/internal/timeline"
)

// landmarkColumns are the header names a landmark CSV may use. Only id and
// name are required.
var landmarkColumns = []string{"id", "name", "type", "description", "year", "yearstart", "yearend"}

// LoadLandmarksCSV reads landmarks from a CSV file whose first row names the
// columns, case-insensitively. Empty year cells are left unset.
func LoadLandmarksCSV(path string) ([]timeline.Landmark, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening landmarks CSV: %w", err)
	}
	defer file.Close()

	return parseLandmarksCSV(file)
}

func parseLandmarksCSV(r io.Reader) ([]timeline.Landmark, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}

	columnMap := make(map[string]int)
	for i, col := range header {
		columnMap[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, required := range []string{"id", "name"} {
		if _, ok := columnMap[required]; !ok {
			return nil, fmt.Errorf("column '%s' not found in CSV. Available columns: %v", required, header)
		}
	}

	var landmarks []timeline.Landmark
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}

		l, err := parseLandmarkRow(record, columnMap)
		if err != nil {
			return nil, fmt.Errorf("error parsing CSV row %d: %w", line, err)
		}
		landmarks = append(landmarks, l)
	}
	return landmarks, nil
}

func parseLandmarkRow(record []string, columnMap map[string]int) (timeline.Landmark, error) {
	cells := make(map[string]string, len(landmarkColumns))
	for _, name := range landmarkColumns {
		if i, ok := columnMap[name]; ok && i < len(record) {
			cells[name] = strings.TrimSpace(record[i])
		}
	}

	l := timeline.Landmark{
		ID:          cells["id"],
		Name:        cells["name"],
		Type:        timeline.LandmarkType(cells["type"]),
		Description: cells["description"],
	}

	var err error
	if l.Year, err = optionalYear(cells["year"]); err != nil {
		return l, err
	}
	if l.YearStart, err = optionalYear(cells["yearstart"]); err != nil {
		return l, err
	}
	if l.YearEnd, err = optionalYear(cells["yearend"]); err != nil {
		return l, err
	}
	return l, nil
}

func optionalYear(cell string) (*int, error) {
	if cell == "" {
		return nil, nil
	}
	y, err := strconv.Atoi(cell)
	if err != nil {
		return nil, fmt.Errorf("invalid year %q: %w", cell, err)
	}
	return &y, nil
}
