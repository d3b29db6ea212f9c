// Package rowpack assigns possibly-overlapping year ranges to the smallest
// practical number of non-overlapping display rows.
package rowpack

import "sort"

// Range is a keyed closed interval to be placed on a row.
type Range struct {
	Key   string
	Start float64
	End   float64
}

// Overlaps reports whether a and b come within buffer years of each other.
// Two ranges sharing a row must not overlap.
func Overlaps(a, b Range, buffer float64) bool {
	return !(a.End+buffer < b.Start || a.Start-buffer > b.End)
}

// Pack places each range on the first row whose already-placed ranges it
// does not overlap, appending a new row when none fits. Ranges are visited
// in ascending Start order; ties keep their input order, so the result is
// deterministic for a given input slice and buffer.
//
// Duplicate keys keep the row of their last occurrence.
func Pack(ranges []Range, buffer float64) map[string]int {
	sorted := make([]Range, len(ranges))
	copy(sorted, ranges)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	var rows [][]Range
	assigned := make(map[string]int, len(sorted))

	for _, r := range sorted {
		row := firstFreeRow(rows, r, buffer)
		if row == len(rows) {
			rows = append(rows, nil)
		}
		rows[row] = append(rows[row], r)
		assigned[r.Key] = row
	}

	return assigned
}

// RowCount returns the number of rows used by an assignment.
func RowCount(assigned map[string]int) int {
	n := 0
	for _, row := range assigned {
		n = max(n, row+1)
	}
	return n
}

func firstFreeRow(rows [][]Range, r Range, buffer float64) int {
	for i, occupied := range rows {
		free := true
		for _, o := range occupied {
			if Overlaps(r, o, buffer) {
				free = false
				break
			}
		}
		if free {
			return i
		}
	}
	return len(rows)
}
