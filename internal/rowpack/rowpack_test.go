package rowpack_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"eracanvas/internal/rowpack"
)

func TestPackPairwiseOverlapping(t *testing.T) {
	t.Parallel()

	rows := rowpack.Pack([]rowpack.Range{
		{Key: "a", Start: 0, End: 100},
		{Key: "b", Start: 50, End: 150},
		{Key: "c", Start: 90, End: 200},
	}, 0)

	assert.Equal(t, map[string]int{"a": 0, "b": 1, "c": 2}, rows)
	assert.Equal(t, 3, rowpack.RowCount(rows))
}

func TestPackDisjoint(t *testing.T) {
	t.Parallel()

	rows := rowpack.Pack([]rowpack.Range{
		{Key: "c", Start: 1000, End: 1100},
		{Key: "a", Start: 0, End: 100},
		{Key: "b", Start: 500, End: 600},
	}, 100)

	assert.Equal(t, map[string]int{"a": 0, "b": 0, "c": 0}, rows)
	assert.Equal(t, 1, rowpack.RowCount(rows))
}

func TestPackBufferSeparates(t *testing.T) {
	t.Parallel()

	ranges := []rowpack.Range{
		{Key: "a", Start: 0, End: 100},
		{Key: "b", Start: 150, End: 250},
	}

	assert.Equal(t, 1, rowpack.RowCount(rowpack.Pack(ranges, 0)))
	assert.Equal(t, 2, rowpack.RowCount(rowpack.Pack(ranges, 100)))
}

func TestPackReusesEarliestRow(t *testing.T) {
	t.Parallel()

	rows := rowpack.Pack([]rowpack.Range{
		{Key: "long", Start: 0, End: 1000},
		{Key: "short", Start: 10, End: 20},
		{Key: "late", Start: 30, End: 40},
	}, 0)

	assert.Equal(t, 0, rows["long"])
	assert.Equal(t, 1, rows["short"])
	assert.Equal(t, 1, rows["late"])
}

func TestPackStableOnTies(t *testing.T) {
	t.Parallel()

	ranges := []rowpack.Range{
		{Key: "first", Start: 0, End: 10},
		{Key: "second", Start: 0, End: 10},
	}

	for i := 0; i < 10; i++ {
		rows := rowpack.Pack(ranges, 5)
		assert.Equal(t, 0, rows["first"])
		assert.Equal(t, 1, rows["second"])
	}
}

func TestPackNoOverlapWithinRow(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	ranges := make([]rowpack.Range, 200)
	for i := range ranges {
		start := rng.Float64()*6000 - 4500
		ranges[i] = rowpack.Range{
			Key:   fmt.Sprintf("r%d", i),
			Start: start,
			End:   start + rng.Float64()*400,
		}
	}

	const buffer = 80
	rows := rowpack.Pack(ranges, buffer)
	assert.Len(t, rows, len(ranges))

	for i := range ranges {
		for j := i + 1; j < len(ranges); j++ {
			a, b := ranges[i], ranges[j]
			if rows[a.Key] == rows[b.Key] {
				assert.False(t, rowpack.Overlaps(a, b, buffer), "%s and %s share row %d", a.Key, b.Key, rows[a.Key])
			}
		}
	}
}

func TestPackEmpty(t *testing.T) {
	t.Parallel()

	rows := rowpack.Pack(nil, 100)
	assert.Empty(t, rows)
	assert.Equal(t, 0, rowpack.RowCount(rows))
}
