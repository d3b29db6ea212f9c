package era_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"eracanvas/internal/era"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		text  string
		start int
		end   int
		mid   float64
	}{
		{"single year AD", "476 AD", 476, 476, 476},
		{"single year BC", "2400 BC", -2400, -2400, -2400},
		{"single year CE", "1066 CE", 1066, 1066, 1066},
		{"single year BCE lower case", "44 bce", -44, -44, -44},
		{"range with trailing era", "2400-2200 BC", -2400, -2200, -2300},
		{"range across eras", "27 BC - 14 AD", -27, 14, -6.5},
		{"range across eras BCE/CE", "27 BCE - 14 CE", -27, 14, -6.5},
		{"range with leading era only", "300 BC-100", -300, -100, -200},
		{"range en dash", "1200–1100 BC", -1200, -1100, -1150},
		{"unmarked range reads as BC", "2400-2200", -2400, -2200, -2300},
		{"unmarked small range reads as BC", "300-200", -300, -200, -250},
		{"century BC", "6th Century BC", -600, -500, -550},
		{"century AD", "1st Century AD", 0, 100, 50},
		{"century without era", "3rd century", 200, 300, 250},
		{"century range AD", "6th-7th Century AD", 500, 700, 600},
		{"century range BC", "5th-4th Century BC", -500, -300, -400},
		{"range with stray marker small", "Baghdad 800-900", 800, 900, 850},
		{"range with stray marker large", "Baghdad 2000-1500", 1500, 2000, 1750},
		{"range with bracketed AD", "1400-1500 (AD)", 1400, 1500, 1450},
		{"range with marker inside a word", "Hadrian's Wall 1122-1128", 1122, 1128, 1125},
		{"fallback first integer", "circa 500", -500, -500, -500},
		{"fallback no digits", "unknown", 0, 0, 0},
		{"empty", "", 0, 0, 0},
		{"full width digits", "４７６ AD", 476, 476, 476},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := era.Parse(tt.text)
			assert.Equal(t, tt.start, got.Start)
			assert.Equal(t, tt.end, got.End)
			assert.InDelta(t, tt.mid, got.Midpoint, 1e-9)
			assert.Equal(t, tt.text, got.Display)
		})
	}
}

func TestParseInvariants(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"476 AD", "2400-2200 BC", "6th Century BC", "6th-7th Century AD",
		"14 AD - 27 BC", "3000-3500", "12th-10th Century BC", "?", "Bronze Age",
		"999-1001", "1 BC - 1 AD", "18th Century",
	}

	for _, text := range inputs {
		got := era.Parse(text)
		assert.LessOrEqual(t, got.Start, got.End, text)
		assert.InDelta(t, float64(got.Start+got.End)/2, got.Midpoint, 1e-9, text)
	}
}

func TestFormatYear(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1 AD", era.FormatYear(0))
	assert.Equal(t, "500 BC", era.FormatYear(-500))
	assert.Equal(t, "1453 AD", era.FormatYear(1453))
}
