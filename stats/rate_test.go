package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRate(t *testing.T) {
	tests := []struct {
		name        string
		numerator   int
		denominator int
		want        float64
	}{
		{"zero denominator", 10, 0, 0},
		{"negative denominator", 10, -5, 0},
		{"zero numerator", 0, 200, 0},
		{"quarter", 50, 200, 25},
		{"full", 200, 200, 100},
		{"over full", 300, 200, 150},
		{"rounds half up", 1, 3, 33.33},
		{"two thirds", 2, 3, 66.67},
		{"tiny fraction", 1, 10000, 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Rate(tt.numerator, tt.denominator))
		})
	}
}

func TestDerivedCount(t *testing.T) {
	tests := []struct {
		name string
		rate float64
		base int
		want int
	}{
		{"zero base", 25, 0, 0},
		{"negative base", 25, -1, 0},
		{"zero rate", 0, 500, 0},
		{"negative rate", -5, 500, 0},
		{"exact", 25, 200, 50},
		{"floors", 33.33, 100, 33},
		{"floors fractional product", 12.5, 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DerivedCount(tt.rate, tt.base))
		})
	}
}

func TestFormatRate(t *testing.T) {
	assert.Equal(t, "25.00", FormatRate(25))
	assert.Equal(t, "0.00", FormatRate(0))
	assert.Equal(t, "33.33", FormatRate(33.33))
	assert.Equal(t, "100.00", FormatRate(100))
}

func TestRateFormatRoundTrip(t *testing.T) {
	// The stored two-decimal rate must render without artifacts.
	assert.Equal(t, "5.00", FormatRate(Rate(10, 200)))
	assert.Equal(t, "66.67", FormatRate(Rate(2, 3)))
}
