package stats

import (
	"math"
	"strconv"
)

// Rate returns numerator/denominator as a percentage rounded to two decimal
// places (round half up). A denominator of zero or less yields 0 so callers
// never see NaN or Inf from empty recipient sets.
func Rate(numerator, denominator int) float64 {
	if denominator <= 0 {
		return 0
	}
	pct := float64(numerator) / float64(denominator) * 100
	return math.Round(pct*100) / 100
}

// DerivedCount reconstructs an absolute event count from a stored rate and
// its base: floor(rate * base / 100). Raw counts are not persisted on
// campaigns, so this is a lossy approximation of the original count, not an
// exact replay.
func DerivedCount(rate float64, base int) int {
	if base <= 0 || rate <= 0 {
		return 0
	}
	return int(math.Floor(rate * float64(base) / 100))
}

// FormatRate renders a rate with exactly two decimals for response payloads.
func FormatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', 2, 64)
}
