package utils

import (
	"math"
	"sort"
)

// Round rounds a float64 to the specified number of decimal places.
// Values too large to scale without overflowing carry no fractional digits
// at that precision and are returned unchanged.
func Round(value float64, decimals int) float64 {
	multiplier := math.Pow(10, float64(decimals))
	scaled := value * multiplier
	if math.IsInf(scaled, 0) && !math.IsInf(value, 0) {
		return value
	}
	return math.Round(scaled) / multiplier
}

// Round4 rounds to the four-decimal precision used on the oracle wire
func Round4(value float64) float64 {
	return Round(value, 4)
}

// Factorial returns n! for n >= 0 and 1 for n <= 1.
// 20! is the largest factorial that fits in an int64.
func Factorial(n int) int {
	result := 1
	for i := 2; i <= n; i++ {
		result *= i
	}
	return result
}

// Percentile calculates the percentile of a slice of float64 values
// percentile should be between 0 and 100
func Percentile(values []float64, percentile float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	index := (percentile / 100.0) * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))

	if lower == upper {
		return sorted[lower]
	}

	// Linear interpolation between lower and upper
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
