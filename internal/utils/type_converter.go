package utils

import (
	"math"
	"strconv"
	"strings"
)

// ParseFloatOrZero converts a decimal string to float64.
// Empty, malformed and non-finite values yield 0.
func ParseFloatOrZero(s string) float64 {
	val, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(val) || math.IsInf(val, 0) {
		return 0
	}
	return val
}
