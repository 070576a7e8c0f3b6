package snapshot

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var firstIntPattern = regexp.MustCompile(`\d+`)

// roundHalfEven rounds to the nearest integer, ties to even.
func roundHalfEven(v float64) int {
	return int(math.RoundToEven(v))
}

// extractNum returns the first integer embedded in s, 0 when there is none.
// A digit run too long for an int is reduced modulo CycleLength, which is all
// the cycle offset reads from it.
func extractNum(s string) int {
	m := firstIntPattern.FindString(s)
	if m == "" {
		return 0
	}
	if n, err := strconv.Atoi(m); err == nil {
		return n
	}
	rem := 0
	for _, d := range m {
		rem = (rem*10 + int(d-'0')) % CycleLength
	}
	return rem
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func normalizeKey(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
