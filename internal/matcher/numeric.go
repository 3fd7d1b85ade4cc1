package matcher

import (
	"regexp"
	"strconv"
	"strings"
)

// openTopMultiplier estimates the upper bound of open-ended inputs such as
// "$200,000 or more". The value mirrors the bracket width the census uses for
// its own top brackets.
const openTopMultiplier = 2.5

var numberPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*([km])?`)

// extractRange pulls a numeric range out of a free-text condition. It handles
// currency formatting ("$50,000 to $59,999"), shorthand ("50k-60k"),
// open-ended phrases ("under 25", "65 and over", "100k+"), and bare numbers.
func extractRange(s string) (min, max float64, ok bool) {
	cleaned := strings.ToLower(strings.TrimSpace(s))
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")

	matches := numberPattern.FindAllStringSubmatch(cleaned, -1)
	if len(matches) == 0 {
		return 0, 0, false
	}

	nums := make([]float64, 0, len(matches))
	for _, m := range matches {
		n, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		switch m[2] {
		case "k":
			n *= 1_000
		case "m":
			n *= 1_000_000
		}
		nums = append(nums, n)
	}
	if len(nums) == 0 {
		return 0, 0, false
	}

	first := nums[0]

	switch {
	case strings.Contains(cleaned, "less than") || strings.Contains(cleaned, "under"):
		return 0, maxf(first-1, 0), true
	case strings.Contains(cleaned, "or more") ||
		strings.Contains(cleaned, "and over") ||
		strings.Contains(cleaned, "and above") ||
		strings.Contains(cleaned, "over ") ||
		strings.HasSuffix(cleaned, "+"):
		return first, first * openTopMultiplier, true
	case len(nums) >= 2:
		lo, hi := first, nums[1]
		if hi < lo {
			lo, hi = hi, lo
		}
		return lo, hi, true
	default:
		return first, first, true
	}
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
