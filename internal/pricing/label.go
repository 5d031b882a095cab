// Package pricing turns the mix of exact, estimated and unpriced cart items
// into the figures the order summary shows.
package pricing

import (
	"math"
	"strconv"
	"strings"
)

// rangeSep is the en-dash the catalog uses in labels like "₵65–₵95".
const rangeSep = "–"

// Bounds is a numeric price band. A nil bound means "unknown"; an open-ended
// label like "₵140+" has a min and no max.
type Bounds struct {
	Min *float64
	Max *float64
}

// ParseDisplayPrice converts a human display price label into numeric bounds.
// Everything except digits, '+', '-', '.' and the range dash is stripped
// before parsing. Labels that carry no finite number ("Call for quote")
// produce empty bounds, which the aggregator treats as "no estimate".
func ParseDisplayPrice(label string) Bounds {
	if label == "" {
		return Bounds{}
	}
	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		switch r {
		case '+', '-', '.', '–':
			return r
		}
		return -1
	}, label)

	if strings.Contains(cleaned, rangeSep) {
		parts := strings.SplitN(cleaned, rangeSep, 2)
		return Bounds{Min: parseNumber(parts[0]), Max: parseNumber(parts[1])}
	}
	if strings.HasSuffix(cleaned, "+") {
		return Bounds{Min: parseNumber(strings.TrimSuffix(cleaned, "+"))}
	}
	if n := parseNumber(cleaned); n != nil {
		return Bounds{Min: n, Max: n}
	}
	return Bounds{}
}

func parseNumber(s string) *float64 {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return nil
	}
	return &n
}
