package utils

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Round2 rounds a monetary value to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CoerceAmount converts a loosely-typed value into a non-negative monetary
// amount. Unparseable or negative input becomes 0, never an error. Form input
// is user-typed and must not block a save.
func CoerceAmount(v interface{}) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return clampAmount(n)
	case float32:
		return clampAmount(float64(n))
	case int:
		return clampAmount(float64(n))
	case int64:
		return clampAmount(float64(n))
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return clampAmount(f)
	case string:
		return ParseAmount(n)
	default:
		return 0
	}
}

// ParseAmount parses a user-typed amount string. Accepts a comma decimal
// separator; unparseable input becomes 0.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return clampAmount(f)
}

func clampAmount(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}
