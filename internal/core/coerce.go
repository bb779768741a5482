package core

import (
	"math"
	"strconv"
	"strings"
)

// coercionRule maps a lower-cased text value to a numeric code.
// Rules are evaluated in order and the first match wins.
type coercionRule struct {
	match func(s string) bool
	value float64
}

func containsRule(substr string, value float64) coercionRule {
	return coercionRule{
		match: func(s string) bool { return strings.Contains(s, substr) },
		value: value,
	}
}

func oneOfRule(value float64, words ...string) coercionRule {
	return coercionRule{
		match: func(s string) bool {
			for _, w := range words {
				if s == w {
					return true
				}
			}
			return false
		},
		value: value,
	}
}

// Direction codes stored in master data.
const (
	DirectionCW  = 1
	DirectionACW = 2
)

var phaseRules = []coercionRule{
	containsRule("single", 1),
	containsRule("three", 3),
}

var directionRules = []coercionRule{
	oneOfRule(DirectionCW, "cw", "clockwise", "forward", "fwd"),
	oneOfRule(DirectionACW, "ccw", "acw", "anticlockwise", "anti-clockwise", "reverse", "rev"),
}

// coerceCoded parses a numeric cell directly and otherwise falls back to rules.
func coerceCoded(raw string, rules []coercionRule) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	if v := parseNumber(s); v != nil {
		return v
	}

	s = strings.ToLower(s)
	for _, r := range rules {
		if r.match(s) {
			return Float64(r.value)
		}
	}
	return nil
}

// CoercePhase converts a phase cell: numbers as-is, "single…"=1, "three…"=3.
func CoercePhase(raw string) *float64 {
	return coerceCoded(raw, phaseRules)
}

// CoerceDirection converts a direction cell: numbers as-is, CW words=1, ACW words=2.
func CoerceDirection(raw string) *float64 {
	return coerceCoded(raw, directionRules)
}

// parseNumber parses a trimmed decimal cell. Empty, unparseable, NaN and
// infinite values are absent.
func parseNumber(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// parseLeadingInt parses an optional sign followed by base-10 digits at the
// start of s, ignoring anything after the digits. "12abc" yields 12. Values
// outside the int32 range of the sr_no column are rejected.
func parseLeadingInt(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}
	n, err := strconv.ParseInt(s[:end], 10, 32)
	if err != nil {
		return 0, false
	}
	return int(n), true
}
