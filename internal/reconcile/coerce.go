// =============================================================================
// Packaging Reconciler - Cell Coercion
// =============================================================================
//
// This module turns raw cell values into numbers and display text. Thousands
// separators and trailing units ("0.25kg") are tolerated; anything
// unparsable becomes 0, and so do NaN and infinities.
//
// =============================================================================

package reconcile

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// leadingNumber matches the decimal number at the start of a cell, so that
// values such as "0.25kg" read as 0.25.
var leadingNumber = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// ToFloat converts an arbitrary cell value to a finite float64.
//
// Numeric values are returned as-is. nil and empty strings are 0. Anything
// else is stringified, stripped of thousands separators and surrounding
// whitespace, and its leading number parsed. Unparseable and non-finite
// values are 0.
func ToFloat(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case bool:
		return 0
	case string:
		return parseNumber(n)
	default:
		return parseNumber(fmt.Sprint(v))
	}
}

func parseNumber(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0
	}
	m := leadingNumber.FindString(s)
	if m == "" {
		return 0
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return finite(f)
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ToText converts a cell value to display text. nil is the empty string and
// numbers use their shortest decimal form.
func ToText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	default:
		return fmt.Sprint(v)
	}
}
