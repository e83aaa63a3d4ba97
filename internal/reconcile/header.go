// =============================================================================
// Packaging Reconciler - Header Normalization
// =============================================================================
//
// This module reduces header text to a comparable key. Spacing of any kind
// is dropped and full-width parentheses become ASCII ones, so that
// "回收箱（KG）a1" and "回收箱 (KG)a1" compare equal.
//
// =============================================================================

package reconcile

import (
	"strings"
	"unicode"
)

// NormalizeHeader returns the comparison form of a column label: every
// white-space rune (including U+3000 and a stray BOM) is removed and
// full-width parentheses become ASCII ones.
func NormalizeHeader(label string) string {
	if label == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case unicode.IsSpace(r), r == '\u3000', r == '\ufeff':
			continue
		case r == '（':
			b.WriteRune('(')
		case r == '）':
			b.WriteRune(')')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
