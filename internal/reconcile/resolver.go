// =============================================================================
// Packaging Reconciler - Header Resolver
// =============================================================================
//
// This module maps logical fields to the header names present in an input.
//
// CUSTOMIZATION:
//   - Extra header names per field can be configured with header_variants in
//     config.yaml. They are tried after the built-in names.
//
// =============================================================================

package reconcile

import (
	"strings"

	"github.com/ginjaninja78/pkgrecon/internal/types"
)

// Resolve returns the value of the first record column matching one of the
// variants.
//
// Variants are tried in order; for each, the columns are scanned in record
// order and the first one whose normalized label contains the normalized
// variant wins. An earlier variant always beats a later one, even if the
// later one would hit a closer label.
func Resolve(rec types.Record, variants []string) (any, bool) {
	idx := matchIndex(normalizeLabels(rec.Labels()), variants)
	if idx < 0 {
		return nil, false
	}
	return rec.Fields[idx].Value, true
}

// MatchLabel returns the header that Resolve would select for variants.
func MatchLabel(labels []string, variants []string) (string, bool) {
	idx := matchIndex(normalizeLabels(labels), variants)
	if idx < 0 {
		return "", false
	}
	return labels[idx], true
}

func normalizeLabels(labels []string) []string {
	norm := make([]string, len(labels))
	for i, l := range labels {
		norm[i] = NormalizeHeader(l)
	}
	return norm
}

func matchIndex(normLabels []string, variants []string) int {
	for _, v := range variants {
		nv := NormalizeHeader(v)
		if nv == "" {
			continue
		}
		for i, nl := range normLabels {
			if strings.Contains(nl, nv) {
				return i
			}
		}
	}
	return -1
}

// =============================================================================
// RESOLVER
// =============================================================================

// Resolver resolves logical fields against rows using the built-in header
// variants plus optional site-specific extras. The zero value and a nil
// *Resolver use the built-in variants only.
type Resolver struct {
	extra map[Field][]string
}

// NewResolver returns a Resolver with extra header variants. Extras are
// tried after the built-in variants of the same field, so they widen recall
// without changing which column the built-ins pick.
func NewResolver(extra map[Field][]string) *Resolver {
	r := &Resolver{extra: make(map[Field][]string, len(extra))}
	for f, vs := range extra {
		for _, v := range vs {
			if NormalizeHeader(v) == "" {
				continue
			}
			r.extra[f] = append(r.extra[f], v)
		}
	}
	return r
}

// Variants returns the header labels tried for f, in priority order.
func (r *Resolver) Variants(f Field) []string {
	vs := DefaultVariants(f)
	if r != nil {
		vs = append(vs, r.extra[f]...)
	}
	return vs
}

// Value resolves f in rec.
func (r *Resolver) Value(rec types.Record, f Field) (any, bool) {
	return Resolve(rec, r.Variants(f))
}

// Text resolves f in rec as display text; unresolved fields are "".
func (r *Resolver) Text(rec types.Record, f Field) string {
	v, _ := r.Value(rec, f)
	return ToText(v)
}

// Float resolves f in rec as a number; unresolved fields are 0.
func (r *Resolver) Float(rec types.Record, f Field) float64 {
	v, _ := r.Value(rec, f)
	return ToFloat(v)
}

// Label reports which of headers f resolves to.
func (r *Resolver) Label(headers []string, f Field) (string, bool) {
	return MatchLabel(headers, r.Variants(f))
}
