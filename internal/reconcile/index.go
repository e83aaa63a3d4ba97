// =============================================================================
// Packaging Reconciler - Template Index
// =============================================================================
//
// This module builds the product lookup from the packaging template. Rows
// without a product id are skipped and a later row for the same product
// replaces an earlier one.
//
// =============================================================================

package reconcile

import (
	"strings"

	"github.com/ginjaninja78/pkgrecon/internal/types"
)

// NoSpec is the materials description of a line whose product has no
// packaging specification, or whose specification names no materials.
const NoSpec = "未建立樣板"

// PackagingSpec is the per-unit packaging of one product. Weights are in kg.
type PackagingSpec struct {
	ProductID   string
	ProductName string

	RecycleBox  float64
	PaperBox    float64
	BreakageBag float64
	Tape        float64
	Buffer      float64

	// ProductWeightKg is the bare product weight, packaging excluded.
	ProductWeightKg float64

	// PackName describes the packaging materials; may be empty.
	PackName string
}

// UnitPackagingWeight is the summed weight of the five packaging components.
func (s PackagingSpec) UnitPackagingWeight() float64 {
	return s.RecycleBox + s.PaperBox + s.BreakageBag + s.Tape + s.Buffer
}

// Materials returns PackName, or NoSpec when it is empty.
func (s PackagingSpec) Materials() string {
	if s.PackName == "" {
		return NoSpec
	}
	return s.PackName
}

// Index maps a product identifier to its packaging specification.
type Index map[string]PackagingSpec

// BuildIndex reads the packaging template rows into an Index.
//
// Rows without a product identifier are skipped. When several rows share an
// identifier the last one wins.
func BuildIndex(rows []types.Record, r *Resolver) Index {
	idx := make(Index, len(rows))
	for _, row := range rows {
		id := strings.TrimSpace(r.Text(row, TemplateProductID))
		if id == "" {
			continue
		}
		idx[id] = PackagingSpec{
			ProductID:       id,
			ProductName:     r.Text(row, TemplateProductName),
			RecycleBox:      r.Float(row, RecycleBox),
			PaperBox:        r.Float(row, PaperBox),
			BreakageBag:     r.Float(row, BreakageBag),
			Tape:            r.Float(row, Tape),
			Buffer:          r.Float(row, Buffer),
			ProductWeightKg: r.Float(row, ProductWeight),
			PackName:        r.Text(row, PackName),
		}
	}
	return idx
}

// Lookup returns the specification for a product identifier. The identifier
// is trimmed before lookup.
func (idx Index) Lookup(productID string) (PackagingSpec, bool) {
	spec, ok := idx[strings.TrimSpace(productID)]
	return spec, ok
}
