// =============================================================================
// Packaging Reconciler - Reconciliation Engine
// =============================================================================
//
// This module joins every sales line to its packaging specification and
// computes the line metrics:
//
//   1. Look up the product in the template index
//   2. Scale the unit weights by the sold quantity
//   3. Compute the packaging ratio and the weight bracket
//   4. Decide compliance against the bracket limit
//
// Unmatched lines are kept with zero weights and the no-spec sentinel.
//
// =============================================================================

package reconcile

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/pkgrecon/internal/types"
)

// ItemCount is the item count reported on every result line.
const ItemCount = 1

// Result is the computed compliance line for one sales row. Weight totals
// are quantity-scaled kg rounded to 4 places; Ratio is a percentage rounded
// to 2 places.
type Result struct {
	// ID is "orderID-productID-rowIndex", unique even for repeated orders.
	ID string

	SalesDate   string
	OrderID     string
	ProductID   string
	ProductName string
	Quantity    float64

	// ScaleWeight is ProductWeight + PackagingWeight by definition; it is not
	// a measured value.
	ScaleWeight     float64
	PackagingWeight float64

	RecycleBox  float64
	PaperBox    float64
	BreakageBag float64
	Tape        float64
	Buffer      float64

	ProductWeight float64

	Ratio      float64
	Bracket    Bracket
	LimitRatio int
	Compliant  bool

	Materials string
	ItemCount int

	// Matched reports whether a packaging specification was found.
	Matched bool
}

// Reconcile computes one Result per sales row, in row order.
func Reconcile(rows []types.Record, idx Index, r *Resolver) []Result {
	results := make([]Result, len(rows))
	for i, row := range rows {
		results[i] = reconcileLine(i, row, idx, r)
	}
	return results
}

func reconcileLine(rowIndex int, row types.Record, idx Index, r *Resolver) Result {
	productID := strings.TrimSpace(r.Text(row, SalesProductID))
	qty := r.Float(row, Quantity)
	orderID := r.Text(row, OrderID)

	spec, matched := idx.Lookup(productID)
	materials := NoSpec
	if matched {
		materials = spec.Materials()
	}

	// Products of finite cells can still overflow; they degrade to 0.
	totalPackaging := finite(spec.UnitPackagingWeight() * qty)
	totalProduct := finite(spec.ProductWeightKg * qty)
	scale := finite(totalProduct + totalPackaging)

	// A zero product weight reports a zero ratio even when packaging is
	// positive; such lines are treated like unmatched ones.
	var ratio float64
	if totalProduct > 0 {
		ratio = finite(totalPackaging / totalProduct * 100)
	}

	bracket, limit := Classify(totalProduct)

	return Result{
		ID:          fmt.Sprintf("%s-%s-%d", orderID, productID, rowIndex),
		SalesDate:   r.Text(row, SalesDate),
		OrderID:     orderID,
		ProductID:   productID,
		ProductName: r.Text(row, SalesProductName),
		Quantity:    qty,

		ScaleWeight:     roundWeight(scale),
		PackagingWeight: roundWeight(totalPackaging),

		RecycleBox:  roundWeight(spec.RecycleBox * qty),
		PaperBox:    roundWeight(spec.PaperBox * qty),
		BreakageBag: roundWeight(spec.BreakageBag * qty),
		Tape:        roundWeight(spec.Tape * qty),
		Buffer:      roundWeight(spec.Buffer * qty),

		ProductWeight: roundWeight(totalProduct),

		Ratio:      roundRatio(ratio),
		Bracket:    bracket,
		LimitRatio: limit,
		Compliant:  ratio <= float64(limit),

		Materials: materials,
		ItemCount: ItemCount,
		Matched:   matched,
	}
}
