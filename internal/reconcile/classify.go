// =============================================================================
// Packaging Reconciler - Weight Brackets
// =============================================================================
//
// This module places a sales line in a weight bracket by its total product
// weight. Each bracket caps the packaging ratio:
//
//   | Product weight (kg) | Limit |
//   |---------------------|-------|
//   | up to 1             | 40%   |
//   | over 1, up to 3     | 30%   |
//   | over 3              | 15%   |
//
// A line is compliant when its ratio is at or below the limit.
//
// =============================================================================

package reconcile

// Bracket is the weight tier of a sales line, which fixes its limit ratio.
type Bracket string

// Weight brackets.
const (
	BracketSmall  Bracket = "≤1KG"
	BracketMedium Bracket = "1KG–3KG"
	BracketLarge  Bracket = ">3KG"
)

// Regulatory bracket bounds (kg, inclusive upper bound) and the maximum
// packaging-to-product weight ratio allowed in each bracket (percent).
const (
	SmallMaxWeightKg  = 1.0
	MediumMaxWeightKg = 3.0

	SmallLimitRatio  = 40
	MediumLimitRatio = 30
	LargeLimitRatio  = 15
)

// Classify maps a line's total product weight to its bracket and limit ratio.
func Classify(weightKg float64) (Bracket, int) {
	switch {
	case weightKg <= SmallMaxWeightKg:
		return BracketSmall, SmallLimitRatio
	case weightKg <= MediumMaxWeightKg:
		return BracketMedium, MediumLimitRatio
	default:
		return BracketLarge, LargeLimitRatio
	}
}
