// =============================================================================
// Packaging Reconciler - Rounding
// =============================================================================
//
// Weights are rounded to 4 places and ratios to 2, on the shortest decimal
// form of the value.
//
// =============================================================================

package reconcile

import "github.com/shopspring/decimal"

const (
	weightPlaces = 4
	ratioPlaces  = 2
)

// round rounds f half away from zero on its shortest decimal form, so 1.005
// becomes 1.01 the way it is displayed, not 1.00 as binary rounding gives.
// NaN and infinities, which overflowing products can produce, round to 0.
func round(f float64, places int32) float64 {
	f = finite(f)
	if f == 0 {
		return 0
	}
	r, _ := decimal.NewFromFloat(f).Round(places).Float64()
	return finite(r)
}

func roundWeight(f float64) float64 { return round(f, weightPlaces) }

func roundRatio(f float64) float64 { return round(f, ratioPlaces) }
