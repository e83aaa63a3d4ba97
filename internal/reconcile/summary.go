// =============================================================================
// Packaging Reconciler - Run Totals
// =============================================================================
//
// This module aggregates reconciled lines into run totals and lists the
// products that had no specification.
//
// =============================================================================

package reconcile

// Summary aggregates a reconciliation run.
type Summary struct {
	Lines        int
	Matched      int
	Unmatched    int
	Compliant    int
	NonCompliant int

	PackagingWeight float64
	ProductWeight   float64
	ScaleWeight     float64
}

// Summarize counts and totals results. Weight sums are rounded to 4 places.
func Summarize(results []Result) Summary {
	var s Summary
	for _, res := range results {
		s.Lines++
		if res.Matched {
			s.Matched++
		} else {
			s.Unmatched++
		}
		if res.Compliant {
			s.Compliant++
		} else {
			s.NonCompliant++
		}
		s.PackagingWeight += res.PackagingWeight
		s.ProductWeight += res.ProductWeight
		s.ScaleWeight += res.ScaleWeight
	}
	s.PackagingWeight = roundWeight(s.PackagingWeight)
	s.ProductWeight = roundWeight(s.ProductWeight)
	s.ScaleWeight = roundWeight(s.ScaleWeight)
	return s
}

// UnmatchedIDs returns the distinct product identifiers without a packaging
// specification, in first-seen order.
func UnmatchedIDs(results []Result) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, res := range results {
		if res.Matched || seen[res.ProductID] {
			continue
		}
		seen[res.ProductID] = true
		ids = append(ids, res.ProductID)
	}
	return ids
}
