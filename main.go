// =============================================================================
// Packaging Reconciler - Main Entry Point
// =============================================================================
//
// USAGE:
//   pkgrecon reconcile   - Reconcile a sales ledger against a packaging template
//   pkgrecon files       - List or forget remembered input files
//   pkgrecon history     - List recorded runs
//   pkgrecon version     - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Decoding, reconciliation, reports and storage
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/pkgrecon/cmd"
)

func main() {
	cmd.Execute()
}
