// =============================================================================
// Packaging Reconciler - Header Diagnostics
// =============================================================================
//
// This module checks the header row of each input before reconciliation and
// reports which logical fields could not be resolved to any column.
//
// ERROR HANDLING:
//   - Issues are collected, never returned as errors
//   - A missing product identifier is reported with "error" severity because
//     every line of that input will end up unmatched
//   - Any other unresolved field is a "warning"; its value defaults to empty/0
//   - Reconciliation always proceeds; issues go to the log and the summary
//
// CUSTOMIZATION:
//   - Extra header spellings come from extra_header_variants in config.yaml
//   - Change which fields count as identifiers in identifierFields
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/pkgrecon/internal/reconcile"
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Input kinds, used to label issues.
const (
	InputSales    = "sales"
	InputTemplate = "template"
)

// identifierFields are the fields whose absence leaves every row unmatched.
var identifierFields = map[reconcile.Field]bool{
	reconcile.TemplateProductID: true,
	reconcile.SalesProductID:    true,
}

// =============================================================================
// HEADER ISSUE
// =============================================================================

// HeaderIssue describes one logical field that no header of an input resolves to.
type HeaderIssue struct {
	// Severity is SeverityError or SeverityWarning.
	Severity string

	// Input is the kind of input, InputSales or InputTemplate.
	Input string

	// Field is the logical field that was not found.
	Field reconcile.Field

	// Tried lists the header spellings that were accepted for Field.
	Tried []string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (i *HeaderIssue) Error() string {
	return fmt.Sprintf("[%s] %s input, field '%s': %s",
		strings.ToUpper(i.Severity),
		i.Input,
		i.Field,
		i.Message,
	)
}

// =============================================================================
// CHECKS
// =============================================================================

// CheckHeaders reports every field in fields that none of headers resolves to.
//
// PARAMETERS:
//   - input: InputSales or InputTemplate
//   - headers: the header row of the decoded input
//   - fields: the logical fields the input is expected to carry
//   - resolver: supplies the accepted header spellings per field
//
// RETURNS:
//   - Issues in the order of fields; nil when every field resolves
func CheckHeaders(input string, headers []string, fields []reconcile.Field, resolver *reconcile.Resolver) []*HeaderIssue {
	var issues []*HeaderIssue

	for _, f := range fields {
		if _, ok := resolver.Label(headers, f); ok {
			continue
		}

		issue := &HeaderIssue{
			Severity: SeverityWarning,
			Input:    input,
			Field:    f,
			Tried:    resolver.Variants(f),
			Message:  fmt.Sprintf("no column matches any of %s; values default to empty/0", quoteAll(resolver.Variants(f))),
		}
		if identifierFields[f] {
			issue.Severity = SeverityError
			issue.Message = fmt.Sprintf("no column matches any of %s; every row will be unmatched", quoteAll(resolver.Variants(f)))
		}
		issues = append(issues, issue)
	}

	return issues
}

// CheckSales checks a sales ledger header row.
func CheckSales(headers []string, resolver *reconcile.Resolver) []*HeaderIssue {
	return CheckHeaders(InputSales, headers, reconcile.SalesFields, resolver)
}

// CheckTemplate checks a packaging template header row.
func CheckTemplate(headers []string, resolver *reconcile.Resolver) []*HeaderIssue {
	return CheckHeaders(InputTemplate, headers, reconcile.TemplateFields, resolver)
}

// CountErrors returns how many issues have error severity.
func CountErrors(issues []*HeaderIssue) int {
	n := 0
	for _, i := range issues {
		if i.Severity == SeverityError {
			n++
		}
	}
	return n
}

// =============================================================================
// FORMATTING
// =============================================================================

// FormatIssues formats issues for display or for the summary log.
func FormatIssues(issues []*HeaderIssue) string {
	if len(issues) == 0 {
		return "All expected columns found."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Header check found %d issue(s):\n", len(issues)))

	for i, issue := range issues {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, issue.Error()))
	}

	return builder.String()
}

func quoteAll(ss []string) string {
	quoted := make([]string, len(ss))
	for i, s := range ss {
		quoted[i] = "'" + s + "'"
	}
	return strings.Join(quoted, ", ")
}
