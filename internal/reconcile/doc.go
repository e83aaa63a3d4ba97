// Package reconcile is the reconciliation and metric engine.
//
// It joins sales lines to packaging specifications by product identifier,
// computes quantity-scaled weight aggregates and the packaging-to-product
// weight ratio, and classifies every line against the weight-bracket limit.
//
// Spreadsheet exports label the same column in many ways, so every field is
// located through a Resolver: headers are normalized (whitespace removed,
// full-width parentheses folded) and matched by substring against an ordered
// list of label variants. Nothing in this package performs I/O or returns an
// error for bad cell data; anomalies degrade to zero or the empty string so
// that every sales line yields exactly one Result.
package reconcile
