// Package dirstat runs a complete directory analysis.
//
// It walks the tree, aggregates cumulative directory sizes, classifies
// files by type and size, and optionally groups duplicate files by content.
// The outcome is a single Results value ready to be printed or exported.
package dirstat
