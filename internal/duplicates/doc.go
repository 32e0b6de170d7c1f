// Package duplicates finds byte-identical files.
//
// Candidates are first bucketed by exact size so that only files sharing a
// size with at least one other file are read. Survivors are hashed in
// parallel by a bounded worker pool, and files sharing a digest are grouped
// and ordered by the space they waste.
package duplicates
