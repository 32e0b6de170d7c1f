// Package walker discovers files and directories below a root.
//
// It walks directory trees using fastwalk for parallel traversal, applies
// depth, hidden-entry, symlink, regular expression and gitignore filtering,
// and hands back a flat, path-ordered list of files together with a
// pre-seeded, zeroed record for every directory it entered.
package walker
