// Package main provides the dupes command-line interface.
//
// dupes finds files with identical content beneath a directory tree. Every
// regular file is hashed in parallel, files sharing a digest are grouped, and
// the groups are printed as a table followed by the number of duplicate files.
//
// The main binary supports multiple subcommands:
//   - scan: find duplicates (the default when no subcommand is given)
//   - digest: print the digest of individual files
//   - count: count files in directory trees
//   - seed: generate a test tree containing duplicates
//   - version: print build information
package main
