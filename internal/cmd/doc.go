// Package cmd provides the command-line interface implementation for dupes.
//
// It uses the Cobra library for command structure; main runs the root
// command through Fang for styling. Each command lives in its own file with a
// constructor returning a *cobra.Command:
//   - root: scans PATH for duplicates and owns the subcommands
//   - scan: explicit form of the root scan
//   - digest: digests of individual files
//   - count: regular file counts
//   - seed: generated test trees
//   - version: build information
//
// Settings are resolved by the config package; flags given on the command
// line win over the environment and the configuration file.
package cmd
