// Package version provides version information and build metadata for dupes.
//
// Version information comes from, in order of preference:
//   - Compile-time variables (Version, Commit, Date) set via -ldflags
//   - Runtime build info from debug.ReadBuildInfo()
//   - Fallback defaults for development builds
//
// The package provides multiple version formats:
//   - GetVersion(): Simple version string
//   - GetFullVersion(): Formatted version with commit and build date
//   - GetInfo(): Complete version information as a struct
//   - PrintVersion(): Human-readable version output
//
// Release builds set the variables with:
//
//	-ldflags "-X github.com/dendrascience/dupes/version.Version=v1.0.0 -X github.com/dendrascience/dupes/version.Commit=abc123 -X github.com/dendrascience/dupes/version.Date=2025-01-01T00:00:00Z"
package version
