package cmd

import (
	"github.com/dendrascience/dupes/version"
	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root cobra command for the dupes CLI.
// Run without a subcommand it scans PATH (or the current directory) for
// duplicate files.
func NewRootCmd() *cobra.Command {
	var flags scanFlags

	rootCmd := &cobra.Command{
		Use:   "dupes [PATH]",
		Short: "dupes - find duplicate files by content",
		Long: `dupes finds files with identical content beneath a directory tree.

Every regular file under PATH is hashed in parallel and files sharing a
digest are reported together, one group per block of the table. File names
and locations play no part in the comparison.

When PATH is omitted the current directory is scanned.

Use subcommands for related tasks:
  - scan: the same as running dupes without a subcommand
  - digest: print the digest of individual files
  - count: count regular files in a directory tree
  - seed: generate a test tree full of duplicates`,
		Version: version.GetFullVersion(),
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args, &flags)
		},
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a TOML configuration file")
	rootCmd.PersistentFlags().StringP("log-level", "l", "warning", "Log level (debug, info, warning, error)")
	addScanFlags(rootCmd, &flags)

	groupScanning := "scanning"
	groupUtilities := "utilities"

	rootCmd.AddGroup(&cobra.Group{
		ID:    groupScanning,
		Title: "Scanning",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupUtilities,
		Title: "Utility Commands",
	})

	scanCmd := NewScanCmd()
	digestCmd := NewDigestCmd()
	countCmd := NewCountCmd()
	seedCmd := NewSeedCmd()
	versionCmd := NewVersionCmd()

	scanCmd.GroupID = groupScanning
	digestCmd.GroupID = groupScanning
	countCmd.GroupID = groupUtilities
	seedCmd.GroupID = groupUtilities
	versionCmd.GroupID = groupUtilities

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(digestCmd)
	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}
