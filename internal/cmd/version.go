package cmd

import (
	"encoding/json"

	"github.com/dendrascience/dupes/version"
	"github.com/spf13/cobra"
)

// NewVersionCmd creates and returns the version subcommand for the dupes CLI.
func NewVersionCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(version.GetInfo())
			}
			version.PrintVersion(cmd.OutOrStdout(), "dupes")
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print version information as JSON")

	return cmd
}
