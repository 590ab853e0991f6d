package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dendrascience/dupes/dupes"
	"github.com/docker/go-units"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
)

// NewCountCmd creates and returns the count subcommand for the dupes CLI.
// It provides file counting functionality for directory trees.
func NewCountCmd() *cobra.Command {
	var showProgress bool

	cmd := &cobra.Command{
		Use:   "count [PATH]",
		Short: "Count regular files in a directory tree",
		Long: `Count the regular files beneath a directory tree and their total size.

The walk is the same one a scan performs: directories, symlinks and other
special files are not counted, unreadable entries are skipped, and the
exclude and min-size settings from the configuration apply. Useful for
estimating how much work a scan will do.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}
			cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			opts := cfg.ScanOptions()
			return runCount(cmd.Context(), cmd.OutOrStdout(), path, showProgress, dupes.WalkOptions{
				Exclude: opts.Exclude,
				MinSize: opts.MinSize,
			})
		},
	}

	cmd.Flags().BoolVar(&showProgress, "progress", false, "Show progress every 10,000 files")

	return cmd
}

func runCount(ctx context.Context, w io.Writer, path string, showProgress bool, opts dupes.WalkOptions) error {
	var (
		count int
		total int64
	)
	err := dupes.WalkFiles(ctx, osfs.New(resolveRoot(path)), ".", opts, func(_ string, info os.FileInfo) error {
		count++
		total += info.Size()
		if showProgress && count%10000 == 0 {
			fmt.Fprintf(w, "Progress: %d files counted\n", count)
		}
		return nil
	})
	if errors.Is(err, dupes.ErrRootNotFound) {
		return fmt.Errorf("%w: %s", dupes.ErrRootNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("counting files in %s: %w", path, err)
	}

	fmt.Fprintf(w, "Total files: %d\n", count)
	fmt.Fprintf(w, "Total size: %s\n", units.HumanSize(float64(total)))
	return nil
}
