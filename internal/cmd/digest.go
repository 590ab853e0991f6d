package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/dendrascience/dupes/dupes"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewDigestCmd creates and returns the digest subcommand for the dupes CLI.
func NewDigestCmd() *cobra.Command {
	var flags scanFlags

	cmd := &cobra.Command{
		Use:   "digest FILE...",
		Short: "Print the content digest of files",
		Long: `Print the digest a scan would compute for each FILE.

Output follows the md5sum layout, one "<digest>  <path>" line per file, so
two files can be confirmed as duplicates by hand. Files that cannot be read
are reported on stderr and make the command fail once all files have been
processed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, &flags)
			if err != nil {
				return err
			}
			return runDigest(cmd.Context(), cmd.OutOrStdout(), args, dupes.Algorithm(cfg.Algorithm), cfg.ReadTimeout)
		},
	}

	cmd.Flags().StringVarP(&flags.algorithm, "algorithm", "a", string(dupes.DefaultAlgorithm), "Digest algorithm (md5, sha256, blake3)")
	cmd.Flags().DurationVar(&flags.readTimeout, "read-timeout", 0, "Give up on a file after this long (0 disables)")

	return cmd
}

func runDigest(ctx context.Context, w io.Writer, files []string, algo dupes.Algorithm, timeout time.Duration) error {
	failed := 0
	for _, file := range files {
		h := dupes.NewHasher(osfs.New(filepath.Dir(file)), algo)
		h.ReadTimeout = timeout

		rec, err := h.HashFile(ctx, filepath.Base(file))
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			failed++
			logrus.WithError(err).WithField("path", file).Error("Failed to hash file")
			continue
		}
		fmt.Fprintf(w, "%s  %s\n", rec.Digest, file)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be hashed", failed, len(files))
	}
	return nil
}
