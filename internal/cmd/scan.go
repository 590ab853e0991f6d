package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dendrascience/dupes/dupes"
	"github.com/dendrascience/dupes/internal/config"
	"github.com/dendrascience/dupes/report"
	"github.com/fatih/color"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type scanFlags struct {
	workers     int
	algorithm   string
	onError     string
	readTimeout time.Duration
	format      string
	color       string
	exclude     []string
	minSize     int64
}

func addScanFlags(cmd *cobra.Command, f *scanFlags) {
	defaults := config.Default()

	cmd.Flags().IntVarP(&f.workers, "workers", "w", defaults.Workers, "Number of files hashed in parallel")
	cmd.Flags().StringVarP(&f.algorithm, "algorithm", "a", defaults.Algorithm, "Digest algorithm (md5, sha256, blake3)")
	cmd.Flags().StringVar(&f.onError, "on-error", defaults.OnError, "What to do with unreadable files (skip, abort)")
	cmd.Flags().DurationVar(&f.readTimeout, "read-timeout", 0, "Give up on a file after this long (0 disables)")
	cmd.Flags().StringVarP(&f.format, "format", "f", defaults.Format, "Output format (table, markdown, csv, json)")
	cmd.Flags().StringVar(&f.color, "color", defaults.Color, "Colorize the table (auto, always, never)")
	cmd.Flags().StringSliceVarP(&f.exclude, "exclude", "e", nil, "Skip files and directories whose name matches this glob (repeatable)")
	cmd.Flags().Int64Var(&f.minSize, "min-size", 0, "Ignore files smaller than this many bytes")
}

// apply copies the flags given on the command line into cfg.
func (f *scanFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Workers = f.workers
	}
	if flags.Changed("algorithm") {
		cfg.Algorithm = f.algorithm
	}
	if flags.Changed("on-error") {
		cfg.OnError = f.onError
	}
	if flags.Changed("read-timeout") {
		cfg.ReadTimeout = f.readTimeout
	}
	if flags.Changed("format") {
		cfg.Format = f.format
	}
	if flags.Changed("color") {
		cfg.Color = f.color
	}
	if flags.Changed("exclude") {
		cfg.Exclude = f.exclude
	}
	if flags.Changed("min-size") {
		cfg.MinSize = f.minSize
	}
}

// loadConfig resolves the configuration for cmd and sets up logging.
func loadConfig(cmd *cobra.Command, f *scanFlags) (config.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(file)
	if err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	if f != nil {
		f.apply(cmd, &cfg)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if err := configureLogging(cmd.ErrOrStderr(), cfg.LogLevel); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// NewScanCmd creates and returns the scan subcommand for the dupes CLI.
// It behaves exactly like the root command.
func NewScanCmd() *cobra.Command {
	var flags scanFlags

	cmd := &cobra.Command{
		Use:   "scan [PATH]",
		Short: "Find duplicate files beneath a directory",
		Long: `Find files with identical content beneath PATH.

All regular files are hashed in parallel. Files that share a digest are
printed together, with a blank row between groups, followed by the number
of duplicate files found. Unreadable files are skipped with a warning
unless --on-error=abort is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args, &flags)
		},
	}
	addScanFlags(cmd, &flags)

	return cmd
}

// resolveRoot follows a symlinked root so the walk descends into its target.
// Paths that cannot be resolved are returned unchanged and fail later with
// dupes.ErrRootNotFound.
func resolveRoot(root string) string {
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		return root
	}
	return resolved
}

func runScan(cmd *cobra.Command, args []string, flags *scanFlags) error {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	format := report.Format(cfg.Format)
	// decorative lines would corrupt machine readable output
	chatty := format == report.FormatTable

	root := "."
	if len(args) > 0 && args[0] != "" {
		root = args[0]
	} else if chatty {
		fmt.Fprintln(out, "\nPath not provided, analyzing current directory...")
	}
	if chatty {
		fmt.Fprintf(out, "\nAnalyzing %s...\n", root)
	}

	logrus.WithFields(logrus.Fields{
		"root":      root,
		"workers":   cfg.Workers,
		"algorithm": cfg.Algorithm,
		"on_error":  cfg.OnError,
	}).Info("Starting scan")

	opts := cfg.ScanOptions()
	opts.DisplayRoot = root
	res, err := dupes.NewScanner(osfs.New(resolveRoot(root)), opts).Scan(cmd.Context(), ".")
	if err != nil {
		return err
	}

	return report.Write(out, res, report.Options{
		Format: format,
		Color:  cfg.UseColor(!color.NoColor),
	})
}
