package cmd

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

const maxFilesPerDir = 1000

var errInvalidSeed = errors.New("invalid seed parameters")

// NewSeedCmd creates and returns the seed subcommand for the dupes CLI.
// It generates a tree of test files that is guaranteed to hold duplicates.
func NewSeedCmd() *cobra.Command {
	var (
		outputPath string
		fileCount  int
		distinct   int
		maxDepth   int
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate a test tree full of duplicate files",
		Long: `Generate test files for exercising dupes.

Files are spread over a randomized directory hierarchy up to --depth levels
deep. Each file holds a single UUID line drawn from a pool of --distinct
UUIDs, so whenever --count exceeds --distinct the tree contains duplicates.
Run dupes on the output directory to see them grouped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.OutOrStdout(), outputPath, fileCount, distinct, maxDepth, verbose)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Path to output directory (required)")
	cmd.Flags().IntVarP(&fileCount, "count", "n", 1000, "Number of files to generate")
	cmd.Flags().IntVarP(&distinct, "distinct", "d", 50, "Number of distinct file contents")
	cmd.Flags().IntVar(&maxDepth, "depth", 3, "Maximum directory depth")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	cmd.MarkFlagRequired("output")

	return cmd
}

// seedCapacity returns how many files a tree of the given depth holds, with
// 16 subdirectories per level and maxFilesPerDir files per directory. Counting
// stops once the capacity reaches want.
func seedCapacity(maxDepth, want int) int {
	dirs, level := 0, 1
	for range maxDepth + 1 {
		dirs += level
		if dirs*maxFilesPerDir >= want {
			break
		}
		level *= 16
	}
	return dirs * maxFilesPerDir
}

func runSeed(w io.Writer, outputPath string, fileCount, distinct, maxDepth int, verbose bool) error {
	switch {
	case fileCount < 0:
		return fmt.Errorf("%w: count must not be negative", errInvalidSeed)
	case distinct < 1:
		return fmt.Errorf("%w: distinct must be at least 1", errInvalidSeed)
	case maxDepth < 0:
		return fmt.Errorf("%w: depth must not be negative", errInvalidSeed)
	case fileCount > seedCapacity(maxDepth, fileCount):
		return fmt.Errorf("%w: %d files do not fit in a tree of depth %d with at most %d files per directory",
			errInvalidSeed, fileCount, maxDepth, maxFilesPerDir)
	}

	if verbose {
		fmt.Fprintf(w, "Generating %d test files with %d distinct contents in %s\n", fileCount, distinct, outputPath)
	}

	if err := os.MkdirAll(outputPath, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	contentPool := make([]string, distinct)
	for i := range contentPool {
		contentPool[i] = uuid.NewString()
	}

	filesCreated := 0
	dirFileCounts := make(map[string]int)

	for filesCreated < fileCount {
		dirPath := outputPath
		for range rand.IntN(maxDepth + 1) {
			dirPath = filepath.Join(dirPath, fmt.Sprintf("%02d", rand.IntN(16)))
		}

		if dirFileCounts[dirPath] >= maxFilesPerDir {
			continue
		}

		if err := os.MkdirAll(dirPath, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dirPath, err)
		}

		ext := ".json"
		if rand.IntN(2) == 1 {
			ext = ".txt"
		}
		filePath := filepath.Join(dirPath, fmt.Sprintf("%08x%s", rand.Uint32(), ext))

		if _, err := os.Stat(filePath); err == nil {
			continue
		}

		content := contentPool[rand.IntN(distinct)] + "\n"
		if err := os.WriteFile(filePath, []byte(content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", filePath, err)
		}

		dirFileCounts[dirPath]++
		filesCreated++

		if verbose && filesCreated%1000 == 0 {
			fmt.Fprintf(w, "Created %d/%d files...\n", filesCreated, fileCount)
		}
	}

	fmt.Fprintf(w, "Created %d files across %d directories in %s\n", filesCreated, len(dirFileCounts), outputPath)

	if verbose && len(dirFileCounts) > 0 {
		maxFiles := 0
		minFiles := maxFilesPerDir
		for _, count := range dirFileCounts {
			maxFiles = max(maxFiles, count)
			minFiles = min(minFiles, count)
		}
		fmt.Fprintf(w, "Directory file counts: min=%d, max=%d\n", minFiles, maxFiles)
	}
	return nil
}
