package dupes

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/sirupsen/logrus"
)

// Options configures a Scanner.
type Options struct {
	Algorithm   Algorithm
	Workers     int
	Policy      Policy
	ReadTimeout time.Duration
	Exclude     []string
	MinSize     int64
	// DisplayRoot is joined in front of every reported path. It lets a
	// filesystem rooted at the scanned directory report paths the way the
	// user typed them.
	DisplayRoot string
}

// Result is the outcome of a scan.
type Result struct {
	Root       string       `json:"root"`
	Algorithm  Algorithm    `json:"algorithm"`
	Files      int          `json:"files"`
	Skipped    int          `json:"skipped"`
	Duplicates []FileRecord `json:"duplicates"`
}

// Groups splits the duplicates into their digest groups.
func (r Result) Groups() []Group {
	return GroupRecords(r.Duplicates)
}

// Reclaimable is the number of bytes freed by keeping one file per group.
func (r Result) Reclaimable() int64 {
	var total int64
	for _, g := range r.Groups() {
		total += g.Reclaimable()
	}
	return total
}

// Scanner runs the walk, hash and group pipeline over a filesystem.
type Scanner struct {
	fs     billy.Filesystem
	opts   Options
	hasher *Hasher
	log    logrus.FieldLogger
}

// NewScanner returns a Scanner reading from fsys.
func NewScanner(fsys billy.Filesystem, opts Options) *Scanner {
	if opts.Algorithm == "" {
		opts.Algorithm = DefaultAlgorithm
	}
	if opts.Policy == "" {
		opts.Policy = PolicySkip
	}

	log := logrus.StandardLogger()
	hasher := NewHasher(fsys, opts.Algorithm)
	hasher.ReadTimeout = opts.ReadTimeout
	hasher.Prefix = opts.DisplayRoot
	hasher.Log = log

	return &Scanner{
		fs:     fsys,
		opts:   opts,
		hasher: hasher,
		log:    log,
	}
}

// WithLogger replaces the logger used for warnings.
func (s *Scanner) WithLogger(log logrus.FieldLogger) *Scanner {
	s.log = log
	s.hasher.Log = log
	return s
}

// Scan finds the duplicate files beneath root.
func (s *Scanner) Scan(ctx context.Context, root string) (Result, error) {
	if root == "" {
		root = "."
	}
	display := filepath.Join(s.opts.DisplayRoot, root)

	start := time.Now()
	paths, err := Walk(ctx, s.fs, root, WalkOptions{Exclude: s.opts.Exclude, MinSize: s.opts.MinSize})
	if errors.Is(err, ErrRootNotFound) {
		return Result{}, fmt.Errorf("%w: %s", ErrRootNotFound, display)
	}
	if err != nil {
		return Result{}, err
	}
	s.log.WithFields(logrus.Fields{
		"root":     display,
		"files":    len(paths),
		"duration": time.Since(start),
	}).Debug("Traversal complete")

	start = time.Now()
	records, skipped, err := s.hasher.HashAll(ctx, paths, s.opts.Workers, s.opts.Policy)
	if err != nil {
		return Result{}, err
	}
	s.log.WithFields(logrus.Fields{
		"hashed":   len(records),
		"skipped":  skipped,
		"duration": time.Since(start),
	}).Debug("Hashing complete")

	return Result{
		Root:       display,
		Algorithm:  s.opts.Algorithm,
		Files:      len(records),
		Skipped:    skipped,
		Duplicates: FindDuplicates(records),
	}, nil
}
