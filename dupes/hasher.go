package dupes

import (
	"context"
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
	"github.com/zeebo/blake3"
)

// Algorithm identifies the digest function used to compare files.
type Algorithm string

const (
	MD5    Algorithm = "md5"
	SHA256 Algorithm = "sha256"
	BLAKE3 Algorithm = "blake3"
)

// DefaultAlgorithm yields 128 bit digests rendered as 32 hex characters.
const DefaultAlgorithm = MD5

// SupportedAlgorithms returns the identifiers accepted by ParseAlgorithm.
func SupportedAlgorithms() []string {
	return []string{string(MD5), string(SHA256), string(BLAKE3)}
}

// ParseAlgorithm maps a user supplied name to an Algorithm.
// Matching ignores case and dashes, so "SHA-256" selects SHA256.
// The empty string selects DefaultAlgorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "")
	if normalized == "" {
		return DefaultAlgorithm, nil
	}
	for _, a := range SupportedAlgorithms() {
		if normalized == a {
			return Algorithm(a), nil
		}
	}
	return "", fmt.Errorf("%w %q (supported: %s)", ErrUnknownAlgorithm, name, strings.Join(SupportedAlgorithms(), ", "))
}

// New returns a fresh hash.Hash for the algorithm.
func (a Algorithm) New() hash.Hash {
	switch a {
	case SHA256:
		return sha256.New()
	case BLAKE3:
		return blake3.New()
	default:
		return md5.New()
	}
}

// HexLen is the length of a rendered digest.
func (a Algorithm) HexLen() int {
	return a.New().Size() * 2
}

// Digest hashes data and returns the lowercase hex digest.
func (a Algorithm) Digest(data []byte) string {
	h := a.New()
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Policy decides what happens when a file cannot be read while hashing.
type Policy string

const (
	// PolicySkip drops the file from the analysis and logs a warning.
	PolicySkip Policy = "skip"
	// PolicyAbort stops the run on the first read failure.
	PolicyAbort Policy = "abort"
)

// ParsePolicy maps a user supplied name to a Policy. The empty string selects
// PolicySkip.
func ParsePolicy(name string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(name))) {
	case "", PolicySkip:
		return PolicySkip, nil
	case PolicyAbort:
		return PolicyAbort, nil
	}
	return "", fmt.Errorf("%w %q (supported: %s, %s)", ErrUnknownPolicy, name, PolicySkip, PolicyAbort)
}

// Hasher computes FileRecords for files on a filesystem.
type Hasher struct {
	FS        billy.Filesystem
	Algorithm Algorithm
	// ReadTimeout bounds the time spent reading one file. Zero disables it.
	ReadTimeout time.Duration
	// Prefix is joined in front of every record path.
	Prefix string
	Log    logrus.FieldLogger
}

// NewHasher returns a Hasher using algo on fsys.
func NewHasher(fsys billy.Filesystem, algo Algorithm) *Hasher {
	return &Hasher{
		FS:        fsys,
		Algorithm: algo,
		Log:       logrus.StandardLogger(),
	}
}

// HashFile reads the whole file at name and returns its record.
func (h *Hasher) HashFile(ctx context.Context, name string) (FileRecord, error) {
	info, err := h.FS.Stat(name)
	if err != nil {
		return FileRecord{}, err
	}
	if info.IsDir() {
		return FileRecord{}, fmt.Errorf("%s: %w", name, ErrExpectedFile)
	}

	data, err := h.read(ctx, name)
	if err != nil {
		return FileRecord{}, err
	}
	return FileRecord{
		Path:   filepath.Join(h.Prefix, name),
		Digest: h.Algorithm.Digest(data),
		Size:   int64(len(data)),
	}, nil
}

func (h *Hasher) read(ctx context.Context, name string) ([]byte, error) {
	if h.ReadTimeout <= 0 {
		return readFile(h.FS, name)
	}

	ctx, cancel := context.WithTimeout(ctx, h.ReadTimeout)
	defer cancel()

	type readResult struct {
		data []byte
		err  error
	}
	done := make(chan readResult, 1)
	go func() {
		data, err := readFile(h.FS, name)
		done <- readResult{data, err}
	}()

	select {
	case r := <-done:
		return r.data, r.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%s: %w after %s", name, ErrReadTimeout, h.ReadTimeout)
		}
		return nil, ctx.Err()
	}
}

func (h *Hasher) logger() logrus.FieldLogger {
	if h.Log == nil {
		return logrus.StandardLogger()
	}
	return h.Log
}

func readFile(fsys billy.Filesystem, name string) ([]byte, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

type hashOutcome struct {
	record FileRecord
	path   string
	err    error
}

// HashAll hashes every path on a pool of at most workers goroutines
// (runtime.NumCPU() when workers < 1) and returns the records in no
// particular order together with the number of files skipped.
//
// Under PolicySkip an unreadable file is logged and left out. Under
// PolicyAbort the first failure cancels the remaining work and is returned.
// Cancelling ctx stops the work and returns ctx.Err().
func (h *Hasher) HashAll(ctx context.Context, paths []string, workers int, policy Policy) ([]FileRecord, int, error) {
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	p := pool.NewWithResults[hashOutcome]().
		WithMaxGoroutines(workers).
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError()

	for _, name := range paths {
		p.Go(func(ctx context.Context) (hashOutcome, error) {
			if err := ctx.Err(); err != nil {
				return hashOutcome{}, err
			}
			rec, err := h.HashFile(ctx, name)
			switch {
			case err == nil:
				return hashOutcome{record: rec}, nil
			case ctx.Err() != nil:
				return hashOutcome{}, ctx.Err()
			case policy == PolicyAbort:
				return hashOutcome{}, fmt.Errorf("hashing %s: %w", filepath.Join(h.Prefix, name), err)
			default:
				return hashOutcome{path: name, err: err}, nil
			}
		})
	}

	outcomes, err := p.Wait()
	if err != nil {
		return nil, 0, err
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	records := make([]FileRecord, 0, len(outcomes))
	skipped := 0
	for _, o := range outcomes {
		if o.err != nil {
			skipped++
			h.logger().WithError(o.err).WithField("path", filepath.Join(h.Prefix, o.path)).Warn("Skipping unreadable file")
			continue
		}
		records = append(records, o.record)
	}
	return records, skipped, nil
}
