package dupes

import "errors"

// Sentinel errors for package dupes.
// These errors can be checked with errors.Is() for specific error handling.
var (
	// Traversal errors
	ErrRootNotFound = errors.New("root path does not exist")
	ErrExpectedFile = errors.New("expected file, got directory")

	// Hashing errors
	ErrUnknownAlgorithm = errors.New("unknown hash algorithm")
	ErrReadTimeout      = errors.New("read timed out")

	// Policy errors
	ErrUnknownPolicy = errors.New("unknown error policy")
)
