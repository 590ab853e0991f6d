// Package dupes finds files with identical content beneath a directory tree.
//
// A scan runs in three stages:
//   - Walk enumerates every regular file below a root, skipping entries that
//     cannot be read and anything that is not a regular file.
//   - Hasher reads each file fully and computes a content digest. Files are
//     hashed concurrently on a bounded worker pool; results are only gathered
//     once every worker has finished.
//   - FindDuplicates keeps the records whose digest occurs more than once.
//
// All filesystem access goes through a billy.Filesystem, so the same code
// scans the host filesystem (osfs) or an in-memory tree (memfs).
//
// Digests are used as a fast equality proxy, not as a security primitive.
// The default algorithm is MD5, which yields a 32 character hex digest.
package dupes
