package dupes

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/sirupsen/logrus"
)

// WalkOptions narrows the set of files produced by a walk.
type WalkOptions struct {
	// Exclude holds doublestar glob patterns matched against an entry's base
	// name and its slash-separated path relative to the walk root. A matching
	// directory is pruned.
	Exclude []string
	// MinSize drops regular files smaller than this many bytes.
	MinSize int64
}

func (o WalkOptions) excluded(rel, name string) bool {
	for _, pattern := range o.Exclude {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// FileFunc is called by WalkFiles for every regular file found.
type FileFunc func(path string, info os.FileInfo) error

// WalkFiles calls fn for every regular file beneath root.
//
// Entries that fail to stat or to list (permission denied, broken links,
// entries removed during the walk) are skipped rather than aborting the walk.
// Directories, symlinks, devices, sockets and pipes are never passed to fn.
// A missing root yields ErrRootNotFound.
func WalkFiles(ctx context.Context, fsys billy.Filesystem, root string, opts WalkOptions, fn FileFunc) error {
	if root == "" {
		root = "."
	}

	info, err := fsys.Lstat(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrRootNotFound, root)
		}
		return fmt.Errorf("stat %s: %w", root, err)
	}
	if info.Mode().IsRegular() {
		if info.Size() < opts.MinSize {
			return nil
		}
		return fn(root, info)
	}

	return util.Walk(fsys, root, func(subpath string, info os.FileInfo, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			logrus.WithError(err).WithField("path", subpath).Debug("Skipping unreadable entry")
			return nil
		}
		if subpath != root && len(opts.Exclude) > 0 && opts.excluded(relativePath(root, subpath), info.Name()) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.Mode().IsRegular() || info.Size() < opts.MinSize {
			return nil
		}
		return fn(subpath, info)
	})
}

func relativePath(root, subpath string) string {
	rel, err := filepath.Rel(root, subpath)
	if err != nil {
		return filepath.ToSlash(subpath)
	}
	return filepath.ToSlash(rel)
}

// Walk returns the path of every regular file beneath root.
// The order of the result is unspecified.
func Walk(ctx context.Context, fsys billy.Filesystem, root string, opts WalkOptions) ([]string, error) {
	var paths []string
	err := WalkFiles(ctx, fsys, root, opts, func(path string, _ os.FileInfo) error {
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}
