package dupes

import (
	"path"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/require"
)

// newTree returns an in-memory filesystem holding files below "root".
func newTree(t *testing.T, files map[string]string) billy.Filesystem {
	t.Helper()

	fsys := memfs.New()
	require.NoError(t, fsys.MkdirAll("root", 0o755))
	for name, content := range files {
		full := path.Join("root", name)
		require.NoError(t, fsys.MkdirAll(path.Dir(full), 0o755))
		require.NoError(t, util.WriteFile(fsys, full, []byte(content), 0o644))
	}
	return fsys
}
