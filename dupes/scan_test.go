package dupes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scan(t *testing.T, files map[string]string, opts Options) Result {
	t.Helper()
	res, err := NewScanner(newTree(t, files), opts).Scan(context.Background(), "root")
	require.NoError(t, err)
	return res
}

func TestScan_HelloWorld(t *testing.T) {
	res := scan(t, map[string]string{
		"a.txt": "hello",
		"b.txt": "hello",
		"c.txt": "world",
	}, Options{})

	assert.Equal(t, 3, res.Files)
	assert.Equal(t, MD5, res.Algorithm)
	require.Len(t, res.Duplicates, 2)
	assert.Equal(t, "root/a.txt", res.Duplicates[0].Path)
	assert.Equal(t, "root/b.txt", res.Duplicates[1].Path)
	assert.Equal(t, res.Duplicates[0].Digest, res.Duplicates[1].Digest)
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", res.Duplicates[0].Digest)
}

func TestScan_ThreeIdenticalTwoDistinct(t *testing.T) {
	res := scan(t, map[string]string{
		"one.txt":        "same",
		"nested/two.txt": "same",
		"a/b/c/three":    "same",
		"unique1":        "first",
		"unique2":        "second",
	}, Options{Workers: 3})

	assert.Len(t, res.Duplicates, 3)
	assert.Len(t, res.Groups(), 1)
	assert.Equal(t, int64(8), res.Reclaimable())
}

func TestScan_NoDuplicates(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{"empty tree", nil},
		{"distinct content", map[string]string{"a": "1", "b": "2", "sub/c": "3"}},
		{"same name different content", map[string]string{"x/f.txt": "1", "y/f.txt": "2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := scan(t, tt.files, Options{})
			assert.Empty(t, res.Duplicates)
			assert.Empty(t, res.Groups())
		})
	}
}

func TestScan_ContentNotName(t *testing.T) {
	res := scan(t, map[string]string{
		"photos/2023/img.jpg":   "\x00\x01binary",
		"backup/old/copy.bak":   "\x00\x01binary",
		"photos/2023/other.jpg": "\x00\x01binarY",
	}, Options{})

	require.Len(t, res.Duplicates, 2)
	assert.Equal(t, []string{"root/backup/old/copy.bak", "root/photos/2023/img.jpg"}, res.Groups()[0].Paths())
}

func TestScan_Idempotent(t *testing.T) {
	fsys := newTree(t, map[string]string{
		"a": "x", "b": "x", "c": "y", "d": "y", "e": "y", "f": "z",
	})
	scanner := NewScanner(fsys, Options{Workers: 4})

	first, err := scanner.Scan(context.Background(), "root")
	require.NoError(t, err)
	second, err := scanner.Scan(context.Background(), "root")
	require.NoError(t, err)

	assert.Equal(t, first.Groups(), second.Groups())
	assert.Len(t, first.Duplicates, 5)
}

func TestScan_DisplayRoot(t *testing.T) {
	res := scan(t, map[string]string{"a": "x", "b": "x"}, Options{DisplayRoot: "/srv"})

	assert.Equal(t, "/srv/root", res.Root)
	assert.Equal(t, "/srv/root/a", res.Duplicates[0].Path)
}

func TestScan_Algorithm(t *testing.T) {
	res := scan(t, map[string]string{"a": "hello world", "b": "hello world"}, Options{Algorithm: SHA256})

	require.Len(t, res.Duplicates, 2)
	assert.Equal(t, "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9", res.Duplicates[0].Digest)
}

func TestScan_RootNotFound(t *testing.T) {
	_, err := NewScanner(newTree(t, nil), Options{DisplayRoot: "/srv"}).Scan(context.Background(), "nope")
	require.ErrorIs(t, err, ErrRootNotFound)
	assert.Contains(t, err.Error(), "/srv/nope")
}
