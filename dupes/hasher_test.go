package dupes

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlgorithmDigest(t *testing.T) {
	tests := []struct {
		name  string
		algo  Algorithm
		input string
		want  string
	}{
		{"md5 empty", MD5, "", "d41d8cd98f00b204e9800998ecf8427e"},
		{"md5 hello", MD5, "hello", "5d41402abc4b2a76b9719d911017c592"},
		{"md5 world", MD5, "world", "7d793037a0760186574b0282f2f435e7"},
		{"md5 hello world", MD5, "hello world", "5eb63bbbe01eeed093cb22bb8f5acdc3"},
		{"sha256 hello world", SHA256, "hello world", "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"},
		{"blake3 empty", BLAKE3, "", "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.algo.Digest([]byte(tt.input)))
		})
	}
}

func TestAlgorithmDigest_FixedWidth(t *testing.T) {
	// bytes below 0x10 must keep their leading zero
	for i := 0; i < 256; i++ {
		digest := MD5.Digest([]byte{byte(i)})
		require.Len(t, digest, 32, "input %d", i)
		require.Equal(t, strings.ToLower(digest), digest)
		for _, c := range digest {
			require.True(t, (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f'), "invalid character %q", c)
		}
	}
}

func TestAlgorithmHexLen(t *testing.T) {
	assert.Equal(t, 32, MD5.HexLen())
	assert.Equal(t, 64, SHA256.HexLen())
	assert.Equal(t, 64, BLAKE3.HexLen())
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		input   string
		want    Algorithm
		wantErr bool
	}{
		{"", MD5, false},
		{"md5", MD5, false},
		{"MD5", MD5, false},
		{"sha-256", SHA256, false},
		{"SHA256", SHA256, false},
		{" blake3 ", BLAKE3, false},
		{"crc32", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAlgorithm(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownAlgorithm)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePolicy(t *testing.T) {
	got, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicySkip, got)

	got, err = ParsePolicy("Abort")
	require.NoError(t, err)
	assert.Equal(t, PolicyAbort, got)

	_, err = ParsePolicy("retry")
	require.ErrorIs(t, err, ErrUnknownPolicy)
}

func TestHashFile(t *testing.T) {
	fsys := newTree(t, map[string]string{
		"hello.txt": "hello",
		"empty.txt": "",
	})
	h := NewHasher(fsys, MD5)

	tests := []struct {
		name    string
		path    string
		want    FileRecord
		wantErr error
	}{
		{
			name: "regular file",
			path: "root/hello.txt",
			want: FileRecord{Path: "root/hello.txt", Digest: "5d41402abc4b2a76b9719d911017c592", Size: 5},
		},
		{
			name: "empty file",
			path: "root/empty.txt",
			want: FileRecord{Path: "root/empty.txt", Digest: "d41d8cd98f00b204e9800998ecf8427e", Size: 0},
		},
		{
			name:    "directory returns error",
			path:    "root",
			wantErr: ErrExpectedFile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := h.HashFile(context.Background(), tt.path)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := h.HashFile(context.Background(), "root/nonexistent.txt")
	require.Error(t, err)
}

func TestHashFile_Prefix(t *testing.T) {
	fsys := newTree(t, map[string]string{"a.txt": "hello"})
	h := NewHasher(fsys, MD5)
	h.Prefix = "/data"

	got, err := h.HashFile(context.Background(), "root/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "/data/root/a.txt", got.Path)
}

// blockingFS never returns from Open until release is closed.
type blockingFS struct {
	billy.Filesystem
	release chan struct{}
}

func (b blockingFS) Open(name string) (billy.File, error) {
	<-b.release
	return b.Filesystem.Open(name)
}

func TestHashFile_ReadTimeout(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	fsys := blockingFS{Filesystem: newTree(t, map[string]string{"a.txt": "hello"}), release: release}
	h := NewHasher(fsys, MD5)
	h.ReadTimeout = 20 * time.Millisecond

	_, err := h.HashFile(context.Background(), "root/a.txt")
	require.ErrorIs(t, err, ErrReadTimeout)
}

func TestHashAll(t *testing.T) {
	files := map[string]string{}
	var paths []string
	for i := range 50 {
		name := fmt.Sprintf("file%02d.txt", i)
		files[name] = fmt.Sprintf("content %d", i%10)
		paths = append(paths, "root/"+name)
	}
	fsys := newTree(t, files)

	for _, workers := range []int{0, 1, 4} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			records, skipped, err := NewHasher(fsys, MD5).HashAll(context.Background(), paths, workers, PolicySkip)
			require.NoError(t, err)
			assert.Zero(t, skipped)
			require.Len(t, records, len(paths))

			for _, r := range records {
				name := strings.TrimPrefix(r.Path, "root/")
				assert.Equal(t, MD5.Digest([]byte(files[name])), r.Digest, r.Path)
			}
		})
	}
}

func TestHashAll_SkipPolicy(t *testing.T) {
	fsys := newTree(t, map[string]string{"a.txt": "hello", "b.txt": "hello"})
	logger, hook := logtest.NewNullLogger()

	h := NewHasher(fsys, MD5)
	h.Log = logger

	paths := []string{"root/a.txt", "root/vanished.txt", "root/b.txt"}
	records, skipped, err := h.HashAll(context.Background(), paths, 2, PolicySkip)
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	assert.Len(t, records, 2)

	require.Len(t, hook.AllEntries(), 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "root/vanished.txt", entry.Data["path"])
}

func TestHashAll_AbortPolicy(t *testing.T) {
	fsys := newTree(t, map[string]string{"a.txt": "hello"})

	paths := []string{"root/a.txt", "root/vanished.txt"}
	records, _, err := NewHasher(fsys, MD5).HashAll(context.Background(), paths, 2, PolicyAbort)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "root/vanished.txt")
	assert.Nil(t, records)
}

func TestHashAll_Cancelled(t *testing.T) {
	fsys := newTree(t, map[string]string{"a.txt": "hello", "b.txt": "world"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewHasher(fsys, MD5).HashAll(ctx, []string{"root/a.txt", "root/b.txt"}, 2, PolicySkip)
	require.ErrorIs(t, err, context.Canceled)
}
