package fsutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazyscan-project/lazyscan/pkg/fsutil"
)

func TestAtomicWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	require.NoError(t, fsutil.AtomicWrite(path, []byte("first"), 0644))
	require.NoError(t, fsutil.AtomicWrite(path, []byte("second"), 0644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestCopyFilePreservesModeAndContent(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0600))

	require.NoError(t, fsutil.CopyFile(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestCopyTree(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "sub", "deep"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.txt"), []byte("a"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "sub", "deep", "b.txt"), []byte("bb"), 0644))
	require.NoError(t, os.Symlink("a.txt", filepath.Join(src, "link")))

	dst := filepath.Join(t.TempDir(), "copy")
	require.NoError(t, fsutil.CopyTree(src, dst))

	data, err := os.ReadFile(filepath.Join(dst, "sub", "deep", "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "bb", string(data))

	// Symlinks are recreated as links, not followed.
	target, err := os.Readlink(filepath.Join(dst, "link"))
	require.NoError(t, err)
	assert.Equal(t, "a.txt", target)
}

func TestDirSize(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a"), make([]byte, 100), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b"), make([]byte, 50), 0644))

	size, err := fsutil.DirSize(dir)
	require.NoError(t, err)
	assert.Equal(t, int64(150), size)

	size, err = fsutil.DirSize(filepath.Join(dir, "a"))
	require.NoError(t, err)
	assert.Equal(t, int64(100), size)
}
