package integrity_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazyscan-project/lazyscan/internal/integrity"
	"github.com/lazyscan-project/lazyscan/pkg/model"
)

func TestFileChecksumDetectsContentChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, []byte("content"), 0644))

	sum1, err := integrity.ComputeChecksum(path)
	require.NoError(t, err)
	assert.Len(t, sum1, 64)

	sum2, err := integrity.ComputeChecksum(path)
	require.NoError(t, err)
	assert.Equal(t, sum1, sum2)

	require.NoError(t, os.WriteFile(path, []byte("tampered"), 0644))
	sum3, err := integrity.ComputeChecksum(path)
	require.NoError(t, err)
	assert.NotEqual(t, sum1, sum3)
}

func TestTreeChecksumIsDeterministic(t *testing.T) {
	build := func(t *testing.T, order []string) model.HashValue {
		dir := t.TempDir()
		for _, name := range order {
			path := filepath.Join(dir, name)
			require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
			require.NoError(t, os.WriteFile(path, []byte(name), 0644))
		}
		sum, err := integrity.ComputeChecksum(dir)
		require.NoError(t, err)
		return sum
	}

	// Creation order must not matter.
	sum1 := build(t, []string{"a.txt", "sub/b.txt", "sub/c.txt"})
	sum2 := build(t, []string{"sub/c.txt", "a.txt", "sub/b.txt"})
	assert.Equal(t, sum1, sum2)
}

func TestTreeChecksumDetectsRename(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("same"), 0644))
	sum1, err := integrity.ComputeChecksum(dir)
	require.NoError(t, err)

	require.NoError(t, os.Rename(filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.txt")))
	sum2, err := integrity.ComputeChecksum(dir)
	require.NoError(t, err)

	// Same bytes under a different name is a different tree.
	assert.NotEqual(t, sum1, sum2)
}
