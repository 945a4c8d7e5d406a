package guard_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazyscan-project/lazyscan/internal/guard"
)

func TestIsCriticalBlocksSystemPaths(t *testing.T) {
	g := guard.New("/home/tester", nil)

	crit, match := g.IsCritical("/")
	assert.True(t, crit)
	assert.Equal(t, "/", match)

	// "/usr" is deny-listed on every unix platform; deleting it, or any
	// ancestor of it, removes a protected path.
	crit, _ = g.IsCritical("/usr")
	assert.True(t, crit)
}

func TestIsCriticalIsNotStringPrefix(t *testing.T) {
	g := guard.New("/home/tester", nil)

	// A sibling whose name shares a prefix with a deny entry is fine.
	crit, _ := g.IsCritical("/usr-local-stuff")
	assert.False(t, crit)
}

func TestIsCriticalProtectsHomeButNotItsChildren(t *testing.T) {
	g := guard.New("/home/tester", nil)

	crit, match := g.IsCritical("/home/tester")
	assert.True(t, crit)
	assert.Equal(t, "/home/tester", match)

	// Children of home are the whole point of a cache cleaner; the policy
	// allow-list governs them, not the guard.
	crit, _ = g.IsCritical("/home/tester/.cache/google-chrome")
	assert.False(t, crit)
}

func TestExtraDenyEntries(t *testing.T) {
	g := guard.New("/home/tester", []string{"/srv/precious"})

	crit, match := g.IsCritical("/srv/precious")
	assert.True(t, crit)
	assert.Equal(t, "/srv/precious", match)

	crit, _ = g.IsCritical("/srv/other")
	assert.False(t, crit)
}

func TestDeniedReturnsCopy(t *testing.T) {
	g := guard.New("/home/tester", nil)
	denied := g.Denied()
	require.NotEmpty(t, denied)
	denied[0] = "/mutated"

	assert.NotEqual(t, "/mutated", g.Denied()[0])
}

func TestIsSymlink(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(file, link))

	isLink, err := guard.IsSymlink(link)
	require.NoError(t, err)
	assert.True(t, isLink)

	isLink, err = guard.IsSymlink(file)
	require.NoError(t, err)
	assert.False(t, isLink)

	// Missing paths are not symlinks.
	isLink, err = guard.IsSymlink(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.False(t, isLink)
}
