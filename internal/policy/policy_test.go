package policy_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazyscan-project/lazyscan/internal/guard"
	"github.com/lazyscan-project/lazyscan/internal/policy"
	"github.com/lazyscan-project/lazyscan/pkg/errclass"
	"github.com/lazyscan-project/lazyscan/pkg/model"
)

func testPolicy(roots map[model.Category][]string) *model.Policy {
	return &model.Policy{
		Version:             1,
		AllowedRoots:        roots,
		RequireTrashFirst:   true,
		BlockSymlinks:       true,
		BackupBeforeDelete:  true,
		BackupRetentionDays: 30,
	}
}

func TestLoadMissingFileFailsClosed(t *testing.T) {
	_, err := policy.Load(filepath.Join(t.TempDir(), "policy.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errclass.ErrSecurityPolicy)
	assert.Contains(t, err.Error(), "fail-closed")
}

func TestLoadMalformedFileFailsClosed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("allowed_roots: [broken"), 0644))

	_, err := policy.Load(path)
	assert.ErrorIs(t, err, errclass.ErrSecurityPolicy)
}

func TestValidationFailsClosed(t *testing.T) {
	g := guard.New("/home/tester", nil)

	t.Run("missing allowed_roots", func(t *testing.T) {
		_, err := policy.NewEngine(testPolicy(nil), g)
		assert.ErrorIs(t, err, errclass.ErrSecurityPolicy)
	})

	t.Run("unknown category", func(t *testing.T) {
		p := testPolicy(map[model.Category][]string{"bitcoin": {"/tmp"}})
		_, err := policy.NewEngine(p, g)
		assert.ErrorIs(t, err, errclass.ErrSecurityPolicy)
	})

	t.Run("symlink protection disabled", func(t *testing.T) {
		p := testPolicy(map[model.Category][]string{model.CategoryOther: {"/tmp"}})
		p.BlockSymlinks = false
		_, err := policy.NewEngine(p, g)
		assert.ErrorIs(t, err, errclass.ErrSecurityPolicy)
	})

	t.Run("relative allowed root", func(t *testing.T) {
		p := testPolicy(map[model.Category][]string{model.CategoryOther: {"relative/cache"}})
		_, err := policy.NewEngine(p, g)
		assert.ErrorIs(t, err, errclass.ErrSecurityPolicy)
	})
}

func TestApprove(t *testing.T) {
	root := t.TempDir()
	p := testPolicy(map[model.Category][]string{
		model.CategoryChrome: {filepath.Join(root, "chrome")},
		model.CategoryOther:  {filepath.Join(root, "misc")},
	})
	engine, err := policy.NewEngine(p, guard.New("/home/tester", nil))
	require.NoError(t, err)

	chrome := model.CandidatePath{Path: "cache", Category: model.CategoryChrome}

	t.Run("under allowed root", func(t *testing.T) {
		err := engine.Approve(chrome, filepath.Join(root, "chrome", "Default", "Cache"))
		assert.NoError(t, err)
	})

	t.Run("outside allowed roots", func(t *testing.T) {
		err := engine.Approve(chrome, filepath.Join(root, "elsewhere"))
		assert.ErrorIs(t, err, errclass.ErrSecurityPolicy)
	})

	t.Run("critical path wins over allow list", func(t *testing.T) {
		err := engine.Approve(chrome, "/home/tester")
		assert.ErrorIs(t, err, errclass.ErrDeletionSafety)
	})

	t.Run("unconfigured category falls back to other", func(t *testing.T) {
		unity := model.CandidatePath{Path: "cache", Category: model.CategoryUnity}
		err := engine.Approve(unity, filepath.Join(root, "misc", "unity"))
		assert.NoError(t, err)
	})
}

func TestHashIsStable(t *testing.T) {
	p := testPolicy(map[model.Category][]string{model.CategoryOther: {"/tmp"}})
	g := guard.New("/home/tester", nil)

	e1, err := policy.NewEngine(p, g)
	require.NoError(t, err)
	e2, err := policy.NewEngine(testPolicy(map[model.Category][]string{model.CategoryOther: {"/tmp"}}), g)
	require.NoError(t, err)

	assert.Len(t, e1.Hash(), 12)
	assert.Equal(t, e1.Hash(), e2.Hash())
}

func TestSaveDefaultThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "policy.yaml")
	require.NoError(t, policy.SaveDefault(path))

	// Refuses to clobber.
	require.Error(t, policy.SaveDefault(path))

	engine, err := policy.Load(path)
	require.NoError(t, err)
	assert.True(t, engine.Policy().RequireTrashFirst)
	assert.True(t, engine.Policy().BlockSymlinks)
	assert.NotEmpty(t, engine.Policy().AllowedRoots[model.CategoryChrome])
}
