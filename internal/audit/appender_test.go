package audit_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazyscan-project/lazyscan/internal/audit"
	"github.com/lazyscan-project/lazyscan/pkg/errclass"
	"github.com/lazyscan-project/lazyscan/pkg/model"
)

func newAppender(t *testing.T) *audit.Appender {
	t.Helper()
	return audit.NewAppender(filepath.Join(t.TempDir(), "audit", "audit.jsonl"))
}

func TestRecordAndReadAll(t *testing.T) {
	a := newAppender(t)

	require.NoError(t, a.Record("op-1", "/tmp/a", model.DecisionAllowed, "all gates passed", map[string]any{"mode": "trash"}))
	require.NoError(t, a.Record("op-1", "/tmp/a", model.DecisionExecuted, "deleted", nil))
	require.NoError(t, a.Record("op-2", "/tmp/b", model.DecisionBlocked, "critical path", nil))

	records, err := a.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "op-1", records[0].OperationID)
	assert.Equal(t, model.DecisionAllowed, records[0].Decision)
	assert.Empty(t, records[0].PrevHash)
	assert.NotEmpty(t, records[0].RecordHash)

	// Each record links to its predecessor.
	assert.Equal(t, records[0].RecordHash, records[1].PrevHash)
	assert.Equal(t, records[1].RecordHash, records[2].PrevHash)
}

func TestReadAllMissingLog(t *testing.T) {
	records, err := newAppender(t).ReadAll()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestVerifyChainIntact(t *testing.T) {
	a := newAppender(t)
	for i := 0; i < 5; i++ {
		require.NoError(t, a.Record("op", "/tmp/x", model.DecisionAllowed, "ok", nil))
	}

	verified, err := a.VerifyChain()
	require.NoError(t, err)
	assert.Equal(t, 5, verified)
}

func TestVerifyChainDetectsModifiedRecord(t *testing.T) {
	a := newAppender(t)
	require.NoError(t, a.Record("op-1", "/tmp/a", model.DecisionAllowed, "ok", nil))
	require.NoError(t, a.Record("op-2", "/tmp/b", model.DecisionExecuted, "deleted", nil))

	// Edit a field in the first record without touching its hash.
	data, err := os.ReadFile(a.Path())
	require.NoError(t, err)
	tampered := strings.Replace(string(data), `"/tmp/a"`, `"/tmp/EVIL"`, 1)
	require.NoError(t, os.WriteFile(a.Path(), []byte(tampered), 0644))

	verified, err := a.VerifyChain()
	require.Error(t, err)
	assert.ErrorIs(t, err, errclass.ErrAuditChainBroken)
	assert.Equal(t, 0, verified)
}

func TestVerifyChainDetectsDeletedRecord(t *testing.T) {
	a := newAppender(t)
	require.NoError(t, a.Record("op-1", "/tmp/a", model.DecisionAllowed, "ok", nil))
	require.NoError(t, a.Record("op-2", "/tmp/b", model.DecisionExecuted, "deleted", nil))

	// Drop the first line; the survivor's prev_hash now points at nothing.
	data, err := os.ReadFile(a.Path())
	require.NoError(t, err)
	lines := strings.SplitN(string(data), "\n", 2)
	require.Len(t, lines, 2)
	require.NoError(t, os.WriteFile(a.Path(), []byte(lines[1]), 0644))

	_, err = a.VerifyChain()
	assert.ErrorIs(t, err, errclass.ErrAuditChainBroken)
}
