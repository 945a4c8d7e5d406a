package cli

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lazyscan-project/lazyscan/pkg/errclass"
	"github.com/lazyscan-project/lazyscan/pkg/model"
)

func TestExitCodeFor(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"generic", fmt.Errorf("boom"), ExitGeneralError},
		{"path validation", errclass.ErrPathValidation.WithMessage("bad path"), ExitPathError},
		{"security policy", errclass.ErrSecurityPolicy.WithMessage("refused"), ExitSecurityError},
		{"deletion safety", errclass.ErrDeletionSafety.WithMessage("critical"), ExitSecurityError},
		{"config", errclass.ErrConfigInvalid.WithMessage("parse"), ExitConfigError},
		{"cancelled", errclass.ErrUserCancelled.WithMessage("declined"), ExitUserCancelled},
		{"platform", errclass.ErrPlatform.WithMessage("no trash"), ExitPlatformError},
		{"backup", errclass.ErrBackup.WithMessage("copy failed"), ExitDeletionError},
		{"chain broken", errclass.ErrAuditChainBroken.WithMessage("tampered"), ExitDeletionError},
		{"partial", fmt.Errorf("%w (1 ok, 1 failed)", errPartialFailure), ExitPartialFailure},
		{"all blocked", errAllBlocked, ExitSecurityError},
		{"all failed", errAllFailed, ExitDeletionError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, exitCodeFor(tc.err))
		})
	}
}

func TestBatchOutcome(t *testing.T) {
	ok := model.DeletionResult{Success: true, Decision: model.DecisionExecuted}
	blocked := model.DeletionResult{Decision: model.DecisionBlocked}
	failed := model.DeletionResult{Decision: model.DecisionFailed}

	assert.NoError(t, batchOutcome([]model.DeletionResult{ok, ok}))
	assert.ErrorIs(t, batchOutcome([]model.DeletionResult{ok, blocked}), errPartialFailure)
	assert.ErrorIs(t, batchOutcome([]model.DeletionResult{ok, failed}), errPartialFailure)
	assert.ErrorIs(t, batchOutcome([]model.DeletionResult{blocked, blocked}), errAllBlocked)
	assert.ErrorIs(t, batchOutcome([]model.DeletionResult{blocked, failed}), errAllFailed)
	assert.NoError(t, batchOutcome(nil))
}
