package errclass_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lazyscan-project/lazyscan/pkg/errclass"
)

func TestIsMatchesByCode(t *testing.T) {
	err := errclass.ErrDeletionSafety.WithMessage("critical path: /usr")

	assert.ErrorIs(t, err, errclass.ErrDeletionSafety)
	assert.NotErrorIs(t, err, errclass.ErrSecurityPolicy)
}

func TestIsMatchesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("delete failed: %w", errclass.ErrBackup.WithMessagef("copy %s: no space", "/tmp/x"))
	assert.ErrorIs(t, err, errclass.ErrBackup)

	var lse *errclass.LazyScanError
	assert.True(t, errors.As(err, &lse))
	assert.Equal(t, "E_BACKUP", lse.Code)
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "E_PLATFORM", errclass.ErrPlatform.Error())
	assert.Equal(t, "E_PLATFORM: trash unavailable",
		errclass.ErrPlatform.WithMessage("trash unavailable").Error())
}
