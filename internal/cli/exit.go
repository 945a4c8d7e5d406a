package cli

import (
	"errors"

	"github.com/lazyscan-project/lazyscan/pkg/errclass"
)

// Process exit codes. Blocked-by-policy, validation errors, and partial
// failures are distinguishable by code alone.
const (
	ExitSuccess        = 0
	ExitGeneralError   = 1
	ExitPathError      = 3
	ExitSecurityError  = 5
	ExitConfigError    = 6
	ExitUserCancelled  = 7
	ExitPlatformError  = 8
	ExitDeletionError  = 11
	ExitPartialFailure = 12
)

// Batch outcome sentinels surfaced by the clean command.
var (
	errPartialFailure = errors.New("partial failure: some paths were deleted, others were not")
	errAllBlocked     = errors.New("all requested deletions were blocked")
	errAllFailed      = errors.New("all requested deletions failed")
)

func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, errPartialFailure):
		return ExitPartialFailure
	case errors.Is(err, errAllBlocked):
		return ExitSecurityError
	case errors.Is(err, errAllFailed):
		return ExitDeletionError
	case errors.Is(err, errclass.ErrSecurityPolicy), errors.Is(err, errclass.ErrDeletionSafety):
		return ExitSecurityError
	case errors.Is(err, errclass.ErrPathValidation):
		return ExitPathError
	case errors.Is(err, errclass.ErrConfigInvalid):
		return ExitConfigError
	case errors.Is(err, errclass.ErrUserCancelled):
		return ExitUserCancelled
	case errors.Is(err, errclass.ErrPlatform):
		return ExitPlatformError
	case errors.Is(err, errclass.ErrBackup),
		errors.Is(err, errclass.ErrRecovery),
		errors.Is(err, errclass.ErrRecoveryConflict),
		errors.Is(err, errclass.ErrAuditChainBroken):
		return ExitDeletionError
	default:
		return ExitGeneralError
	}
}
