// Package errclass defines stable, machine-readable error classes for lazyscan.
package errclass

import "fmt"

// LazyScanError is a stable, machine-readable error class.
type LazyScanError struct {
	Code    string
	Message string
}

func (e *LazyScanError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LazyScanError) Is(target error) bool {
	t, ok := target.(*LazyScanError)
	return ok && e.Code == t.Code
}

// WithMessage returns a new LazyScanError with the same Code but a specific message.
func (e *LazyScanError) WithMessage(msg string) *LazyScanError {
	return &LazyScanError{Code: e.Code, Message: msg}
}

// WithMessagef returns a new LazyScanError with a formatted message.
func (e *LazyScanError) WithMessagef(format string, args ...any) *LazyScanError {
	return &LazyScanError{Code: e.Code, Message: fmt.Sprintf(format, args...)}
}

// All stable error classes.
var (
	// ErrPathValidation: the path could not be canonicalized or is malformed.
	// Recoverable per candidate: skip it, continue with the rest of the batch.
	ErrPathValidation = &LazyScanError{Code: "E_PATH_VALIDATION"}

	// ErrDeletionSafety: kill switch engaged, symlink target, or critical
	// system path. Never retried, always surfaced to the user.
	ErrDeletionSafety = &LazyScanError{Code: "E_DELETION_SAFETY"}

	// ErrSecurityPolicy: the policy failed to load or refused the operation.
	// Load failures are fatal to the whole invocation (fail-closed).
	ErrSecurityPolicy = &LazyScanError{Code: "E_SECURITY_POLICY"}

	// ErrBackup: pre-deletion backup failed; the deletion is aborted rather
	// than masked as success.
	ErrBackup = &LazyScanError{Code: "E_BACKUP"}

	// ErrPlatform: a platform filesystem primitive (trash, remove) is
	// unavailable or failed.
	ErrPlatform = &LazyScanError{Code: "E_PLATFORM"}

	// ErrRecovery: restore failed (backup missing or integrity mismatch).
	ErrRecovery = &LazyScanError{Code: "E_RECOVERY"}

	// ErrRecoveryConflict: the original path now holds different content;
	// restore refuses without an explicit overwrite.
	ErrRecoveryConflict = &LazyScanError{Code: "E_RECOVERY_CONFLICT"}

	// ErrAuditChainBroken: the audit log hash chain does not verify.
	ErrAuditChainBroken = &LazyScanError{Code: "E_AUDIT_CHAIN_BROKEN"}

	// ErrUserCancelled: the user declined an interactive confirmation.
	ErrUserCancelled = &LazyScanError{Code: "E_USER_CANCELLED"}

	// ErrConfigInvalid: the application config file is malformed.
	ErrConfigInvalid = &LazyScanError{Code: "E_CONFIG_INVALID"}
)
