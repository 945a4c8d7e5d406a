// Package deleter orchestrates guarded deletion requests.
//
// Each request walks a fixed gate sequence: kill switch, symlink check,
// canonicalization, critical-path guard plus policy approval, optional
// backup, then trash or permanent removal, with an audit record at every
// decision point. Expected outcomes (blocked, already absent) come back as
// result values rather than errors.
package deleter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lazyscan-project/lazyscan/internal/audit"
	"github.com/lazyscan-project/lazyscan/internal/guard"
	"github.com/lazyscan-project/lazyscan/internal/policy"
	"github.com/lazyscan-project/lazyscan/internal/recovery"
	"github.com/lazyscan-project/lazyscan/internal/trash"
	"github.com/lazyscan-project/lazyscan/pkg/errclass"
	"github.com/lazyscan-project/lazyscan/pkg/fsutil"
	"github.com/lazyscan-project/lazyscan/pkg/logging"
	"github.com/lazyscan-project/lazyscan/pkg/model"
	"github.com/lazyscan-project/lazyscan/pkg/pathutil"
)

// KillSwitchEnv disables all destructive operations when set to "1",
// regardless of policy approval. Dry runs are unaffected.
const KillSwitchEnv = "LAZYSCAN_DISABLE_DELETIONS"

// ConfirmPhrase must be typed exactly to confirm an interactive permanent
// deletion. Any other input cancels.
const ConfirmPhrase = "DELETE"

// Options configures the interactive surface of a Deleter.
type Options struct {
	// Interactive marks stdin as a terminal; permanent deletions may prompt.
	Interactive bool
	// ConfirmInput is where the confirmation phrase is read from.
	ConfirmInput io.Reader
	// ConfirmOutput is where the confirmation prompt is written.
	ConfirmOutput io.Writer
}

// Deleter runs deletion requests through the safety gates. All collaborators
// are injected at construction; the only ambient state is the kill-switch
// environment probe.
type Deleter struct {
	engine  *policy.Engine
	auditor *audit.Appender
	backups *recovery.Manager
	trash   trash.Backend
	log     *logging.Logger
	opts    Options
}

// New creates a Deleter. The trash backend may be nil when the policy
// permits permanent-only operation; requesting trash mode then fails with a
// platform error instead of silently deleting.
func New(engine *policy.Engine, auditor *audit.Appender, backups *recovery.Manager, backend trash.Backend, log *logging.Logger, opts Options) *Deleter {
	if log == nil {
		log = logging.Discard()
	}
	if opts.ConfirmInput == nil {
		opts.ConfirmInput = os.Stdin
	}
	if opts.ConfirmOutput == nil {
		opts.ConfirmOutput = os.Stderr
	}
	return &Deleter{
		engine:  engine,
		auditor: auditor,
		backups: backups,
		trash:   backend,
		log:     log,
		opts:    opts,
	}
}

// KillSwitchEngaged reports whether the global disable flag is set.
func KillSwitchEngaged() bool {
	return os.Getenv(KillSwitchEnv) == "1"
}

// Delete processes a single request to completion. It never retries:
// filesystem mutation is not blindly idempotent, though a target that is
// already gone counts as success.
func (d *Deleter) Delete(req model.DeletionRequest) model.DeletionResult {
	res := model.DeletionResult{
		OperationID: model.NewOperationID(),
		Path:        req.Target.Path,
		Mode:        req.Mode,
		DryRun:      req.DryRun,
	}

	// Gate 1: global kill switch.
	if !req.DryRun && KillSwitchEngaged() {
		return d.blocked(&res, errclass.ErrDeletionSafety.WithMessagef(
			"kill switch engaged (%s=1): all destructive operations are disabled", KillSwitchEnv))
	}

	// Gate 2: symlinks are checked on the raw path, before canonicalization
	// resolves them away. The link itself is what must be rejected.
	expanded, err := pathutil.ExpandHome(req.Target.Path)
	if err != nil {
		return d.failed(&res, err)
	}
	if link, err := guard.IsSymlink(expanded); err != nil {
		return d.failed(&res, errclass.ErrPathValidation.WithMessagef("inspect %s: %v", expanded, err))
	} else if link {
		return d.blocked(&res, errclass.ErrDeletionSafety.WithMessagef(
			"symlink: refusing to delete %s regardless of target", req.Target.Path))
	}

	// Gate 3: canonicalize.
	canonical, err := pathutil.Canonicalize(req.Target.Path)
	if err != nil {
		return d.failed(&res, err)
	}
	res.Path = canonical

	// Gates 4-5: critical-path guard and policy approval.
	if err := d.engine.Approve(req.Target, canonical); err != nil {
		return d.blocked(&res, err)
	}

	d.record(res.OperationID, canonical, model.DecisionAllowed, "all gates passed", map[string]any{
		"category":    string(req.Target.Category),
		"mode":        string(req.Mode),
		"dry_run":     req.DryRun,
		"policy_hash": d.engine.Hash(),
	})

	// Dry run is the default mode and stops before any mutation.
	if req.DryRun {
		res.Decision = model.DecisionAllowed
		res.Success = true
		res.Reason = "dry run: no filesystem mutation"
		res.BytesFreed = 0
		return res
	}

	// A second attempt on an already-removed path is success, not failure.
	if _, err := os.Lstat(canonical); os.IsNotExist(err) {
		res.Decision = model.DecisionExecuted
		res.Success = true
		res.Reason = "path already absent"
		d.record(res.OperationID, canonical, model.DecisionExecuted, res.Reason, nil)
		return res
	}

	if req.Mode == model.ModePermanent {
		if blockedRes, ok := d.gatePermanent(&res, req, canonical); !ok {
			return blockedRes
		}
	}

	size, err := fsutil.DirSize(canonical)
	if err != nil {
		d.log.Warn("size computation failed", map[string]any{"path": canonical, "error": err.Error()})
		size = req.Target.EstimatedSize
	}

	// Backup before mutation when the policy requires it. Backup failure
	// aborts the deletion; it is never downgraded to a warning.
	if d.engine.Policy().BackupBeforeDelete {
		if d.backups == nil {
			return d.failed(&res, errclass.ErrBackup.WithMessage(
				"policy requires backups but no backup store is configured"))
		}
		entry, err := d.backups.Create(res.OperationID, canonical)
		if err != nil {
			return d.failed(&res, err)
		}
		res.BackupPath = entry.BackupLocation
		d.log.Debug("backup created", map[string]any{
			"operation_id": res.OperationID,
			"backup":       entry.BackupLocation,
		})
	}

	details := map[string]any{
		"mode":        string(req.Mode),
		"bytes_freed": size,
	}
	if res.BackupPath != "" {
		details["backup_path"] = res.BackupPath
	}

	switch req.Mode {
	case model.ModeTrash:
		if d.trash == nil {
			return d.failed(&res, errclass.ErrPlatform.WithMessage(
				"trash backend unavailable; refusing to fall back to permanent deletion"))
		}
		trashed, err := d.trash.Trash(canonical)
		if err != nil {
			// Never silently escalate to permanent removal.
			return d.failed(&res, err)
		}
		details["trashed_to"] = trashed
		details["backend"] = d.trash.Name()

	case model.ModePermanent:
		if err := os.RemoveAll(canonical); err != nil {
			return d.failed(&res, errclass.ErrPlatform.WithMessagef("remove %s: %v", canonical, err))
		}

	default:
		return d.failed(&res, errclass.ErrPathValidation.WithMessagef("unknown deletion mode %q", req.Mode))
	}

	res.Decision = model.DecisionExecuted
	res.Success = true
	res.BytesFreed = size
	d.record(res.OperationID, canonical, model.DecisionExecuted, "deleted", details)
	d.log.Info("deletion executed", map[string]any{
		"operation_id": res.OperationID,
		"path":         canonical,
		"mode":         string(req.Mode),
		"bytes_freed":  size,
	})
	return res
}

// DeleteAll processes a batch sequentially. Per-candidate failures are
// recovered: one bad path does not stop the rest.
func (d *Deleter) DeleteAll(reqs []model.DeletionRequest) []model.DeletionResult {
	results := make([]model.DeletionResult, 0, len(reqs))
	for _, req := range reqs {
		results = append(results, d.Delete(req))
	}
	return results
}

// gatePermanent enforces the explicit-confirmation rules for permanent
// deletion. Returns ok=false with the blocked result when the request may
// not proceed.
func (d *Deleter) gatePermanent(res *model.DeletionResult, req model.DeletionRequest, canonical string) (model.DeletionResult, bool) {
	if d.engine.Policy().RequireTrashFirst && !req.Force {
		return d.blocked(res, errclass.ErrSecurityPolicy.WithMessage(
			"policy requires trash-first deletion; pass force to delete permanently")), false
	}
	if req.Force {
		return model.DeletionResult{}, true
	}
	if !d.opts.Interactive {
		// Non-interactive callers must pass force explicitly; prompting
		// would hang a pipeline.
		return d.blocked(res, errclass.ErrDeletionSafety.WithMessage(
			"permanent deletion requires force when not attached to a terminal")), false
	}
	if !d.confirm(canonical) {
		return d.blocked(res, errclass.ErrUserCancelled.WithMessage(
			"user declined permanent-deletion confirmation")), false
	}
	return model.DeletionResult{}, true
}

func (d *Deleter) confirm(path string) bool {
	fmt.Fprintf(d.opts.ConfirmOutput,
		"Permanent deletion CANNOT be undone.\n  %s\nType %q to confirm: ", path, ConfirmPhrase)
	scanner := bufio.NewScanner(d.opts.ConfirmInput)
	if !scanner.Scan() {
		return false
	}
	return strings.TrimSpace(scanner.Text()) == ConfirmPhrase
}

func (d *Deleter) blocked(res *model.DeletionResult, reason error) model.DeletionResult {
	res.Decision = model.DecisionBlocked
	res.Success = false
	res.Reason = reason.Error()
	res.ErrorClass = classCode(reason)
	d.record(res.OperationID, res.Path, model.DecisionBlocked, res.Reason, nil)
	d.log.Warn("deletion blocked", map[string]any{
		"operation_id": res.OperationID,
		"path":         res.Path,
		"reason":       res.Reason,
	})
	return *res
}

func (d *Deleter) failed(res *model.DeletionResult, reason error) model.DeletionResult {
	res.Decision = model.DecisionFailed
	res.Success = false
	res.Reason = reason.Error()
	res.ErrorClass = classCode(reason)
	d.record(res.OperationID, res.Path, model.DecisionFailed, res.Reason, nil)
	d.log.ErrorErr("deletion failed", reason, map[string]any{
		"operation_id": res.OperationID,
		"path":         res.Path,
	})
	return *res
}

// record writes an audit record. An audit failure must never mask the
// deletion outcome, so it degrades to a best-effort note on stderr.
func (d *Deleter) record(operationID, path string, decision model.Decision, reason string, details map[string]any) {
	if d.auditor == nil {
		return
	}
	if err := d.auditor.Record(operationID, path, decision, reason, details); err != nil {
		d.log.ErrorErr("audit record failed", err, map[string]any{"operation_id": operationID})
		fmt.Fprintf(os.Stderr, "lazyscan: audit fallback: op=%s decision=%s path=%s reason=%s\n",
			operationID, decision, path, reason)
	}
}

func classCode(err error) string {
	var lse *errclass.LazyScanError
	if errors.As(err, &lse) {
		return lse.Code
	}
	return ""
}
