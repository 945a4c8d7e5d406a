package model

import "github.com/google/uuid"

// DeletionMode selects trash-first or permanent removal.
type DeletionMode string

const (
	ModeTrash     DeletionMode = "trash"
	ModePermanent DeletionMode = "permanent"
)

// Decision classifies the outcome of one deletion gate as recorded in the
// audit log.
type Decision string

const (
	DecisionAllowed  Decision = "allowed"
	DecisionBlocked  Decision = "blocked"
	DecisionExecuted Decision = "executed"
	DecisionFailed   Decision = "failed"
)

// DeletionRequest is one deletion to be processed. Created per user
// confirmation and consumed exactly once.
//
// DryRun defaults to true at the CLI layer; callers must opt out explicitly.
type DeletionRequest struct {
	Target CandidatePath `json:"target"`
	Mode   DeletionMode  `json:"mode"`
	DryRun bool          `json:"dry_run"`
	Force  bool          `json:"force"`
}

// NewOperationID generates the unique id tying together a deletion result,
// its audit records, and its backup entry.
func NewOperationID() string {
	return uuid.NewString()
}

// DeletionResult is the outcome of one request. Expected outcomes (blocked,
// already absent) are values here, not errors; ErrorClass carries the
// errclass code when the request was blocked or failed.
type DeletionResult struct {
	OperationID string       `json:"operation_id"`
	Path        string       `json:"path"`
	Mode        DeletionMode `json:"mode"`
	DryRun      bool         `json:"dry_run"`
	Decision    Decision     `json:"decision"`
	Success     bool         `json:"success"`
	Reason      string       `json:"reason,omitempty"`
	ErrorClass  string       `json:"error_class,omitempty"`
	BackupPath  string       `json:"backup_path,omitempty"`
	BytesFreed  int64        `json:"bytes_freed"`
}
