package model

import "time"

// BackupEntry records one pre-deletion backup held by the recovery store.
type BackupEntry struct {
	OperationID    string    `json:"operation_id"`
	OriginalPath   string    `json:"original_path"`
	BackupLocation string    `json:"backup_location"`
	CreatedAt      time.Time `json:"created_at"`
	Size           int64     `json:"size"`
	Checksum       HashValue `json:"checksum"`
	IsDir          bool      `json:"is_dir"`
}

// RecoveryResult reports a completed restore.
type RecoveryResult struct {
	OperationID   string `json:"operation_id"`
	RestoredPath  string `json:"restored_path"`
	BytesRestored int64  `json:"bytes_restored"`
	// AlreadyPresent is set when the original path already held content
	// identical to the backup, so nothing was copied.
	AlreadyPresent bool `json:"already_present,omitempty"`
}
