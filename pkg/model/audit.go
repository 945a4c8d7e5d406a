package model

import "time"

// HashValue is a SHA-256 hash stored as a hex string.
type HashValue string

// AuditRecord is a single line in the audit log (JSONL format). One record
// is written per decision point, so the log reconstructs "why was X
// deleted/not deleted" after the fact. Records never contain file contents.
type AuditRecord struct {
	Timestamp   time.Time      `json:"timestamp"`
	OperationID string         `json:"operation_id,omitempty"`
	Path        string         `json:"path,omitempty"`
	Decision    Decision       `json:"decision"`
	Reason      string         `json:"reason,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
	PrevHash    HashValue      `json:"prev_hash"`
	RecordHash  HashValue      `json:"record_hash"`
}
