// Package audit provides the append-only deletion audit log.
package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/lazyscan-project/lazyscan/pkg/errclass"
	"github.com/lazyscan-project/lazyscan/pkg/jsonutil"
	"github.com/lazyscan-project/lazyscan/pkg/model"
)

// Appender appends audit records to a JSONL file. Each record carries the
// hash of the previous one, so truncation or edits anywhere in the file are
// detectable with VerifyChain.
type Appender struct {
	path string
	mu   sync.Mutex
}

// NewAppender creates an Appender for the given log path. The file and its
// parent directory are created on first write.
func NewAppender(path string) *Appender {
	return &Appender{path: path}
}

// Path returns the log file location.
func (a *Appender) Path() string {
	return a.path
}

// Record appends one decision-point record. Callers treat failures as
// best-effort: a logging failure must never block or mask a deletion
// outcome.
func (a *Appender) Record(operationID, path string, decision model.Decision, reason string, details map[string]any) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(a.path), 0755); err != nil {
		return fmt.Errorf("create audit dir: %w", err)
	}

	file, err := os.OpenFile(a.path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer file.Close()

	// Cross-process exclusion; the mutex only covers this process.
	if err := lockFile(file); err != nil {
		return fmt.Errorf("lock audit log: %w", err)
	}
	defer unlockFile(file)

	prevHash, err := lastRecordHash(file)
	if err != nil {
		return fmt.Errorf("read last record hash: %w", err)
	}

	record := &model.AuditRecord{
		Timestamp:   time.Now().UTC(),
		OperationID: operationID,
		Path:        path,
		Decision:    decision,
		Reason:      reason,
		Details:     details,
		PrevHash:    prevHash,
	}

	recordHash, err := computeRecordHash(record)
	if err != nil {
		return fmt.Errorf("compute record hash: %w", err)
	}
	record.RecordHash = recordHash

	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}

	if _, err := file.Seek(0, 2); err != nil {
		return fmt.Errorf("seek to end: %w", err)
	}
	if _, err := file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write audit record: %w", err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("sync audit log: %w", err)
	}

	return nil
}

// ReadAll returns every well-formed record in the log, oldest first. A
// missing log file yields an empty slice.
func (a *Appender) ReadAll() ([]model.AuditRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	file, err := os.Open(a.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	defer file.Close()

	var records []model.AuditRecord
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var record model.AuditRecord
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			continue // skip malformed lines
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan audit log: %w", err)
	}
	return records, nil
}

// VerifyChain recomputes the hash chain from the start of the log. It
// returns the number of verified records, or ErrAuditChainBroken at the
// first record whose link or hash does not match.
func (a *Appender) VerifyChain() (int, error) {
	records, err := a.ReadAll()
	if err != nil {
		return 0, err
	}

	var prev model.HashValue
	for i := range records {
		rec := records[i]
		if rec.PrevHash != prev {
			return i, errclass.ErrAuditChainBroken.WithMessagef(
				"record %d: prev_hash mismatch (chain truncated or reordered)", i)
		}
		want, err := computeRecordHash(&rec)
		if err != nil {
			return i, fmt.Errorf("recompute record %d hash: %w", i, err)
		}
		if rec.RecordHash != want {
			return i, errclass.ErrAuditChainBroken.WithMessagef(
				"record %d: record_hash mismatch (record modified)", i)
		}
		prev = rec.RecordHash
	}
	return len(records), nil
}

func lastRecordHash(file *os.File) (model.HashValue, error) {
	if _, err := file.Seek(0, 0); err != nil {
		return "", fmt.Errorf("seek to start: %w", err)
	}

	var last model.HashValue
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var record model.AuditRecord
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			continue
		}
		last = record.RecordHash
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("scan audit log: %w", err)
	}
	return last, nil
}

func computeRecordHash(record *model.AuditRecord) (model.HashValue, error) {
	// Hash a copy with RecordHash zeroed; the hash cannot cover itself.
	hashRecord := &model.AuditRecord{
		Timestamp:   record.Timestamp,
		OperationID: record.OperationID,
		Path:        record.Path,
		Decision:    record.Decision,
		Reason:      record.Reason,
		Details:     record.Details,
		PrevHash:    record.PrevHash,
	}

	sum, err := jsonutil.CanonicalHash(hashRecord)
	if err != nil {
		return "", fmt.Errorf("canonical hash: %w", err)
	}
	return model.HashValue(sum), nil
}
