// Package recovery indexes pre-deletion backups and restores them on demand.
//
// The store keeps one JSON entry per operation id under <root>/entries and
// the copied payload under <root>/data/<operation-id>/. Entries are written
// atomically; a crash mid-copy leaves a payload that fails its integrity
// check rather than an entry pointing at good-looking garbage.
package recovery

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/lazyscan-project/lazyscan/internal/integrity"
	"github.com/lazyscan-project/lazyscan/pkg/errclass"
	"github.com/lazyscan-project/lazyscan/pkg/fsutil"
	"github.com/lazyscan-project/lazyscan/pkg/model"
)

// Manager owns the backup store.
type Manager struct {
	root      string
	retention time.Duration
	now       func() time.Time
}

// NewManager creates a manager rooted at dir. Backups older than
// retentionDays are purged lazily on the next listing call; retentionDays
// <= 0 means backups are kept until explicitly purged.
func NewManager(dir string, retentionDays int) *Manager {
	var retention time.Duration
	if retentionDays > 0 {
		retention = time.Duration(retentionDays) * 24 * time.Hour
	}
	return &Manager{root: dir, retention: retention, now: time.Now}
}

func (m *Manager) entryPath(operationID string) string {
	return filepath.Join(m.root, "entries", operationID+".json")
}

func (m *Manager) dataDir(operationID string) string {
	return filepath.Join(m.root, "data", operationID)
}

// Create copies path into the backup store before deletion. The payload is
// copied first and the entry written only after the checksum is recorded, so
// an entry always describes a complete backup. Any failure here aborts the
// deletion (fail-safe, not fail-permissive).
func (m *Manager) Create(operationID, path string) (*model.BackupEntry, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return nil, errclass.ErrBackup.WithMessagef("stat %s: %v", path, err)
	}

	dest := filepath.Join(m.dataDir(operationID), filepath.Base(path))
	if err := os.MkdirAll(filepath.Dir(dest), 0700); err != nil {
		return nil, errclass.ErrBackup.WithMessagef("create backup dir: %v", err)
	}

	if info.IsDir() {
		err = fsutil.CopyTree(path, dest)
	} else {
		err = fsutil.CopyFile(path, dest)
	}
	if err != nil {
		os.RemoveAll(m.dataDir(operationID))
		return nil, errclass.ErrBackup.WithMessagef("copy %s: %v", path, err)
	}

	checksum, err := integrity.ComputeChecksum(dest)
	if err != nil {
		os.RemoveAll(m.dataDir(operationID))
		return nil, errclass.ErrBackup.WithMessagef("checksum backup: %v", err)
	}
	size, err := fsutil.DirSize(dest)
	if err != nil {
		os.RemoveAll(m.dataDir(operationID))
		return nil, errclass.ErrBackup.WithMessagef("size backup: %v", err)
	}

	entry := &model.BackupEntry{
		OperationID:    operationID,
		OriginalPath:   path,
		BackupLocation: dest,
		CreatedAt:      m.now().UTC(),
		Size:           size,
		Checksum:       checksum,
		IsDir:          info.IsDir(),
	}

	if err := m.writeEntry(entry); err != nil {
		os.RemoveAll(m.dataDir(operationID))
		return nil, err
	}
	return entry, nil
}

// Get loads the backup entry for an operation id.
func (m *Manager) Get(operationID string) (*model.BackupEntry, error) {
	data, err := os.ReadFile(m.entryPath(operationID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errclass.ErrRecovery.WithMessagef("no backup recorded for operation %s", operationID)
		}
		return nil, errclass.ErrRecovery.WithMessagef("read backup entry: %v", err)
	}
	var entry model.BackupEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, errclass.ErrRecovery.WithMessagef("parse backup entry: %v", err)
	}
	return &entry, nil
}

// Restore copies the backup for operationID back to its original path.
// The backup is verified against its recorded size and checksum first: a
// partially written backup from a crashed run must never be restored. If
// the original path already exists with different content, restore refuses
// unless overwrite is set.
func (m *Manager) Restore(operationID string, overwrite bool) (*model.RecoveryResult, error) {
	entry, err := m.Get(operationID)
	if err != nil {
		return nil, err
	}

	if _, err := os.Lstat(entry.BackupLocation); err != nil {
		return nil, errclass.ErrRecovery.WithMessagef("backup payload missing: %s", entry.BackupLocation)
	}
	if err := m.verify(entry); err != nil {
		return nil, err
	}

	if _, err := os.Lstat(entry.OriginalPath); err == nil {
		current, err := integrity.ComputeChecksum(entry.OriginalPath)
		if err == nil && current == entry.Checksum {
			// Content already matches the backup; nothing to copy.
			return &model.RecoveryResult{
				OperationID:    operationID,
				RestoredPath:   entry.OriginalPath,
				BytesRestored:  0,
				AlreadyPresent: true,
			}, nil
		}
		if !overwrite {
			return nil, errclass.ErrRecoveryConflict.WithMessagef(
				"%s exists with different content; pass overwrite to replace it", entry.OriginalPath)
		}
		if err := os.RemoveAll(entry.OriginalPath); err != nil {
			return nil, errclass.ErrRecovery.WithMessagef("clear conflicting path: %v", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(entry.OriginalPath), 0755); err != nil {
		return nil, errclass.ErrRecovery.WithMessagef("create parent dir: %v", err)
	}
	if entry.IsDir {
		err = fsutil.CopyTree(entry.BackupLocation, entry.OriginalPath)
	} else {
		err = fsutil.CopyFile(entry.BackupLocation, entry.OriginalPath)
	}
	if err != nil {
		return nil, errclass.ErrRecovery.WithMessagef("copy backup to original path: %v", err)
	}

	return &model.RecoveryResult{
		OperationID:   operationID,
		RestoredPath:  entry.OriginalPath,
		BytesRestored: entry.Size,
	}, nil
}

// ListRecoverable returns entries created within the last withinDays days,
// newest first. Entries past the retention window are purged as a side
// effect; there is no background scheduler.
func (m *Manager) ListRecoverable(withinDays int) ([]model.BackupEntry, error) {
	entriesDir := filepath.Join(m.root, "entries")
	dirents, err := os.ReadDir(entriesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errclass.ErrRecovery.WithMessagef("read backup index: %v", err)
	}

	now := m.now().UTC()
	cutoff := now.Add(-time.Duration(withinDays) * 24 * time.Hour)

	var out []model.BackupEntry
	for _, de := range dirents {
		if de.IsDir() || filepath.Ext(de.Name()) != ".json" {
			continue
		}
		id := de.Name()[:len(de.Name())-len(".json")]
		entry, err := m.Get(id)
		if err != nil {
			continue // unreadable entries are skipped, not fatal
		}

		if m.retention > 0 && now.Sub(entry.CreatedAt) > m.retention {
			m.Purge(id)
			continue
		}
		if withinDays > 0 && entry.CreatedAt.Before(cutoff) {
			continue
		}
		out = append(out, *entry)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Purge removes the payload and entry for an operation id.
func (m *Manager) Purge(operationID string) error {
	if err := os.RemoveAll(m.dataDir(operationID)); err != nil {
		return errclass.ErrRecovery.WithMessagef("remove backup payload: %v", err)
	}
	if err := os.Remove(m.entryPath(operationID)); err != nil && !os.IsNotExist(err) {
		return errclass.ErrRecovery.WithMessagef("remove backup entry: %v", err)
	}
	return nil
}

func (m *Manager) verify(entry *model.BackupEntry) error {
	size, err := fsutil.DirSize(entry.BackupLocation)
	if err != nil {
		return errclass.ErrRecovery.WithMessagef("size backup: %v", err)
	}
	if size != entry.Size {
		return errclass.ErrRecovery.WithMessagef(
			"backup integrity check failed: size %d, recorded %d", size, entry.Size)
	}
	checksum, err := integrity.ComputeChecksum(entry.BackupLocation)
	if err != nil {
		return errclass.ErrRecovery.WithMessagef("checksum backup: %v", err)
	}
	if checksum != entry.Checksum {
		return errclass.ErrRecovery.WithMessage("backup integrity check failed: checksum mismatch")
	}
	return nil
}

func (m *Manager) writeEntry(entry *model.BackupEntry) error {
	path := m.entryPath(entry.OperationID)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errclass.ErrBackup.WithMessagef("create entries dir: %v", err)
	}
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return errclass.ErrBackup.WithMessagef("marshal backup entry: %v", err)
	}
	if err := fsutil.AtomicWrite(path, data, 0644); err != nil {
		return errclass.ErrBackup.WithMessagef("write backup entry: %v", err)
	}
	return nil
}
