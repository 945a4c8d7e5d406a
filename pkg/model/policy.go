package model

// Policy is the declarative security policy gating every deletion. Loaded
// once at process start and read-only for the process lifetime; a stale
// policy cannot be swapped in mid-run.
type Policy struct {
	Version int `yaml:"version" json:"version"`

	// AllowedRoots maps a category to the path prefixes its caches may live
	// under. A candidate whose canonical path is not under one of its
	// category's roots is blocked.
	AllowedRoots map[Category][]string `yaml:"allowed_roots" json:"allowed_roots"`

	// DenyList extends the built-in critical-path deny list.
	DenyList []string `yaml:"deny_list" json:"deny_list"`

	// RequireTrashFirst blocks permanent deletion unless the caller forces it.
	RequireTrashFirst bool `yaml:"require_trash_first" json:"require_trash_first"`

	// BlockSymlinks must be true; a policy that disables symlink protection
	// fails validation.
	BlockSymlinks bool `yaml:"block_symlinks" json:"block_symlinks"`

	// BackupBeforeDelete creates a recoverable copy before any mutation.
	BackupBeforeDelete bool `yaml:"backup_before_delete" json:"backup_before_delete"`

	// BackupRetentionDays bounds how long backups are kept before lazy purge.
	BackupRetentionDays int `yaml:"backup_retention_days" json:"backup_retention_days"`
}
