// Package policy loads the declarative security policy and decides whether
// a single deletion is permitted.
//
// Loading is fail-closed: a missing, malformed, or incomplete policy file is
// an error and the process must refuse all deletions. There is no reload; a
// fresh load per invocation prevents stale-policy exploitation.
package policy

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/lazyscan-project/lazyscan/internal/guard"
	"github.com/lazyscan-project/lazyscan/pkg/errclass"
	"github.com/lazyscan-project/lazyscan/pkg/jsonutil"
	"github.com/lazyscan-project/lazyscan/pkg/model"
	"github.com/lazyscan-project/lazyscan/pkg/pathutil"
)

// Engine combines the loaded policy with the critical-path guard into a
// single "is this deletion permitted" decision.
type Engine struct {
	policy *model.Policy
	guard  *guard.Guard
	hash   string
}

// Load reads and validates the policy file, then builds the engine with a
// guard for the current user's home directory.
func Load(path string) (*Engine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errclass.ErrSecurityPolicy.WithMessagef(
			"read policy %s: %v (fail-closed: no deletions permitted)", path, err)
	}

	var p model.Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, errclass.ErrSecurityPolicy.WithMessagef(
			"parse policy %s: %v (fail-closed: no deletions permitted)", path, err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, errclass.ErrSecurityPolicy.WithMessagef("resolve home dir: %v", err)
	}

	return NewEngine(&p, guard.New(home, p.DenyList))
}

// NewEngine validates p and pairs it with g. Exposed separately from Load so
// callers can inject a guard with a different notion of "home".
func NewEngine(p *model.Policy, g *guard.Guard) (*Engine, error) {
	if err := validate(p); err != nil {
		return nil, err
	}
	if err := expandRoots(p); err != nil {
		return nil, err
	}

	// The policy hash identifies which policy approved an operation in the
	// audit trail.
	sum, err := jsonutil.CanonicalHash(p)
	if err != nil {
		return nil, errclass.ErrSecurityPolicy.WithMessagef("hash policy: %v", err)
	}

	return &Engine{policy: p, guard: g, hash: sum[:12]}, nil
}

// Approve decides whether candidate's canonical path may be deleted.
// A nil return means permitted; otherwise the error carries the class and
// reason recorded in the audit trail.
func (e *Engine) Approve(candidate model.CandidatePath, canonical string) error {
	if crit, match := e.guard.IsCritical(canonical); crit {
		return errclass.ErrDeletionSafety.WithMessagef(
			"critical path: %s is protected by deny entry %s", canonical, match)
	}

	roots := e.policy.AllowedRoots[candidate.Category]
	if len(roots) == 0 {
		// Unconfigured categories fall back to the generic allow-list.
		roots = e.policy.AllowedRoots[model.CategoryOther]
	}
	for _, root := range roots {
		if pathutil.IsAncestor(root, canonical) {
			return nil
		}
	}

	return errclass.ErrSecurityPolicy.WithMessagef(
		"path %s is not under any allowed root for category %q", canonical, candidate.Category)
}

// Policy returns the loaded policy. Read-only by convention.
func (e *Engine) Policy() *model.Policy {
	return e.policy
}

// Guard returns the critical-path guard.
func (e *Engine) Guard() *guard.Guard {
	return e.guard
}

// Hash returns the short policy hash for audit context.
func (e *Engine) Hash() string {
	return e.hash
}

func validate(p *model.Policy) error {
	if len(p.AllowedRoots) == 0 {
		return errclass.ErrSecurityPolicy.WithMessage(
			"policy missing required allowed_roots (fail-closed: no deletions permitted)")
	}
	for cat := range p.AllowedRoots {
		if !cat.Valid() {
			return errclass.ErrSecurityPolicy.WithMessagef("unknown category in allowed_roots: %q", cat)
		}
	}
	if !p.BlockSymlinks {
		return errclass.ErrSecurityPolicy.WithMessage(
			"policy disables symlink protection; refusing to load")
	}
	if p.BackupRetentionDays < 0 {
		return errclass.ErrSecurityPolicy.WithMessage("backup_retention_days must be non-negative")
	}
	return nil
}

// expandRoots normalizes every allow-list root to an absolute, cleaned path.
func expandRoots(p *model.Policy) error {
	for cat, roots := range p.AllowedRoots {
		for i, root := range roots {
			expanded, err := pathutil.ExpandHome(root)
			if err != nil {
				return errclass.ErrSecurityPolicy.WithMessagef("expand root %q: %v", root, err)
			}
			expanded = filepath.Clean(expanded)
			if !filepath.IsAbs(expanded) {
				return errclass.ErrSecurityPolicy.WithMessagef(
					"allowed root must be absolute: %q (category %s)", root, cat)
			}
			roots[i] = expanded
		}
	}
	return nil
}

// Default returns the policy written by `lazyscan policy init`: per-category
// cache roots under the user's home, trash-first, symlink blocking, and
// backups on.
func Default() *model.Policy {
	return &model.Policy{
		Version: 1,
		AllowedRoots: map[model.Category][]string{
			model.CategoryUnity: {
				"~/Library/Application Support/Unity",
				"~/Library/Caches/Unity",
				"~/.cache/unity3d",
			},
			model.CategoryUnreal: {
				"~/Documents/Unreal Projects",
				"~/Library/Application Support/Epic",
				"~/Library/Caches/UnrealEngine",
				"~/.config/Epic",
			},
			model.CategoryChrome: {
				"~/Library/Caches/Google/Chrome",
				"~/Library/Application Support/Google/Chrome",
				"~/.cache/google-chrome",
				"~/.config/google-chrome",
			},
			model.CategorySystem: {
				"~/Library/Caches",
				"~/Library/Logs",
				"~/.cache",
				"/tmp",
				"/private/tmp",
			},
			model.CategoryOther: {
				"~/Library/Caches",
				"~/.cache",
				"/tmp",
			},
		},
		DenyList:            nil,
		RequireTrashFirst:   true,
		BlockSymlinks:       true,
		BackupBeforeDelete:  true,
		BackupRetentionDays: 30,
	}
}

// SaveDefault writes the default policy to path, refusing to clobber an
// existing file.
func SaveDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("policy file already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create policy dir: %w", err)
	}
	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("marshal policy: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write policy: %w", err)
	}
	return nil
}
