// Package guard blocks deletion of system-critical paths and symlinks.
package guard

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/lazyscan-project/lazyscan/pkg/pathutil"
)

// Guard checks canonical paths against a deny list of system-critical
// directories. A path is critical when it equals a deny-listed path or when
// deleting it would remove one (the path is an ancestor of a deny entry).
// Children of a protected directory are not critical by themselves; the
// policy allow-list decides those.
type Guard struct {
	denied []string
}

// New builds a Guard from the built-in deny list for the current platform,
// the given home directory (the home itself is protected, not its children),
// and any extra deny-listed paths from the policy.
func New(home string, extra []string) *Guard {
	paths := systemDenyList()
	if home != "" {
		paths = append(paths, filepath.Clean(home))
	}
	for _, p := range extra {
		expanded, err := pathutil.ExpandHome(p)
		if err != nil {
			// An unexpandable deny entry still protects its literal form.
			expanded = p
		}
		paths = append(paths, filepath.Clean(expanded))
	}
	return &Guard{denied: paths}
}

func systemDenyList() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{
			"/", "/System", "/usr", "/bin", "/sbin", "/etc", "/var", "/boot",
			"/private/etc", "/Applications", "/Library", "/Users", "/Volumes",
		}
	case "windows":
		drive := os.Getenv("SystemDrive")
		if drive == "" {
			drive = "C:"
		}
		return []string{
			drive + `\`,
			drive + `\Windows`,
			drive + `\Program Files`,
			drive + `\Program Files (x86)`,
			drive + `\Users`,
			drive + `\ProgramData`,
		}
	default:
		return []string{
			"/", "/usr", "/bin", "/sbin", "/etc", "/var", "/boot",
			"/home", "/root", "/opt", "/lib", "/lib64",
		}
	}
}

// IsCritical reports whether canonical is a protected path, and which deny
// entry matched. Comparison is segment-wise on canonical paths, never raw
// string prefixes.
func (g *Guard) IsCritical(canonical string) (bool, string) {
	for _, deny := range g.denied {
		if pathutil.IsAncestor(canonical, deny) {
			return true, deny
		}
	}
	return false, ""
}

// Denied returns the effective deny list, for diagnostics.
func (g *Guard) Denied() []string {
	out := make([]string, len(g.denied))
	copy(out, g.denied)
	return out
}

// IsSymlink reports whether path itself is a symbolic link. Symlinks are
// rejected outright: a link target can change between check and delete, so
// resolving and validating the target would still leave a TOCTOU window.
// A missing path is not a symlink.
func IsSymlink(path string) (bool, error) {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode()&os.ModeSymlink != 0, nil
}
