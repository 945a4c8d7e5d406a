// Package pathutil provides path canonicalization and segment-wise
// containment checks for lazyscan.
package pathutil

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/lazyscan-project/lazyscan/pkg/errclass"
)

// Windows reserved device names (CON, NUL, COM1, ...). A path component
// matching one of these is refused on Windows.
var windowsReservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// Canonicalize resolves a user- or discovery-supplied path to an absolute,
// symlink-resolved form. The path itself does not have to exist: the closest
// existing ancestor is resolved and the remaining components are appended.
// Pure apart from reading the filesystem; no state, no mutation.
func Canonicalize(path string) (string, error) {
	if path == "" {
		return "", errclass.ErrPathValidation.WithMessage("path must not be empty")
	}

	path = norm.NFC.String(path)

	if strings.TrimSpace(path) != path {
		return "", errclass.ErrPathValidation.WithMessagef("path has leading/trailing whitespace: %q", path)
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return "", errclass.ErrPathValidation.WithMessagef("path contains control characters: %q", path)
		}
	}
	// Mixed separators are a common injection vector; refuse them outright.
	if strings.Contains(path, "\\") && strings.Contains(path, "/") {
		return "", errclass.ErrPathValidation.WithMessagef("path contains mixed separators: %q", path)
	}
	if runtime.GOOS == "windows" {
		if err := checkWindowsReserved(path); err != nil {
			return "", err
		}
	}

	expanded, err := ExpandHome(path)
	if err != nil {
		return "", err
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", errclass.ErrPathValidation.WithMessagef("cannot absolutize %q: %v", path, err)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if os.IsNotExist(err) {
			resolved = resolveClosestAncestor(abs)
		} else {
			return "", errclass.ErrPathValidation.WithMessagef("cannot resolve %s: %v", abs, err)
		}
	}

	return filepath.Clean(resolved), nil
}

// ExpandHome expands a leading "~" to the current user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~"+string(filepath.Separator)) && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errclass.ErrPathValidation.WithMessagef("cannot expand ~: %v", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}

// resolveClosestAncestor walks up from path to find the closest existing
// ancestor, resolves its symlinks, then appends the remaining components.
func resolveClosestAncestor(path string) string {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	if dir == path {
		// Hit the root.
		return filepath.Clean(path)
	}

	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		if os.IsNotExist(err) {
			resolved = resolveClosestAncestor(dir)
		} else {
			return filepath.Clean(path)
		}
	}
	return filepath.Join(resolved, base)
}

// Segments splits a canonical path into its component segments.
func Segments(path string) []string {
	clean := filepath.Clean(path)
	parts := strings.Split(clean, string(filepath.Separator))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" && p != "." {
			out = append(out, p)
		}
	}
	return out
}

// IsAncestor reports whether ancestor equals descendant or contains it,
// comparing canonical path segments. Raw string prefix comparison would
// treat /usr as an ancestor of /usr-local; this does not.
func IsAncestor(ancestor, descendant string) bool {
	a := Segments(ancestor)
	d := Segments(descendant)
	if len(a) > len(d) {
		return false
	}
	for i := range a {
		if a[i] != d[i] {
			return false
		}
	}
	return true
}

func checkWindowsReserved(path string) error {
	for _, part := range strings.FieldsFunc(path, func(r rune) bool {
		return r == '\\' || r == '/'
	}) {
		name := strings.ToUpper(part)
		if i := strings.IndexByte(name, '.'); i >= 0 {
			name = name[:i]
		}
		if windowsReservedNames[name] {
			return errclass.ErrPathValidation.WithMessagef("path contains Windows reserved name: %s", part)
		}
		if strings.HasSuffix(part, ".") || strings.HasSuffix(part, " ") {
			return errclass.ErrPathValidation.WithMessagef("path component ends with dot/space: %q", part)
		}
	}
	return nil
}
