//go:build darwin

package trash

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lazyscan-project/lazyscan/pkg/errclass"
)

// darwinBackend moves files into the user's ~/.Trash.
type darwinBackend struct {
	dir string
}

func newPlatformBackend() (Backend, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, errclass.ErrPlatform.WithMessagef("resolve home dir: %v", err)
	}
	dir := filepath.Join(home, ".Trash")
	if _, err := os.Stat(dir); err != nil {
		return nil, errclass.ErrPlatform.WithMessagef("trash directory unavailable: %v", err)
	}
	return &darwinBackend{dir: dir}, nil
}

func (b *darwinBackend) Name() string { return "darwin-trash" }

func (b *darwinBackend) Trash(path string) (string, error) {
	dest := filepath.Join(b.dir, filepath.Base(path))
	if _, err := os.Lstat(dest); err == nil {
		// Finder-style disambiguation for repeated names.
		dest = filepath.Join(b.dir, fmt.Sprintf("%s %s", filepath.Base(path),
			time.Now().Format("15.04.05")))
	}
	if err := move(path, dest); err != nil {
		return "", errclass.ErrPlatform.WithMessagef("move to trash: %v", err)
	}
	return dest, nil
}
