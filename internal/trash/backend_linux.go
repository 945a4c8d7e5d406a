//go:build linux

package trash

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/lazyscan-project/lazyscan/pkg/errclass"
)

// xdgBackend implements the FreeDesktop trash layout: payloads under
// Trash/files, one .trashinfo per payload under Trash/info.
type xdgBackend struct {
	root string // the Trash directory
}

func newPlatformBackend() (Backend, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errclass.ErrPlatform.WithMessagef("resolve home dir: %v", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return NewXDG(dataHome)
}

// NewXDG builds an XDG trash backend rooted at dataHome/Trash.
func NewXDG(dataHome string) (Backend, error) {
	root := filepath.Join(dataHome, "Trash")
	for _, sub := range []string{"files", "info"} {
		if err := os.MkdirAll(filepath.Join(root, sub), 0700); err != nil {
			return nil, errclass.ErrPlatform.WithMessagef("create trash directory: %v", err)
		}
	}
	return &xdgBackend{root: root}, nil
}

func (b *xdgBackend) Name() string { return "xdg-trash" }

func (b *xdgBackend) Trash(path string) (string, error) {
	name := filepath.Base(path)
	dest := filepath.Join(b.root, "files", name)
	for i := 2; ; i++ {
		if _, err := os.Lstat(dest); os.IsNotExist(err) {
			break
		}
		dest = filepath.Join(b.root, "files", fmt.Sprintf("%s.%d", name, i))
	}

	// The .trashinfo is written first so the payload is never orphaned.
	infoPath := filepath.Join(b.root, "info", filepath.Base(dest)+".trashinfo")
	info := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		url.PathEscape(path), time.Now().Format("2006-01-02T15:04:05"))
	if err := os.WriteFile(infoPath, []byte(info), 0600); err != nil {
		return "", errclass.ErrPlatform.WithMessagef("write trashinfo: %v", err)
	}

	if err := move(path, dest); err != nil {
		os.Remove(infoPath)
		return "", errclass.ErrPlatform.WithMessagef("move to trash: %v", err)
	}
	return dest, nil
}
