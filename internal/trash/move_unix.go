//go:build !windows

package trash

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/lazyscan-project/lazyscan/pkg/fsutil"
)

// move renames src to dst, falling back to copy-then-remove when src and
// dst live on different filesystems.
func move(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}

	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) || !errors.Is(linkErr.Err, syscall.EXDEV) {
		return fmt.Errorf("move %s to %s: %w", src, dst, err)
	}

	// Cross-device: copy into the trash, then remove the original.
	info, statErr := os.Lstat(src)
	if statErr != nil {
		return fmt.Errorf("stat %s: %w", src, statErr)
	}
	if info.IsDir() {
		if err := fsutil.CopyTree(src, dst); err != nil {
			return err
		}
	} else {
		if err := fsutil.CopyFile(src, dst); err != nil {
			return err
		}
	}
	return os.RemoveAll(src)
}
