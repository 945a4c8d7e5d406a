package fsutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CopyFile copies a single regular file, preserving mode and mtime.
func CopyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat src %s: %w", src, err)
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open src %s: %w", src, err)
	}
	defer srcFile.Close()

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode())
	if err != nil {
		return fmt.Errorf("create dst %s: %w", dst, err)
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	if err := dstFile.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", dst, err)
	}

	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

// CopyTree recursively copies src to dst. Directories keep their modes,
// regular files keep mode and mtime, and symlinks inside the tree are
// recreated as links (their targets are not followed).
func CopyTree(src, dst string) error {
	err := filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return fmt.Errorf("relative path: %w", err)
		}
		dstPath := filepath.Join(dst, rel)

		switch {
		case info.IsDir():
			if err := os.MkdirAll(dstPath, info.Mode()); err != nil {
				return fmt.Errorf("mkdir %s: %w", dstPath, err)
			}
			return nil

		case info.Mode()&os.ModeSymlink != 0:
			target, err := os.Readlink(path)
			if err != nil {
				return fmt.Errorf("readlink %s: %w", path, err)
			}
			return os.Symlink(target, dstPath)

		default:
			return CopyFile(path, dstPath)
		}
	})
	if err != nil {
		return fmt.Errorf("copy tree: %w", err)
	}

	return FsyncDir(dst)
}

// DirSize returns the total size in bytes of all regular files under path.
// A regular file's own size is returned directly.
func DirSize(path string) (int64, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return 0, err
	}
	if !info.IsDir() {
		return info.Size(), nil
	}

	var total int64
	err = filepath.Walk(path, func(_ string, fi os.FileInfo, err error) error {
		if err != nil {
			// Unreadable entries count as zero rather than failing the walk.
			return nil
		}
		if fi.Mode().IsRegular() {
			total += fi.Size()
		}
		return nil
	})
	return total, err
}
