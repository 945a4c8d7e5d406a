// Package integrity computes checksums used to verify backups before restore.
package integrity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/lazyscan-project/lazyscan/pkg/model"
)

// ComputeChecksum hashes a file's content, or for a directory a manifest of
// sorted relative paths, sizes, and per-file content hashes. A partially
// copied tree therefore never matches the checksum recorded for the full one.
func ComputeChecksum(path string) (model.HashValue, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return fileChecksum(path)
	}
	return treeChecksum(path)
}

func fileChecksum(path string) (model.HashValue, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return model.HashValue(hex.EncodeToString(h.Sum(nil))), nil
}

func treeChecksum(root string) (model.HashValue, error) {
	type fileLine struct {
		rel  string
		size int64
		hash model.HashValue
	}

	var lines []fileLine
	err := filepath.Walk(root, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !fi.Mode().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		h, err := fileChecksum(path)
		if err != nil {
			return err
		}
		lines = append(lines, fileLine{rel: filepath.ToSlash(rel), size: fi.Size(), hash: h})
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("walk %s: %w", root, err)
	}

	sort.Slice(lines, func(i, j int) bool { return lines[i].rel < lines[j].rel })

	h := sha256.New()
	for _, l := range lines {
		fmt.Fprintf(h, "%s:%d:%s\n", l.rel, l.size, l.hash)
	}
	return model.HashValue(hex.EncodeToString(h.Sum(nil))), nil
}
