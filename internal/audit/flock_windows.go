//go:build windows

package audit

import "os"

// No flock on Windows; the in-process mutex is enough for a single-user CLI.
func lockFile(_ *os.File) error   { return nil }
func unlockFile(_ *os.File) error { return nil }
