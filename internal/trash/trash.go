// Package trash moves files to the platform recycle bin instead of
// unlinking them.
package trash

// Backend is one platform trash implementation. Exactly one variant is
// selected at startup by probing the platform; there is never a runtime
// fallback from trash to permanent deletion.
type Backend interface {
	// Name identifies the backend for logs and audit details.
	Name() string

	// Trash moves path into the holding area and returns the trashed
	// location. Moves rely on rename where possible; a cross-device move
	// falls back to copy-then-remove.
	Trash(path string) (string, error)
}

// New probes the current platform and returns its trash backend. Platforms
// without a usable trash directory fail here, at selection time, not at
// first use.
func New() (Backend, error) {
	return newPlatformBackend()
}
