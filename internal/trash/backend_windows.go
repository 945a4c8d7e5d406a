//go:build windows

package trash

import "github.com/lazyscan-project/lazyscan/pkg/errclass"

// The Recycle Bin needs shell32 COM calls this build does not carry.
// Selection fails with a typed error; callers may use --permanent --force.
func newPlatformBackend() (Backend, error) {
	return nil, errclass.ErrPlatform.WithMessage(
		"trash is not supported on Windows; use permanent deletion with --force")
}
