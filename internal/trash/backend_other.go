//go:build !linux && !darwin && !windows

package trash

import "github.com/lazyscan-project/lazyscan/pkg/errclass"

func newPlatformBackend() (Backend, error) {
	return nil, errclass.ErrPlatform.WithMessage("no trash backend for this platform")
}
