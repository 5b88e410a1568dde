//go:build !linux && !windows

package platform

import (
	"fmt"
	"runtime"
)

// Open reports that no window-system backend exists for this OS.
func Open(display string) (Backend, error) {
	return nil, fmt.Errorf("no window backend for %s", runtime.GOOS)
}
