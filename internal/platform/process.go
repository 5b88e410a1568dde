package platform

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/shirou/gopsutil/process"
)

// processName returns the executable name of pid, such as "msedge.exe" on
// Windows or "msedge" on Linux. A process that exited or cannot be
// inspected yields ErrProcessGone.
func processName(pid int) (string, error) {
	if pid <= 0 {
		return "", fmt.Errorf("pid %d: %w", pid, ErrProcessGone)
	}
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return "", lookupError(pid, err)
	}
	name, err := proc.Name()
	if err != nil {
		return "", lookupError(pid, err)
	}
	if name == "" {
		return "", fmt.Errorf("pid %d: empty name: %w", pid, ErrProcessGone)
	}
	return name, nil
}

func lookupError(pid int, err error) error {
	if errors.Is(err, process.ErrorProcessNotRunning) ||
		errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("pid %d: %v: %w", pid, err, ErrProcessGone)
	}
	return fmt.Errorf("pid %d: %w", pid, err)
}
