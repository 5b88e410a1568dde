package platform

import "errors"

// WindowID is a platform-neutral window identifier.
type WindowID uint64

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Display describes a physical display as reported by the window system.
type Display struct {
	ID     int
	Name   string
	Bounds Rect
}

// Window is a top-level window as seen by the window system. PID is 0 when
// the owner could not be determined.
type Window struct {
	ID      WindowID
	PID     int
	Title   string
	Visible bool
}

// ErrProcessGone is returned by ProcessName when the process exited or
// cannot be inspected.
var ErrProcessGone = errors.New("process not found or inaccessible")

// Backend abstracts the window-system operations screenwall needs.
type Backend interface {
	// Windows lists top-level windows in window-system order.
	Windows() ([]Window, error)
	// ProcessName resolves the executable name of pid.
	ProcessName(pid int) (string, error)
	// Displays lists monitors in window-system enumeration order.
	Displays() ([]Display, error)
	MoveResize(windowID WindowID, bounds Rect) error
	// Activate restores a minimized window and brings it to the foreground.
	Activate(windowID WindowID) error
	Close()
}
