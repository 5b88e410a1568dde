//go:build windows

package platform

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procEnumWindows          = user32.NewProc("EnumWindows")
	procIsWindowVisible      = user32.NewProc("IsWindowVisible")
	procGetWindowTextLengthW = user32.NewProc("GetWindowTextLengthW")
	procGetWindowTextW       = user32.NewProc("GetWindowTextW")
	procEnumDisplayMonitors  = user32.NewProc("EnumDisplayMonitors")
	procGetMonitorInfoW      = user32.NewProc("GetMonitorInfoW")
	procMoveWindow           = user32.NewProc("MoveWindow")
	procShowWindow           = user32.NewProc("ShowWindow")
	procSetForegroundWindow  = user32.NewProc("SetForegroundWindow")
)

const swRestore = 9

// Callbacks are created once; the runtime caps the number of callbacks a
// process may create.
var (
	enumMu       sync.Mutex
	enumHandles  []windows.HWND
	enumMonitors []windows.Handle

	enumWindowsCallback = windows.NewCallback(func(hwnd windows.HWND, _ uintptr) uintptr {
		enumHandles = append(enumHandles, hwnd)
		return 1
	})
	enumMonitorsCallback = windows.NewCallback(func(monitor windows.Handle, _ windows.Handle, _ *windows.Rect, _ uintptr) uintptr {
		enumMonitors = append(enumMonitors, monitor)
		return 1
	})
)

type monitorInfoEx struct {
	CbSize    uint32
	RcMonitor windows.Rect
	RcWork    windows.Rect
	DwFlags   uint32
	SzDevice  [32]uint16
}

// WindowsBackend drives user32 directly.
type WindowsBackend struct{}

var _ Backend = (*WindowsBackend)(nil)

// Open returns the user32 backend. display is ignored on Windows.
func Open(display string) (Backend, error) {
	if err := user32.Load(); err != nil {
		return nil, fmt.Errorf("failed to load user32.dll: %w", err)
	}
	return &WindowsBackend{}, nil
}

func (b *WindowsBackend) Close() {}

// Windows enumerates top-level windows in z-order.
func (b *WindowsBackend) Windows() ([]Window, error) {
	enumMu.Lock()
	enumHandles = enumHandles[:0]
	r, _, callErr := procEnumWindows.Call(enumWindowsCallback, 0)
	handles := append([]windows.HWND(nil), enumHandles...)
	enumMu.Unlock()
	if r == 0 {
		return nil, fmt.Errorf("EnumWindows failed: %w", callErr)
	}

	out := make([]Window, 0, len(handles))
	for _, hwnd := range handles {
		visible, _, _ := procIsWindowVisible.Call(uintptr(hwnd))
		var pid uint32
		if _, err := windows.GetWindowThreadProcessId(hwnd, &pid); err != nil {
			pid = 0
		}
		out = append(out, Window{
			ID:      WindowID(hwnd),
			PID:     int(pid),
			Title:   windowText(hwnd),
			Visible: visible != 0,
		})
	}
	return out, nil
}

func windowText(hwnd windows.HWND) string {
	n, _, _ := procGetWindowTextLengthW.Call(uintptr(hwnd))
	if n == 0 {
		return ""
	}
	buf := make([]uint16, n+1)
	procGetWindowTextW.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return windows.UTF16ToString(buf)
}

// ProcessName returns the image file name of pid, e.g. "msedge.exe".
func (b *WindowsBackend) ProcessName(pid int) (string, error) {
	return processName(pid)
}

// Displays returns monitors in EnumDisplayMonitors order.
func (b *WindowsBackend) Displays() ([]Display, error) {
	enumMu.Lock()
	enumMonitors = enumMonitors[:0]
	r, _, callErr := procEnumDisplayMonitors.Call(0, 0, enumMonitorsCallback, 0)
	monitors := append([]windows.Handle(nil), enumMonitors...)
	enumMu.Unlock()
	if r == 0 {
		return nil, fmt.Errorf("EnumDisplayMonitors failed: %w", callErr)
	}

	displays := make([]Display, 0, len(monitors))
	for i, m := range monitors {
		info := monitorInfoEx{}
		info.CbSize = uint32(unsafe.Sizeof(info))
		if r, _, callErr := procGetMonitorInfoW.Call(uintptr(m), uintptr(unsafe.Pointer(&info))); r == 0 {
			return nil, fmt.Errorf("GetMonitorInfo(%d) failed: %w", i, callErr)
		}
		rc := info.RcMonitor
		displays = append(displays, Display{
			ID:   i,
			Name: windows.UTF16ToString(info.SzDevice[:]),
			Bounds: Rect{
				X:      int(rc.Left),
				Y:      int(rc.Top),
				Width:  int(rc.Right - rc.Left),
				Height: int(rc.Bottom - rc.Top),
			},
		})
	}
	return displays, nil
}

func (b *WindowsBackend) MoveResize(windowID WindowID, bounds Rect) error {
	r, _, callErr := procMoveWindow.Call(
		uintptr(windowID),
		uintptr(int32(bounds.X)),
		uintptr(int32(bounds.Y)),
		uintptr(int32(bounds.Width)),
		uintptr(int32(bounds.Height)),
		1,
	)
	if r == 0 {
		return fmt.Errorf("MoveWindow failed: %w", callErr)
	}
	return nil
}

// Activate issues SW_RESTORE followed by SetForegroundWindow.
func (b *WindowsBackend) Activate(windowID WindowID) error {
	procShowWindow.Call(uintptr(windowID), swRestore)
	if r, _, callErr := procSetForegroundWindow.Call(uintptr(windowID)); r == 0 {
		return fmt.Errorf("SetForegroundWindow failed: %w", callErr)
	}
	return nil
}
