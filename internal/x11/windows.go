package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// ClientWindow is a managed top-level window from _NET_CLIENT_LIST.
type ClientWindow struct {
	ID      xproto.Window
	PID     int
	Title   string
	Visible bool
}

// ClientWindows lists the windows managed by the window manager, in
// _NET_CLIENT_LIST order.
func (c *Connection) ClientWindows() ([]ClientWindow, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to get client list: %w", err)
	}

	windows := make([]ClientWindow, 0, len(clients))
	for _, windowID := range clients {
		pid := 0
		if p, err := ewmh.WmPidGet(c.XUtil, windowID); err == nil {
			pid = int(p)
		}
		windows = append(windows, ClientWindow{
			ID:      windowID,
			PID:     pid,
			Title:   c.WindowTitle(windowID),
			Visible: c.IsVisible(windowID),
		})
	}
	return windows, nil
}

// WindowTitle prefers _NET_WM_NAME and falls back to WM_NAME.
func (c *Connection) WindowTitle(windowID xproto.Window) string {
	title, err := ewmh.WmNameGet(c.XUtil, windowID)
	if err == nil && strings.TrimSpace(title) != "" {
		return title
	}

	title, err = icccm.WmNameGet(c.XUtil, windowID)
	if err == nil {
		return title
	}
	return ""
}

// IsVisible reports whether a window is a normal application window that has
// not been withdrawn. Iconified windows count as visible; activating them
// restores them.
func (c *Connection) IsVisible(windowID xproto.Window) bool {
	if !c.IsNormalWindow(windowID) {
		return false
	}
	state, err := icccm.WmStateGet(c.XUtil, windowID)
	if err != nil {
		// Some clients never set WM_STATE
		return true
	}
	return state.State != icccm.StateWithdrawn
}

// MoveResizeWindow moves and resizes a window to the specified geometry.
// When the _NET_MOVERESIZE_WINDOW request cannot be sent it configures the
// window directly and returns that request's error.
func (c *Connection) MoveResizeWindow(windowID xproto.Window, x, y, width, height int) error {
	// Maximized windows ignore geometry requests on most window managers;
	// failure to unmaximize is not fatal.
	_ = c.unmaximizeWindow(windowID)

	// Use EWMH MoveResize for better WM compatibility
	ewmhErr := ewmh.MoveresizeWindow(c.XUtil, windowID, x, y, width, height)
	if ewmhErr == nil {
		return nil
	}

	mask, values := configureGeometry(x, y, width, height)
	if err := xproto.ConfigureWindowChecked(c.XUtil.Conn(), windowID, mask, values).Check(); err != nil {
		return fmt.Errorf("failed to move window 0x%x: ewmh: %v; configure: %w", windowID, ewmhErr, err)
	}
	return nil
}

// configureGeometry builds the ConfigureWindow value list for a full
// geometry change. Coordinates are INT16 on the wire and may be negative.
func configureGeometry(x, y, width, height int) (uint16, []uint32) {
	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY |
		xproto.ConfigWindowWidth | xproto.ConfigWindowHeight)
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return mask, []uint32{uint32(int32(x)), uint32(int32(y)), uint32(width), uint32(height)}
}

// unmaximizeWindow removes maximized state from a window
func (c *Connection) unmaximizeWindow(windowID xproto.Window) error {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return err
	}

	for _, state := range states {
		switch state {
		case "_NET_WM_STATE_MAXIMIZED_HORZ", "_NET_WM_STATE_MAXIMIZED_VERT", "_NET_WM_STATE_FULLSCREEN":
			if err := ewmh.WmStateReq(c.XUtil, windowID, ewmh.StateRemove, state); err != nil {
				return err
			}
		}
	}
	return nil
}

// IsNormalWindow checks if a window is a normal application window
func (c *Connection) IsNormalWindow(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		// If we can't determine type, assume it's normal
		return true
	}

	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL", "_NET_WM_WINDOW_TYPE_DIALOG":
			return true
		case "_NET_WM_WINDOW_TYPE_DESKTOP",
			"_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_SPLASH",
			"_NET_WM_WINDOW_TYPE_NOTIFICATION":
			return false
		}
	}

	// If no specific type is set, assume it's normal
	return len(types) == 0
}
