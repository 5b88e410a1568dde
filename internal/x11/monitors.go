package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
)

// Monitor is one active CRTC in root window coordinates.
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

// GetMonitors lists active CRTCs in the order RandR reports them. A server
// without an active CRTC yields a single monitor covering the root window.
func (c *Connection) GetMonitors() ([]Monitor, error) {
	conn := c.XUtil.Conn()
	if err := randr.Init(conn); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	res, err := randr.GetScreenResources(conn, c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range res.Crtcs {
		m, ok := c.crtcMonitor(crtc, res.ConfigTimestamp)
		if !ok {
			continue
		}
		m.ID = i
		if m.Name == "" {
			m.Name = fmt.Sprintf("CRTC-%d", i)
		}
		monitors = append(monitors, m)
	}

	if len(monitors) > 0 {
		return monitors, nil
	}
	root, err := c.rootMonitor()
	if err != nil {
		return nil, err
	}
	return []Monitor{root}, nil
}

// crtcMonitor reports false for disabled or unreadable CRTCs.
func (c *Connection) crtcMonitor(crtc randr.Crtc, ts xproto.Timestamp) (Monitor, bool) {
	conn := c.XUtil.Conn()
	info, err := randr.GetCrtcInfo(conn, crtc, ts).Reply()
	if err != nil || info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
		return Monitor{}, false
	}

	m := Monitor{
		X:      int(info.X),
		Y:      int(info.Y),
		Width:  int(info.Width),
		Height: int(info.Height),
	}
	if out, err := randr.GetOutputInfo(conn, info.Outputs[0], ts).Reply(); err == nil {
		m.Name = string(out.Name)
	}
	return m, true
}

func (c *Connection) rootMonitor() (Monitor, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return Monitor{}, fmt.Errorf("failed to get root geometry: %w", err)
	}
	return Monitor{
		Name:   "root",
		X:      int(geom.X),
		Y:      int(geom.Y),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}, nil
}
