package discovery

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/screenwall/internal/logging"
	"github.com/1broseidon/screenwall/internal/platform"
)

// Bounds is a monitor rectangle in screen coordinates; Right and Bottom are
// exclusive.
type Bounds struct {
	Left   int `yaml:"left"`
	Top    int `yaml:"top"`
	Right  int `yaml:"right"`
	Bottom int `yaml:"bottom"`
}

// Rect converts b to origin and size.
func (b Bounds) Rect() platform.Rect {
	return platform.Rect{X: b.Left, Y: b.Top, Width: b.Right - b.Left, Height: b.Bottom - b.Top}
}

// Monitor is a display snapshot; Index is its position in OS enumeration
// order for this run.
type Monitor struct {
	Index  int    `yaml:"index"`
	Name   string `yaml:"name"`
	Bounds Bounds `yaml:"bounds"`
}

// DisplaySource is the part of platform.Backend the Registry needs.
type DisplaySource interface {
	Displays() ([]platform.Display, error)
}

// Registry reads monitor geometry.
type Registry struct {
	source DisplaySource
	logger *slog.Logger
}

// NewRegistry returns a Registry reading displays from source. A nil logger
// discards output.
func NewRegistry(source DisplaySource, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Registry{source: source, logger: logger}
}

// ListMonitors queries the display list once.
func (r *Registry) ListMonitors() ([]Monitor, error) {
	displays, err := r.source.Displays()
	if err != nil {
		return nil, fmt.Errorf("enumerate monitors: %w", err)
	}

	monitors := make([]Monitor, 0, len(displays))
	for i, d := range displays {
		m := Monitor{
			Index: i,
			Name:  d.Name,
			Bounds: Bounds{
				Left:   d.Bounds.X,
				Top:    d.Bounds.Y,
				Right:  d.Bounds.X + d.Bounds.Width,
				Bottom: d.Bounds.Y + d.Bounds.Height,
			},
		}
		r.logger.Debug("monitor",
			"index", m.Index,
			"name", m.Name,
			"left", m.Bounds.Left,
			"top", m.Bounds.Top,
			"right", m.Bounds.Right,
			"bottom", m.Bounds.Bottom,
		)
		monitors = append(monitors, m)
	}
	return monitors, nil
}
