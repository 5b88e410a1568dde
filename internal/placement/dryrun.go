package placement

import (
	"log/slog"

	"github.com/1broseidon/screenwall/internal/logging"
	"github.com/1broseidon/screenwall/internal/platform"
)

// DryRunMover logs the requests it receives instead of executing them.
type DryRunMover struct {
	Logger *slog.Logger
}

func (d DryRunMover) logger() *slog.Logger {
	if d.Logger == nil {
		return logging.Discard()
	}
	return d.Logger
}

func (d DryRunMover) MoveResize(windowID platform.WindowID, bounds platform.Rect) error {
	d.logger().Info("dry-run: move", "window", windowID, "x", bounds.X, "y", bounds.Y, "width", bounds.Width, "height", bounds.Height)
	return nil
}

func (d DryRunMover) Activate(windowID platform.WindowID) error {
	d.logger().Info("dry-run: activate", "window", windowID)
	return nil
}
