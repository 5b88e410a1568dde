// Package placement moves matched windows onto their configured monitors.
package placement

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/screenwall/internal/config"
	"github.com/1broseidon/screenwall/internal/discovery"
	"github.com/1broseidon/screenwall/internal/logging"
	"github.com/1broseidon/screenwall/internal/pattern"
	"github.com/1broseidon/screenwall/internal/platform"
)

// Mover is the part of platform.Backend that changes window state.
type Mover interface {
	MoveResize(windowID platform.WindowID, bounds platform.Rect) error
	Activate(windowID platform.WindowID) error
}

// Placement records one window that was moved.
type Placement struct {
	Window  discovery.WindowRecord
	Pattern string
	Monitor discovery.Monitor
}

// Engine assigns windows to monitors.
type Engine struct {
	mover  Mover
	logger *slog.Logger
}

// NewEngine returns an Engine that moves windows through mover.
func NewEngine(mover Mover, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Engine{mover: mover, logger: logger}
}

// Place moves each window to cover the monitor its first matching rule
// names, then restores and focuses it. Nothing is moved when there are more
// windows than monitors. The first window without a rule or with an
// out-of-range monitor aborts the pass; placements completed before that are
// returned with the error.
func (e *Engine) Place(windows []discovery.WindowRecord, rules config.PlacementRules, monitors []discovery.Monitor) ([]Placement, error) {
	if len(windows) > len(monitors) {
		err := &CountMismatchError{Windows: len(windows), Monitors: len(monitors)}
		e.logger.Error("placement aborted", "error", err)
		return nil, err
	}

	set, err := pattern.NewSet(rules.Patterns())
	if err != nil {
		return nil, err
	}

	placed := make([]Placement, 0, len(windows))
	for _, w := range windows {
		idx, ok := set.FindMatchingRule(w.Title)
		if !ok {
			err := &UnmatchedWindowError{Title: w.Title}
			e.logger.Error("placement aborted", "error", err, "window", w.Handle, "pid", w.PID)
			return placed, err
		}
		rule := rules[idx]

		if rule.Monitor < 0 || rule.Monitor >= len(monitors) {
			err := &MonitorIndexError{Index: rule.Monitor, Available: len(monitors), Title: w.Title}
			e.logger.Error("placement aborted", "error", err, "pattern", rule.Pattern)
			return placed, err
		}
		mon := monitors[rule.Monitor]

		if err := e.mover.MoveResize(w.Handle, mon.Bounds.Rect()); err != nil {
			return placed, fmt.Errorf("move window %q to monitor %d: %w", w.Title, mon.Index, err)
		}
		if err := e.mover.Activate(w.Handle); err != nil {
			return placed, fmt.Errorf("activate window %q: %w", w.Title, err)
		}

		e.logger.Debug("window moved",
			"title", w.Title,
			"monitor", mon.Index,
			"left", mon.Bounds.Left,
			"top", mon.Bounds.Top,
		)
		placed = append(placed, Placement{Window: w, Pattern: rule.Pattern, Monitor: mon})
	}
	return placed, nil
}
