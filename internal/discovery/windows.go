// Package discovery lists the windows and monitors screenwall works with.
package discovery

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/1broseidon/screenwall/internal/logging"
	"github.com/1broseidon/screenwall/internal/platform"
)

// UnknownProcess labels windows whose owner could not be resolved.
const UnknownProcess = "unknown"

// WindowRecord is one titled, visible top-level window and its owner.
type WindowRecord struct {
	Handle      platform.WindowID `yaml:"handle"`
	PID         int               `yaml:"pid"`
	ProcessName string            `yaml:"process"`
	Title       string            `yaml:"title"`
}

// WindowSource is the part of platform.Backend the Enumerator needs.
type WindowSource interface {
	Windows() ([]platform.Window, error)
	ProcessName(pid int) (string, error)
}

// Enumerator resolves window owners and filters by process name.
type Enumerator struct {
	source WindowSource
	logger *slog.Logger
}

// NewEnumerator creates an Enumerator. A nil logger discards output.
func NewEnumerator(source WindowSource, logger *slog.Logger) *Enumerator {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Enumerator{source: source, logger: logger}
}

// ListWindows returns every visible, titled window with its owner resolved.
// Owners that exited or cannot be inspected are labelled UnknownProcess.
func (e *Enumerator) ListWindows() ([]WindowRecord, error) {
	windows, err := e.source.Windows()
	if err != nil {
		return nil, fmt.Errorf("enumerate windows: %w", err)
	}

	records := make([]WindowRecord, 0, len(windows))
	for _, w := range windows {
		if !w.Visible || w.Title == "" {
			continue
		}
		name, err := e.source.ProcessName(w.PID)
		if err != nil {
			if !errors.Is(err, platform.ErrProcessGone) {
				e.logger.Warn("process lookup failed", "window", w.ID, "pid", w.PID, "error", err)
			} else {
				e.logger.Debug("window owner vanished", "window", w.ID, "pid", w.PID)
			}
			name = UnknownProcess
		}
		records = append(records, WindowRecord{
			Handle:      w.ID,
			PID:         w.PID,
			ProcessName: name,
			Title:       w.Title,
		})
	}
	return records, nil
}

// ListMatchingWindows returns the windows owned by target. Process names
// compare case-insensitively, ignoring a trailing ".exe".
func (e *Enumerator) ListMatchingWindows(target string) ([]WindowRecord, error) {
	all, err := e.ListWindows()
	if err != nil {
		return nil, err
	}

	var matched []WindowRecord
	for _, rec := range all {
		if SameProcess(rec.ProcessName, target) {
			matched = append(matched, rec)
		}
	}
	return matched, nil
}

// SameProcess compares process names case-insensitively, ignoring a trailing
// ".exe" on either side.
func SameProcess(a, b string) bool {
	return strings.EqualFold(trimExe(a), trimExe(b))
}

func trimExe(name string) string {
	name = strings.TrimSpace(name)
	if len(name) > 4 && strings.EqualFold(name[len(name)-4:], ".exe") {
		return name[:len(name)-4]
	}
	return name
}
