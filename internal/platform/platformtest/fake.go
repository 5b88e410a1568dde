// Package platformtest provides an in-memory platform.Backend for tests.
package platformtest

import (
	"fmt"
	"sync"

	"github.com/1broseidon/screenwall/internal/platform"
)

// Call records one mutating request made against the fake.
type Call struct {
	Op     string
	Window platform.WindowID
	Bounds platform.Rect
}

// Fake is a scriptable Backend. Windows can be replaced between polls with
// SetWindows or scripted per enumeration with Frames.
type Fake struct {
	mu sync.Mutex

	windows  []platform.Window
	procs    map[int]string
	displays []platform.Display

	// Frames, when non-empty, are consumed one per Windows call; the last
	// frame repeats.
	Frames [][]platform.Window

	WindowsErr  error
	DisplaysErr error
	MoveErr     error

	Calls       []Call
	Enumerated  int
	DisplayHits int
	Closed      bool
}

var _ platform.Backend = (*Fake)(nil)

// New returns an empty fake.
func New() *Fake {
	return &Fake{procs: map[int]string{}}
}

// AddProcess registers a pid with a process name.
func (f *Fake) AddProcess(pid int, name string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.procs[pid] = name
	return f
}

// AddWindow appends a visible window owned by pid.
func (f *Fake) AddWindow(id platform.WindowID, pid int, title string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.windows = append(f.windows, platform.Window{ID: id, PID: pid, Title: title, Visible: true})
	return f
}

// SetWindows replaces the window list.
func (f *Fake) SetWindows(windows []platform.Window) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.windows = windows
}

// AddDisplay appends a display; its ID is its position.
func (f *Fake) AddDisplay(bounds platform.Rect) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.displays = append(f.displays, platform.Display{
		ID:     len(f.displays),
		Name:   fmt.Sprintf("FAKE-%d", len(f.displays)),
		Bounds: bounds,
	})
	return f
}

func (f *Fake) Windows() ([]platform.Window, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Enumerated++
	if f.WindowsErr != nil {
		return nil, f.WindowsErr
	}
	if len(f.Frames) > 0 {
		frame := f.Frames[0]
		if len(f.Frames) > 1 {
			f.Frames = f.Frames[1:]
		}
		return append([]platform.Window(nil), frame...), nil
	}
	return append([]platform.Window(nil), f.windows...), nil
}

func (f *Fake) ProcessName(pid int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name, ok := f.procs[pid]
	if !ok {
		return "", fmt.Errorf("pid %d: %w", pid, platform.ErrProcessGone)
	}
	return name, nil
}

func (f *Fake) Displays() ([]platform.Display, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DisplayHits++
	if f.DisplaysErr != nil {
		return nil, f.DisplaysErr
	}
	return append([]platform.Display(nil), f.displays...), nil
}

func (f *Fake) MoveResize(windowID platform.WindowID, bounds platform.Rect) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.MoveErr != nil {
		return f.MoveErr
	}
	f.Calls = append(f.Calls, Call{Op: "move", Window: windowID, Bounds: bounds})
	return nil
}

func (f *Fake) Activate(windowID platform.WindowID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, Call{Op: "activate", Window: windowID})
	return nil
}

func (f *Fake) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
}

// Moves returns the recorded move calls.
func (f *Fake) Moves() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Call
	for _, c := range f.Calls {
		if c.Op == "move" {
			out = append(out, c)
		}
	}
	return out
}
