// Package wall runs one screenwall pass: wait for the target windows,
// launch the application if they are absent, then place them.
package wall

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/1broseidon/screenwall/internal/config"
	"github.com/1broseidon/screenwall/internal/discovery"
	"github.com/1broseidon/screenwall/internal/logging"
	"github.com/1broseidon/screenwall/internal/pattern"
	"github.com/1broseidon/screenwall/internal/placement"
	"github.com/1broseidon/screenwall/internal/platform"
	"github.com/1broseidon/screenwall/internal/waiter"
)

// Phase names the step of a run that failed.
type Phase string

const (
	PhaseCheck    Phase = "check"
	PhaseLaunch   Phase = "launch"
	PhaseWait     Phase = "wait"
	PhaseMonitors Phase = "monitors"
	PhasePlace    Phase = "place"
)

// PhaseError wraps a failure with the phase it happened in.
type PhaseError struct {
	Phase Phase
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}

// Launcher starts the target application and returns when it exits.
type Launcher interface {
	Run(ctx context.Context) error
}

// RunnerConfig holds the dependencies of a Runner.
type RunnerConfig struct {
	Config   *config.Config
	Backend  platform.Backend
	Launcher Launcher
	Logger   *slog.Logger

	// DryRun logs the launch and the moves instead of performing them.
	DryRun bool
	// NoLaunch skips the launcher; the wait still runs.
	NoLaunch bool

	// Now and Sleep default to the wall clock.
	Now   func() time.Time
	Sleep func(ctx context.Context, d time.Duration) error
}

// Result describes a completed or partially completed run.
type Result struct {
	Launched   bool
	Windows    []discovery.WindowRecord
	Monitors   []discovery.Monitor
	Placements []placement.Placement
}

// Runner executes placement passes.
type Runner struct {
	cfg    RunnerConfig
	logger *slog.Logger
	now    func() time.Time
}

// NewRunner creates a Runner. A nil logger discards output.
func NewRunner(cfg RunnerConfig) *Runner {
	r := &Runner{cfg: cfg, logger: cfg.Logger, now: cfg.Now}
	if r.logger == nil {
		r.logger = logging.Discard()
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r
}

// Run performs one pass. The returned Result is never nil and carries
// whatever was gathered before a failure.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	cfg := r.cfg.Config
	res := &Result{}

	set, err := pattern.NewSet(cfg.Placements.Patterns())
	if err != nil {
		return res, &PhaseError{Phase: PhaseCheck, Err: err}
	}

	enum := discovery.NewEnumerator(r.cfg.Backend, r.logger)
	seq := waiter.New(waiter.Config{
		List: func() ([]discovery.WindowRecord, error) {
			return enum.ListMatchingWindows(cfg.TargetProcess)
		},
		Patterns: set,
		Interval: cfg.PollInterval(),
		Logger:   r.logger,
		Now:      r.now,
		Sleep:    r.cfg.Sleep,
	})

	windows, ok, err := seq.Check()
	if err != nil {
		return res, &PhaseError{Phase: PhaseCheck, Err: err}
	}
	if ok {
		r.logger.Info("target windows already open", "count", len(windows))
	} else {
		res.Launched, err = r.launch(ctx)
		if err != nil {
			return res, &PhaseError{Phase: PhaseLaunch, Err: err}
		}

		deadline := r.now().Add(cfg.Timeout())
		r.logger.Info("waiting for target windows", "timeout", cfg.Timeout(), "patterns", set.Len())
		windows, err = seq.Wait(ctx, deadline)
		if err != nil {
			return res, &PhaseError{Phase: PhaseWait, Err: err}
		}
	}
	res.Windows = windows

	monitors, err := discovery.NewRegistry(r.cfg.Backend, r.logger).ListMonitors()
	if err != nil {
		return res, &PhaseError{Phase: PhaseMonitors, Err: err}
	}
	res.Monitors = monitors
	r.logger.Info("monitors detected", "count", len(monitors))

	var mover placement.Mover = r.cfg.Backend
	if r.cfg.DryRun {
		mover = placement.DryRunMover{Logger: r.logger}
	}
	res.Placements, err = placement.NewEngine(mover, r.logger).Place(windows, cfg.Placements, monitors)
	if err != nil {
		return res, &PhaseError{Phase: PhasePlace, Err: err}
	}

	r.logger.Info("windows placed", "count", len(res.Placements), "dry_run", r.cfg.DryRun)
	return res, nil
}

// launch runs the launcher when one is configured and allowed. It reports
// whether the launcher actually ran.
func (r *Runner) launch(ctx context.Context) (bool, error) {
	switch {
	case r.cfg.NoLaunch:
		r.logger.Info("target windows not open; launch disabled by flag")
		return false, nil
	case r.cfg.Launcher == nil || !r.cfg.Config.Launcher.IsEnabled():
		r.logger.Info("target windows not open; no launcher configured")
		return false, nil
	case r.cfg.DryRun:
		r.logger.Info("dry-run: launch", "command", r.cfg.Config.Launcher.Command)
		return false, nil
	}

	r.logger.Info("target windows not open; launching", "command", r.cfg.Config.Launcher.Command)
	if err := r.cfg.Launcher.Run(ctx); err != nil {
		return false, err
	}
	return true, nil
}
