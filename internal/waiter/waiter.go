// Package waiter polls for the configured set of windows.
package waiter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/1broseidon/screenwall/internal/discovery"
	"github.com/1broseidon/screenwall/internal/logging"
	"github.com/1broseidon/screenwall/internal/pattern"
)

// DefaultInterval is the delay between two checks.
const DefaultInterval = 100 * time.Millisecond

// State is the sequencer state after a check.
type State int

const (
	StateChecking State = iota
	StateSatisfied
	StateTimedOut
)

func (s State) String() string {
	switch s {
	case StateChecking:
		return "checking"
	case StateSatisfied:
		return "satisfied"
	case StateTimedOut:
		return "timed_out"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Lister returns the current target-process windows.
type Lister func() ([]discovery.WindowRecord, error)

// TimeoutError reports that the deadline passed before every pattern matched.
type TimeoutError struct {
	Missing []string
	Checks  int
	Elapsed time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s (%d checks): no window matched %s",
		e.Elapsed.Round(time.Millisecond), e.Checks, quoteAll(e.Missing))
}

// Config configures a Sequencer.
type Config struct {
	List     Lister
	Patterns *pattern.Set
	Interval time.Duration
	Logger   *slog.Logger

	// Now and Sleep default to the wall clock.
	Now   func() time.Time
	Sleep func(ctx context.Context, d time.Duration) error
}

// Sequencer evaluates the wait predicate once or until a deadline.
type Sequencer struct {
	list     Lister
	patterns *pattern.Set
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
}

// New creates a Sequencer from cfg.
func New(cfg Config) *Sequencer {
	s := &Sequencer{
		list:     cfg.List,
		patterns: cfg.Patterns,
		interval: cfg.Interval,
		logger:   cfg.Logger,
		now:      cfg.Now,
		sleep:    cfg.Sleep,
	}
	if s.interval <= 0 {
		s.interval = DefaultInterval
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.sleep == nil {
		s.sleep = sleepContext
	}
	return s
}

// Check performs exactly one evaluation. ok is false when some pattern has
// no matching window; windows is nil in that case.
func (s *Sequencer) Check() (windows []discovery.WindowRecord, ok bool, err error) {
	windows, missing, err := s.check()
	if err != nil {
		return nil, false, err
	}
	if len(missing) > 0 {
		return nil, false, nil
	}
	return windows, true, nil
}

// Wait checks until the predicate holds or deadline passes. At least one
// check is always made. Failing to enumerate windows aborts the wait.
func (s *Sequencer) Wait(ctx context.Context, deadline time.Time) ([]discovery.WindowRecord, error) {
	start := s.now()
	checks := 0
	state := StateChecking

	for {
		windows, missing, err := s.check()
		checks++
		if err != nil {
			return nil, err
		}
		if len(missing) == 0 {
			state = StateSatisfied
			s.logger.Debug("wait finished", "state", state, "checks", checks, "elapsed", s.now().Sub(start))
			return windows, nil
		}

		if !s.now().Before(deadline) {
			state = StateTimedOut
			terr := &TimeoutError{Missing: missing, Checks: checks, Elapsed: s.now().Sub(start)}
			s.logger.Error("wait finished", "state", state, "checks", checks, "missing", missing)
			return nil, terr
		}

		if err := s.sleep(ctx, s.interval); err != nil {
			return nil, err
		}
	}
}

func (s *Sequencer) check() ([]discovery.WindowRecord, []string, error) {
	windows, err := s.list()
	if err != nil {
		return nil, nil, err
	}
	missing := Missing(windows, s.patterns)
	if len(missing) == 0 {
		s.logger.Debug("all expected windows are open", "windows", titles(windows))
	} else {
		s.logger.Debug("not all expected windows are open", "windows", titles(windows), "missing", missing)
	}
	return windows, missing, nil
}

// Satisfied reports whether every pattern matches at least one of the
// distinct window titles that match any pattern.
func Satisfied(windows []discovery.WindowRecord, patterns *pattern.Set) bool {
	return len(Missing(windows, patterns)) == 0
}

// Missing returns the patterns, in order, that match none of the titles.
func Missing(windows []discovery.WindowRecord, patterns *pattern.Set) []string {
	matched := make(map[string]struct{})
	for _, w := range windows {
		if patterns.MatchesAny(w.Title) {
			matched[w.Title] = struct{}{}
		}
	}

	var missing []string
	for i, p := range patterns.Patterns() {
		found := false
		for title := range matched {
			if patterns.Match(i, title) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, p)
		}
	}
	return missing
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func titles(windows []discovery.WindowRecord) []string {
	out := make([]string, 0, len(windows))
	for _, w := range windows {
		out = append(out, w.Title)
	}
	return out
}

func quoteAll(items []string) string {
	quoted := make([]string, 0, len(items))
	for _, it := range items {
		quoted = append(quoted, fmt.Sprintf("%q", it))
	}
	return strings.Join(quoted, ", ")
}
