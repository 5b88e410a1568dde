package placement

import "fmt"

// CountMismatchError means more windows matched than monitors exist.
type CountMismatchError struct {
	Windows  int
	Monitors int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("more windows open (%d) than monitors detected (%d)", e.Windows, e.Monitors)
}

// UnmatchedWindowError means a target-process window matched no rule.
type UnmatchedWindowError struct {
	Title string
}

func (e *UnmatchedWindowError) Error() string {
	return fmt.Sprintf("window %q was not moved to any monitor: no placement pattern matches", e.Title)
}

// MonitorIndexError means a rule points at a monitor that was not detected.
type MonitorIndexError struct {
	Index     int
	Available int
	Title     string
}

func (e *MonitorIndexError) Error() string {
	return fmt.Sprintf("monitor %d does not exist (%d detected) for window %q", e.Index, e.Available, e.Title)
}
