package placement

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/1broseidon/screenwall/internal/config"
	"github.com/1broseidon/screenwall/internal/discovery"
	"github.com/1broseidon/screenwall/internal/platform"
	"github.com/1broseidon/screenwall/internal/platform/platformtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	left  = discovery.Monitor{Index: 0, Name: "DP-1", Bounds: discovery.Bounds{Left: 0, Top: 0, Right: 1920, Bottom: 1080}}
	right = discovery.Monitor{Index: 1, Name: "DP-2", Bounds: discovery.Bounds{Left: 1920, Top: 0, Right: 3840, Bottom: 1080}}
)

func dashboardRules() config.PlacementRules {
	return config.PlacementRules{
		{Pattern: "TI * Dashboards - Grafana", Monitor: 1},
		{Pattern: "NOC SCC: Dashboard", Monitor: 0},
	}
}

func record(id platform.WindowID, title string) discovery.WindowRecord {
	return discovery.WindowRecord{Handle: id, PID: 100, ProcessName: "msedge.exe", Title: title}
}

func TestPlace_MovesEachWindowToItsMonitor(t *testing.T) {
	fake := platformtest.New()
	windows := []discovery.WindowRecord{
		record(1, "NOC SCC: Dashboard"),
		record(2, "TI Ops Dashboards - Grafana"),
	}

	placed, err := NewEngine(fake, nil).Place(windows, dashboardRules(), []discovery.Monitor{left, right})
	require.NoError(t, err)
	require.Len(t, placed, 2)
	assert.Equal(t, 0, placed[0].Monitor.Index)
	assert.Equal(t, "TI * Dashboards - Grafana", placed[1].Pattern)

	assert.Equal(t, []platformtest.Call{
		{Op: "move", Window: 1, Bounds: platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}},
		{Op: "activate", Window: 1},
		{Op: "move", Window: 2, Bounds: platform.Rect{X: 1920, Y: 0, Width: 1920, Height: 1080}},
		{Op: "activate", Window: 2},
	}, fake.Calls)
}

func TestPlace_MoreWindowsThanMonitorsMovesNothing(t *testing.T) {
	fake := platformtest.New()
	windows := []discovery.WindowRecord{
		record(1, "NOC SCC: Dashboard"),
		record(2, "TI Ops Dashboards - Grafana"),
		record(3, "TI Net Dashboards - Grafana"),
	}

	placed, err := NewEngine(fake, nil).Place(windows, dashboardRules(), []discovery.Monitor{left, right})
	var mismatch *CountMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 3, mismatch.Windows)
	assert.Equal(t, 2, mismatch.Monitors)
	assert.Empty(t, placed)
	assert.Empty(t, fake.Calls)
}

func TestPlace_UnmatchedWindowStopsLaterPlacements(t *testing.T) {
	fake := platformtest.New()
	windows := []discovery.WindowRecord{
		record(1, "NOC SCC: Dashboard"),
		record(2, "New Tab"),
		record(3, "TI Ops Dashboards - Grafana"),
	}
	monitors := []discovery.Monitor{left, right, {Index: 2, Bounds: discovery.Bounds{Left: 3840, Right: 5760, Bottom: 1080}}}

	placed, err := NewEngine(fake, nil).Place(windows, dashboardRules(), monitors)
	var unmatched *UnmatchedWindowError
	require.ErrorAs(t, err, &unmatched)
	assert.Equal(t, "New Tab", unmatched.Title)
	require.Len(t, placed, 1)
	require.Len(t, fake.Moves(), 1)
	assert.Equal(t, platform.WindowID(1), fake.Moves()[0].Window)
}

func TestPlace_MonitorIndexCheckedBeforeMove(t *testing.T) {
	fake := platformtest.New()
	windows := []discovery.WindowRecord{record(2, "TI Ops Dashboards - Grafana")}

	placed, err := NewEngine(fake, nil).Place(windows, dashboardRules(), []discovery.Monitor{left})
	var idx *MonitorIndexError
	require.ErrorAs(t, err, &idx)
	assert.Equal(t, 1, idx.Index)
	assert.Equal(t, 1, idx.Available)
	assert.Equal(t, "TI Ops Dashboards - Grafana", idx.Title)
	assert.Empty(t, placed)
	assert.Empty(t, fake.Calls)
}

func TestPlace_FirstMatchingRuleWins(t *testing.T) {
	fake := platformtest.New()
	rules := config.PlacementRules{
		{Pattern: "* - Grafana", Monitor: 0},
		{Pattern: "TI * Dashboards - Grafana", Monitor: 1},
	}

	placed, err := NewEngine(fake, nil).Place([]discovery.WindowRecord{record(5, "TI Ops Dashboards - Grafana")}, rules, []discovery.Monitor{left, right})
	require.NoError(t, err)
	require.Len(t, placed, 1)
	assert.Equal(t, 0, placed[0].Monitor.Index)
}

func TestPlace_MoveFailureIsReturned(t *testing.T) {
	fake := platformtest.New()
	fake.MoveErr = errors.New("BadWindow")

	placed, err := NewEngine(fake, nil).Place([]discovery.WindowRecord{record(1, "NOC SCC: Dashboard")}, dashboardRules(), []discovery.Monitor{left})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BadWindow")
	assert.Empty(t, placed)
}

func TestPlace_NoWindowsIsANoop(t *testing.T) {
	fake := platformtest.New()

	placed, err := NewEngine(fake, nil).Place(nil, dashboardRules(), nil)
	require.NoError(t, err)
	assert.Empty(t, placed)
	assert.Empty(t, fake.Calls)
}

func TestDryRunMover_LogsInsteadOfMoving(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	windows := []discovery.WindowRecord{record(9, "NOC SCC: Dashboard")}

	placed, err := NewEngine(DryRunMover{Logger: logger}, nil).Place(windows, dashboardRules(), []discovery.Monitor{left})
	require.NoError(t, err)
	require.Len(t, placed, 1)
	assert.Contains(t, buf.String(), "dry-run: move")
	assert.Contains(t, buf.String(), "width=1920")
	assert.Contains(t, buf.String(), "dry-run: activate")
}
