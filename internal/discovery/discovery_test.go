package discovery

import (
	"errors"
	"testing"

	"github.com/1broseidon/screenwall/internal/platform"
	"github.com/1broseidon/screenwall/internal/platform/platformtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListMatchingWindows_FiltersByProcessVisibilityAndTitle(t *testing.T) {
	fake := platformtest.New().
		AddProcess(10, "msedge.exe").
		AddProcess(20, "explorer.exe")
	fake.SetWindows([]platform.Window{
		{ID: 1, PID: 10, Title: "NOC SCC: Dashboard", Visible: true},
		{ID: 2, PID: 10, Title: "", Visible: true},
		{ID: 3, PID: 10, Title: "Hidden helper", Visible: false},
		{ID: 4, PID: 20, Title: "File Explorer", Visible: true},
		{ID: 5, PID: 10, Title: "TI Ops Dashboards - Grafana", Visible: true},
	})

	got, err := NewEnumerator(fake, nil).ListMatchingWindows("MSEDGE.EXE")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, platform.WindowID(1), got[0].Handle)
	assert.Equal(t, "msedge.exe", got[0].ProcessName)
	assert.Equal(t, "TI Ops Dashboards - Grafana", got[1].Title)
}

func TestListWindows_VanishedOwnerIsUnknown(t *testing.T) {
	fake := platformtest.New()
	fake.SetWindows([]platform.Window{
		{ID: 7, PID: 4242, Title: "Orphan", Visible: true},
	})

	enum := NewEnumerator(fake, nil)
	all, err := enum.ListWindows()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, UnknownProcess, all[0].ProcessName)
	assert.Equal(t, 4242, all[0].PID)

	matched, err := enum.ListMatchingWindows("msedge.exe")
	require.NoError(t, err)
	assert.Empty(t, matched)
}

func TestListMatchingWindows_EnumerationErrorPropagates(t *testing.T) {
	fake := platformtest.New()
	fake.WindowsErr = errors.New("display gone")

	_, err := NewEnumerator(fake, nil).ListMatchingWindows("msedge.exe")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "display gone")
}

func TestSameProcess(t *testing.T) {
	assert.True(t, SameProcess("msedge.exe", "MSEdge.EXE"))
	assert.True(t, SameProcess("msedge", "msedge.exe"))
	assert.True(t, SameProcess("msedge.exe", "msedge"))
	assert.False(t, SameProcess("msedge", "chrome"))
	assert.False(t, SameProcess(".exe", ""))
}

func TestListMonitors_IndicesFollowBackendOrder(t *testing.T) {
	fake := platformtest.New().
		AddDisplay(platform.Rect{X: 1920, Y: 0, Width: 1920, Height: 1080}).
		AddDisplay(platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080})

	monitors, err := NewRegistry(fake, nil).ListMonitors()
	require.NoError(t, err)
	require.Len(t, monitors, 2)

	assert.Equal(t, 0, monitors[0].Index)
	assert.Equal(t, Bounds{Left: 1920, Top: 0, Right: 3840, Bottom: 1080}, monitors[0].Bounds)
	assert.Equal(t, 1, monitors[1].Index)
	assert.Equal(t, platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}, monitors[1].Bounds.Rect())
	assert.Equal(t, 1, fake.DisplayHits)
}

func TestListMonitors_ErrorPropagates(t *testing.T) {
	fake := platformtest.New()
	fake.DisplaysErr = errors.New("randr unavailable")

	_, err := NewRegistry(fake, nil).ListMonitors()
	require.ErrorContains(t, err, "randr unavailable")
}
