package wall

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/1broseidon/screenwall/internal/config"
	"github.com/1broseidon/screenwall/internal/placement"
	"github.com/1broseidon/screenwall/internal/platform"
	"github.com/1broseidon/screenwall/internal/platform/platformtest"
	"github.com/1broseidon/screenwall/internal/waiter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const edgePID = 4100

var (
	grafana = platform.Window{ID: 11, PID: edgePID, Title: "TI Ops Dashboards - Grafana", Visible: true}
	noc     = platform.Window{ID: 12, PID: edgePID, Title: "NOC SCC: Dashboard", Visible: true}
)

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func (c *clock) Sleep(_ context.Context, d time.Duration) error {
	c.t = c.t.Add(d)
	return nil
}

type stubLauncher struct {
	calls int
	err   error
	onRun func()
}

func (s *stubLauncher) Run(context.Context) error {
	s.calls++
	if s.onRun != nil {
		s.onRun()
	}
	return s.err
}

func twoMonitors() *platformtest.Fake {
	return platformtest.New().
		AddProcess(edgePID, "msedge.exe").
		AddDisplay(platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}).
		AddDisplay(platform.Rect{X: 1920, Y: 0, Width: 2560, Height: 1440})
}

func newRunner(fake *platformtest.Fake, l Launcher, mutate func(*RunnerConfig)) (*Runner, *clock) {
	c := &clock{t: time.Date(2024, 3, 1, 7, 0, 0, 0, time.UTC)}
	cfg := RunnerConfig{
		Config:   config.DefaultConfig(),
		Backend:  fake,
		Launcher: l,
		Now:      c.Now,
		Sleep:    c.Sleep,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return NewRunner(cfg), c
}

func TestRun_WindowsAlreadyOpenArePlaced(t *testing.T) {
	fake := twoMonitors()
	fake.SetWindows([]platform.Window{grafana, noc})
	launcher := &stubLauncher{}
	r, _ := newRunner(fake, launcher, nil)

	res, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Launched)
	assert.Zero(t, launcher.calls)
	require.Len(t, res.Placements, 2)

	assert.Equal(t, []platformtest.Call{
		{Op: "move", Window: 11, Bounds: platform.Rect{X: 1920, Y: 0, Width: 2560, Height: 1440}},
		{Op: "activate", Window: 11},
		{Op: "move", Window: 12, Bounds: platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}},
		{Op: "activate", Window: 12},
	}, fake.Calls)
	assert.Equal(t, 1, fake.DisplayHits)
}

func TestRun_LaunchesWhenAbsentThenPlaces(t *testing.T) {
	fake := twoMonitors()
	launcher := &stubLauncher{}
	launcher.onRun = func() {
		fake.Frames = [][]platform.Window{{noc}, {noc}, {grafana, noc}}
	}
	r, _ := newRunner(fake, launcher, nil)

	res, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Launched)
	assert.Equal(t, 1, launcher.calls)
	assert.Len(t, res.Placements, 2)
	// one no-wait check plus three polls
	assert.Equal(t, 4, fake.Enumerated)
}

func TestRun_LauncherThenTimeout(t *testing.T) {
	fake := twoMonitors()
	launcher := &stubLauncher{}
	r, c := newRunner(fake, launcher, nil)
	start := c.Now()

	res, err := r.Run(context.Background())
	var terr *waiter.TimeoutError
	require.ErrorAs(t, err, &terr)
	var perr *PhaseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, PhaseWait, perr.Phase)

	assert.Equal(t, 1, launcher.calls)
	assert.True(t, res.Launched)
	assert.ElementsMatch(t, []string{"TI * Dashboards - Grafana", "NOC SCC: Dashboard"}, terr.Missing)
	assert.Equal(t, 3*time.Second, c.Now().Sub(start))
	assert.Empty(t, fake.Calls)
	assert.Zero(t, fake.DisplayHits)
}

func TestRun_MoreWindowsThanMonitors(t *testing.T) {
	fake := platformtest.New().
		AddProcess(edgePID, "msedge.exe").
		AddDisplay(platform.Rect{Width: 1920, Height: 1080}).
		AddDisplay(platform.Rect{X: 1920, Width: 1920, Height: 1080})
	fake.SetWindows([]platform.Window{
		grafana,
		noc,
		{ID: 13, PID: edgePID, Title: "TI Net Dashboards - Grafana", Visible: true},
	})
	r, _ := newRunner(fake, &stubLauncher{}, nil)

	_, err := r.Run(context.Background())
	var mismatch *placement.CountMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 3, mismatch.Windows)
	assert.Empty(t, fake.Calls)
}

func TestRun_MissingMonitorIndex(t *testing.T) {
	fake := platformtest.New().
		AddProcess(edgePID, "msedge.exe").
		AddDisplay(platform.Rect{Width: 1920, Height: 1080})
	fake.SetWindows([]platform.Window{grafana})
	r, _ := newRunner(fake, &stubLauncher{}, func(cfg *RunnerConfig) {
		cfg.Config.Placements = config.PlacementRules{{Pattern: "TI * Dashboards - Grafana", Monitor: 1}}
	})

	_, err := r.Run(context.Background())
	var idx *placement.MonitorIndexError
	require.ErrorAs(t, err, &idx)
	assert.Equal(t, 1, idx.Index)
	assert.Empty(t, fake.Calls)
}

func TestRun_LauncherFailureStopsRun(t *testing.T) {
	fake := twoMonitors()
	boom := errors.New("exit status 1")
	launcher := &stubLauncher{err: boom}
	r, _ := newRunner(fake, launcher, nil)

	_, err := r.Run(context.Background())
	require.ErrorIs(t, err, boom)
	var perr *PhaseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, PhaseLaunch, perr.Phase)
	assert.Equal(t, 1, fake.Enumerated)
}

func TestRun_NoLaunchStillWaits(t *testing.T) {
	fake := twoMonitors()
	fake.Frames = [][]platform.Window{{}, {grafana, noc}}
	launcher := &stubLauncher{}
	r, _ := newRunner(fake, launcher, func(cfg *RunnerConfig) { cfg.NoLaunch = true })

	res, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, launcher.calls)
	assert.False(t, res.Launched)
	assert.Len(t, res.Placements, 2)
}

func TestRun_DisabledLauncherIsSkipped(t *testing.T) {
	fake := twoMonitors()
	launcher := &stubLauncher{}
	disabled := false
	r, _ := newRunner(fake, launcher, func(cfg *RunnerConfig) {
		cfg.Config.Launcher.Enabled = &disabled
	})

	_, err := r.Run(context.Background())
	var terr *waiter.TimeoutError
	require.ErrorAs(t, err, &terr)
	assert.Zero(t, launcher.calls)
}

func TestRun_DryRunMovesNothing(t *testing.T) {
	fake := twoMonitors()
	fake.SetWindows([]platform.Window{grafana, noc})
	r, _ := newRunner(fake, &stubLauncher{}, func(cfg *RunnerConfig) { cfg.DryRun = true })

	res, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Placements, 2)
	assert.Empty(t, fake.Calls)
}

func TestRun_EnumerationFailure(t *testing.T) {
	fake := twoMonitors()
	fake.WindowsErr = errors.New("connection closed")
	launcher := &stubLauncher{}
	r, _ := newRunner(fake, launcher, nil)

	_, err := r.Run(context.Background())
	var perr *PhaseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, PhaseCheck, perr.Phase)
	assert.Zero(t, launcher.calls)
}
