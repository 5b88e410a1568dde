package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/1broseidon/screenwall/internal/platform"
	"github.com/1broseidon/screenwall/internal/platform/platformtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func run(t *testing.T, fake *platformtest.Fake, args ...string) result {
	t.Helper()
	t.Setenv("DISPLAY", ":99")
	t.Setenv("XAUTHORITY", filepath.Join(t.TempDir(), "Xauthority"))

	var stdout, stderr bytes.Buffer
	a := newApp(&stdout, &stderr)
	a.openBackend = func(display string) (platform.Backend, error) {
		assert.Equal(t, ":99", display)
		if fake == nil {
			t.Fatal("unexpected backend open")
		}
		return fake, nil
	}
	code := a.execute(context.Background(), args)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func dashboards() *platformtest.Fake {
	return platformtest.New().
		AddProcess(300, "msedge.exe").
		AddWindow(1, 300, "NOC SCC: Dashboard").
		AddWindow(2, 300, "TI Ops Dashboards - Grafana").
		AddDisplay(platform.Rect{Width: 1920, Height: 1080}).
		AddDisplay(platform.Rect{X: 1920, Width: 1920, Height: 1080})
}

func TestConfigPrintDefaults(t *testing.T) {
	res := run(t, nil, "config", "print", "--defaults")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "target_process: msedge.exe")
	assert.Contains(t, res.stdout, "TI * Dashboards - Grafana")
}

func TestConfigValidate(t *testing.T) {
	path := writeConfig(t, "timeout_seconds: 5\n")
	res := run(t, nil, "--config", path, "config", "validate")
	assert.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "config: ok\n", res.stdout)
}

func TestConfigValidateReportsProblems(t *testing.T) {
	path := writeConfig(t, "timeout_seconds: 0\n")
	res := run(t, nil, "--config", path, "config", "validate")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "timeout_seconds")
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "screenwall", "config.yaml")

	res := run(t, nil, "--config", path, "config", "init")
	require.Equal(t, 0, res.code, res.stderr)
	assert.FileExists(t, path)

	res = run(t, nil, "--config", path, "config", "validate")
	assert.Equal(t, 0, res.code, res.stderr)

	res = run(t, nil, "--config", path, "config", "init")
	assert.Equal(t, 1, res.code)

	res = run(t, nil, "--config", path, "config", "init", "--force")
	assert.Equal(t, 0, res.code, res.stderr)
}

func TestUsageErrors(t *testing.T) {
	cases := [][]string{
		{"bogus"},
		{"--no-such-flag"},
		{"--log-format", "xml", "config", "validate"},
		{"run", "--timeout", "0s"},
	}
	for _, args := range cases {
		res := run(t, nil, args...)
		assert.Equal(t, 2, res.code, "args %v: %s", args, res.stderr)
	}
}

func TestRunPlacesWindows(t *testing.T) {
	fake := dashboards()
	path := filepath.Join(t.TempDir(), "missing.yaml")

	res := run(t, fake, "--config", path, "run")
	require.Equal(t, 0, res.code, res.stderr)
	require.Len(t, fake.Moves(), 2)
	assert.Equal(t, platform.Rect{Width: 1920, Height: 1080}, fake.Moves()[0].Bounds)
	assert.Equal(t, platform.Rect{X: 1920, Width: 1920, Height: 1080}, fake.Moves()[1].Bounds)
	assert.True(t, fake.Closed)
}

func TestRunIsTheDefaultCommand(t *testing.T) {
	fake := dashboards()
	path := filepath.Join(t.TempDir(), "missing.yaml")

	res := run(t, fake, "--config", path, "--dry-run")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Empty(t, fake.Calls)
}

func TestRunFailsOnMissingMonitor(t *testing.T) {
	fake := platformtest.New().
		AddProcess(300, "msedge.exe").
		AddWindow(2, 300, "TI Ops Dashboards - Grafana").
		AddDisplay(platform.Rect{Width: 1920, Height: 1080})
	path := writeConfig(t, "placements:\n  \"TI * Dashboards - Grafana\": 1\n")

	res := run(t, fake, "--config", path, "--log-format", "json", "run")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "configured monitor does not exist")
	assert.Empty(t, fake.Calls)
}

func TestWindowsListsTargetProcess(t *testing.T) {
	fake := dashboards().AddProcess(400, "explorer.exe").AddWindow(9, 400, "Downloads")
	path := filepath.Join(t.TempDir(), "missing.yaml")

	res := run(t, fake, "--config", path, "windows")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "NOC SCC: Dashboard")
	assert.NotContains(t, res.stdout, "Downloads")

	res = run(t, fake, "--config", path, "windows", "--all")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Downloads")
}

func TestMonitorsListsBounds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")

	res := run(t, dashboards(), "--config", path, "monitors")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "index: 1")
	assert.Contains(t, res.stdout, "left: 1920")
	assert.Contains(t, res.stdout, "name: FAKE-0")
}
