package main

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/1broseidon/screenwall/internal/config"
	"github.com/1broseidon/screenwall/internal/displayenv"
	"github.com/1broseidon/screenwall/internal/logging"
	"github.com/1broseidon/screenwall/internal/platform"
	"github.com/spf13/cobra"
)

// app carries the global flags and the logger shared by subcommands.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	logLevel   string
	logFormat  string

	logger *slog.Logger

	// openBackend is replaced in tests.
	openBackend func(display string) (platform.Backend, error)
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout:      stdout,
		stderr:      stderr,
		openBackend: platform.Open,
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "screenwall",
		Short: "Open dashboard windows and place each on its monitor",
		Long: `screenwall waits for the configured windows of the target process to
appear, runs the launcher when they are missing, then moves, resizes and
focuses each window onto the monitor its placement rule names.

Running screenwall without a subcommand is the same as 'screenwall run'.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          noArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch logging.Format(a.logFormat) {
			case logging.FormatAuto, logging.FormatText, logging.FormatJSON:
			default:
				return usagef("unsupported log format %q (use auto, text or json)", a.logFormat)
			}
			a.logger = logging.New(a.stderr, a.levelOr(config.DefaultLogLevel), logging.Format(a.logFormat))
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "Config file path (default: <user config dir>/screenwall/config.yaml)")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides log_level)")
	pf.StringVar(&a.logFormat, "log-format", string(logging.FormatAuto), "Log format: auto, text, json")

	run := &runOptions{}
	root.RunE = func(cmd *cobra.Command, args []string) error {
		return a.runWall(cmd, run)
	}
	run.bind(root)

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	root.AddCommand(
		a.runCmd(),
		a.monitorsCmd(),
		a.windowsCmd(),
		a.configCmd(),
	)
	return root
}

func (a *app) log() *slog.Logger {
	if a.logger == nil {
		a.logger = logging.New(a.stderr, a.levelOr(config.DefaultLogLevel), logging.FormatAuto)
	}
	return a.logger
}

func (a *app) levelOr(fallback string) string {
	if strings.TrimSpace(a.logLevel) != "" {
		return a.logLevel
	}
	return fallback
}

// loadConfig reads the config file and rebuilds the logger with the
// configured level unless --log-level was given.
func (a *app) loadConfig() (*config.Config, error) {
	path := a.configPath
	if path == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, err
	}
	a.logger = logging.New(a.stderr, a.levelOr(res.Config.LogLevel), logging.Format(a.logFormat))
	if res.File == "" {
		a.logger.Debug("config file not found; using defaults", "path", path)
	} else {
		a.logger.Debug("config loaded", "path", res.File)
	}
	return res.Config, nil
}

// backend connects to the window system. On X11 the display and
// Xauthority fall back to the configured values when the environment
// lacks them.
func (a *app) backend(cfg *config.Config) (platform.Backend, error) {
	display, xauth := displayenv.Resolve(os.Environ(), cfg.Display, cfg.XAuthority)
	if xauth != "" && os.Getenv("XAUTHORITY") == "" {
		if err := os.Setenv("XAUTHORITY", xauth); err != nil {
			return nil, err
		}
	}
	a.log().Debug("opening window backend", "display", display)
	return a.openBackend(display)
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usagef("unknown command %q for %q", args[0], cmd.CommandPath())
	}
	return nil
}
