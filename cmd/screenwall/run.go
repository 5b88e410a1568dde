package main

import (
	"os"
	"time"

	"github.com/1broseidon/screenwall/internal/displayenv"
	"github.com/1broseidon/screenwall/internal/launcher"
	"github.com/1broseidon/screenwall/internal/wall"
	"github.com/spf13/cobra"
)

type runOptions struct {
	dryRun   bool
	noLaunch bool
	timeout  time.Duration
}

func (o *runOptions) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.BoolVar(&o.dryRun, "dry-run", false, "Log the launch and placements without performing them")
	f.BoolVar(&o.noLaunch, "no-launch", false, "Never run the launcher; only wait for the windows")
	f.DurationVar(&o.timeout, "timeout", 0, "Wait timeout (overrides timeout_seconds)")
}

func (a *app) runCmd() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Wait for the target windows, launching them if needed, and place them",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runWall(cmd, opts)
		},
	}
	opts.bind(cmd)
	return cmd
}

func (a *app) runWall(cmd *cobra.Command, opts *runOptions) error {
	if cmd.Flags().Changed("timeout") && opts.timeout <= 0 {
		return usagef("--timeout must be positive")
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if opts.timeout > 0 {
		cfg.TimeoutSeconds = opts.timeout.Seconds()
	}

	backend, err := a.backend(cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	logger := a.log()
	runner := wall.NewRunner(wall.RunnerConfig{
		Config:  cfg,
		Backend: backend,
		Launcher: &launcher.Launcher{
			Command: cfg.Launcher.Command,
			Args:    cfg.Launcher.Args,
			Dir:     cfg.LauncherDir(),
			Env:     displayenv.Apply(os.Environ(), cfg.Display, cfg.XAuthority),
			Logger:  logger,
		},
		Logger:   logger,
		DryRun:   opts.dryRun,
		NoLaunch: opts.noLaunch,
	})

	logger.Info("screenwall starting", "target", cfg.TargetProcess, "placements", len(cfg.Placements))
	_, err = runner.Run(cmd.Context())
	return err
}
