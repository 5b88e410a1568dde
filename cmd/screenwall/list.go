package main

import (
	"fmt"
	"io"

	"github.com/1broseidon/screenwall/internal/discovery"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func (a *app) monitorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "monitors",
		Short: "List detected monitors in placement index order",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			backend, err := a.backend(cfg)
			if err != nil {
				return err
			}
			defer backend.Close()

			monitors, err := discovery.NewRegistry(backend, a.log()).ListMonitors()
			if err != nil {
				return err
			}
			return writeYAML(a.stdout, monitors)
		},
	}
}

func (a *app) windowsCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "windows",
		Short: "List visible titled windows of the target process",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			backend, err := a.backend(cfg)
			if err != nil {
				return err
			}
			defer backend.Close()

			enum := discovery.NewEnumerator(backend, a.log())
			var windows []discovery.WindowRecord
			if all {
				windows, err = enum.ListWindows()
			} else {
				windows, err = enum.ListMatchingWindows(cfg.TargetProcess)
			}
			if err != nil {
				return err
			}
			return writeYAML(a.stdout, windows)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Include windows of every process")
	return cmd
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}
