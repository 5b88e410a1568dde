package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/1broseidon/screenwall/internal/pattern"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

const (
	DefaultTargetProcess  = "msedge.exe"
	DefaultTimeoutSeconds = 3
	DefaultPollIntervalMS = 100
	DefaultLogLevel       = "info"
)

// PlacementRule maps a title glob to a monitor index.
type PlacementRule struct {
	Pattern string
	Monitor int
}

// PlacementRules keeps rules in configuration order; the first rule whose
// pattern matches a title wins. In YAML it is a mapping:
//
//	placements:
//	  "TI * Dashboards - Grafana": 1
//	  "NOC SCC: Dashboard": 0
type PlacementRules []PlacementRule

// Patterns returns the rule patterns in order.
func (r PlacementRules) Patterns() []string {
	out := make([]string, 0, len(r))
	for _, rule := range r {
		out = append(out, rule.Pattern)
	}
	return out
}

func (r *PlacementRules) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*r = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*r = nil
			return nil
		}
	case yaml.MappingNode:
		out := make(PlacementRules, 0, len(value.Content)/2)
		seen := make(map[string]struct{})
		for i := 0; i+1 < len(value.Content); i += 2 {
			keyNode := value.Content[i]
			valNode := value.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: placement pattern must be a string", keyNode.Line)
			}
			if _, dup := seen[keyNode.Value]; dup {
				return fmt.Errorf("line %d: duplicate placement pattern %q", keyNode.Line, keyNode.Value)
			}
			seen[keyNode.Value] = struct{}{}

			var monitor int
			if err := valNode.Decode(&monitor); err != nil {
				return fmt.Errorf("line %d: monitor index for %q must be an integer", valNode.Line, keyNode.Value)
			}
			out = append(out, PlacementRule{Pattern: keyNode.Value, Monitor: monitor})
		}
		*r = out
		return nil
	}
	return fmt.Errorf("placements must be a mapping of title pattern to monitor index")
}

func (r PlacementRules) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, rule := range r {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: rule.Pattern, Style: yaml.DoubleQuotedStyle},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprintf("%d", rule.Monitor)},
		)
	}
	return node, nil
}

// LauncherConfig describes the command that starts the target application.
type LauncherConfig struct {
	// Enabled defaults to true; see IsEnabled.
	Enabled *bool    `yaml:"enabled,omitempty"`
	Command string   `yaml:"command"`
	Args    []string `yaml:"args,omitempty"`
	// Dir is the working directory. Relative paths and the empty default
	// resolve against the directory of the config file.
	Dir string `yaml:"dir,omitempty"`
}

// IsEnabled returns the effective value, defaulting to true.
func (l *LauncherConfig) IsEnabled() bool {
	if l == nil || l.Enabled == nil {
		return true
	}
	return *l.Enabled
}

// Config holds the application configuration.
type Config struct {
	TargetProcess  string         `yaml:"target_process"`
	TimeoutSeconds float64        `yaml:"timeout_seconds"`
	PollIntervalMS int            `yaml:"poll_interval_ms"`
	Placements     PlacementRules `yaml:"placements"`
	Launcher       LauncherConfig `yaml:"launcher"`
	LogLevel       string         `yaml:"log_level"`
	Display        string         `yaml:"display,omitempty"`
	XAuthority     string         `yaml:"xauthority,omitempty"`

	// BaseDir is the directory of the loaded config file.
	BaseDir string `yaml:"-"`
}

func DefaultConfig() *Config {
	return &Config{
		TargetProcess:  DefaultTargetProcess,
		TimeoutSeconds: DefaultTimeoutSeconds,
		PollIntervalMS: DefaultPollIntervalMS,
		Placements: PlacementRules{
			{Pattern: "TI * Dashboards - Grafana", Monitor: 1},
			{Pattern: "NOC SCC: Dashboard", Monitor: 0},
		},
		Launcher: defaultLauncher(runtime.GOOS),
		LogLevel: DefaultLogLevel,
	}
}

func defaultLauncher(goos string) LauncherConfig {
	if goos == "windows" {
		return LauncherConfig{
			Command: "powershell",
			Args:    []string{"-ExecutionPolicy", "Bypass", "-File", "open_browser.ps1"},
		}
	}
	return LauncherConfig{
		Command: "sh",
		Args:    []string{"open_browser.sh"},
	}
}

// Timeout is the wait deadline measured from the start of a wait.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds * float64(time.Second))
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// LauncherDir resolves the launcher working directory.
func (c *Config) LauncherDir() string {
	dir := c.Launcher.Dir
	if dir != "" && filepath.IsAbs(dir) {
		return dir
	}
	if c.BaseDir == "" {
		return dir
	}
	return filepath.Join(c.BaseDir, dir)
}

// Save writes the configuration as YAML to path.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks the effective configuration and reports every problem.
func (c *Config) Validate() error {
	var result *multierror.Error
	add := func(path string, format string, args ...any) {
		result = multierror.Append(result, &ValidationError{Path: path, Err: fmt.Errorf(format, args...)})
	}

	if strings.TrimSpace(c.TargetProcess) == "" {
		add("target_process", "target_process is required")
	}
	if c.TimeoutSeconds <= 0 {
		add("timeout_seconds", "timeout_seconds must be > 0")
	}
	if c.PollIntervalMS <= 0 {
		add("poll_interval_ms", "poll_interval_ms must be > 0")
	}
	if len(c.Placements) == 0 {
		add("placements", "at least one placement is required")
	}
	for _, rule := range c.Placements {
		path := "placements." + rule.Pattern
		if rule.Pattern == "" {
			add("placements", "placement pattern must not be empty")
			continue
		}
		if _, err := pattern.Compile(rule.Pattern); err != nil {
			add(path, "%v", err)
		}
		if rule.Monitor < 0 {
			add(path, "monitor index must be >= 0")
		}
	}
	if c.Launcher.IsEnabled() && strings.TrimSpace(c.Launcher.Command) == "" {
		add("launcher.command", "launcher.command is required when the launcher is enabled")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		add("log_level", "log_level must be one of: debug, info, warn, error")
	}

	return result.ErrorOrNil()
}
