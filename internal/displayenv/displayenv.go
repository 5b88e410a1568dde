// Package displayenv resolves DISPLAY/XAUTHORITY for processes started
// outside a graphical session, e.g. from a login hook or systemd unit.
package displayenv

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

var (
	readDirFn     = os.ReadDir
	statFn        = os.Stat
	x11SocketsDir = "/tmp/.X11-unix"
)

// Resolve returns the display and Xauthority to use. Values already present
// in env win over the configured ones; a missing display falls back to the
// highest-numbered X socket and a missing Xauthority to ~/.Xauthority.
func Resolve(env []string, display, xauthority string) (string, string) {
	d := strings.TrimSpace(Lookup(env, "DISPLAY"))
	x := strings.TrimSpace(Lookup(env, "XAUTHORITY"))

	if d == "" {
		d = strings.TrimSpace(display)
	}
	if x == "" {
		x = strings.TrimSpace(xauthority)
	}
	if d == "" {
		d = detectDisplayFromSockets(x11SocketsDir)
	}
	if x == "" && d != "" {
		home := strings.TrimSpace(Lookup(env, "HOME"))
		if home == "" {
			if detectedHome, err := os.UserHomeDir(); err == nil {
				home = detectedHome
			}
		}
		if home != "" {
			candidate := filepath.Join(home, ".Xauthority")
			if _, err := statFn(candidate); err == nil {
				x = candidate
			}
		}
	}
	return d, x
}

// Apply returns env with the resolved DISPLAY and XAUTHORITY set.
func Apply(env []string, display, xauthority string) []string {
	d, x := Resolve(env, display, xauthority)
	out := append([]string(nil), env...)
	if d != "" {
		out = Upsert(out, "DISPLAY", d)
	}
	if x != "" {
		out = Upsert(out, "XAUTHORITY", x)
	}
	return out
}

func detectDisplayFromSockets(dir string) string {
	entries, err := readDirFn(dir)
	if err != nil {
		return ""
	}

	var displays []int
	for _, entry := range entries {
		name := entry.Name()
		if len(name) < 2 || name[0] != 'X' {
			continue
		}
		n, err := strconv.Atoi(name[1:])
		if err != nil {
			continue
		}
		displays = append(displays, n)
	}

	if len(displays) == 0 {
		return ""
	}
	sort.Ints(displays)
	return fmt.Sprintf(":%d", displays[len(displays)-1])
}

// Lookup returns the value of key in env, or "".
func Lookup(env []string, key string) string {
	prefix := key + "="
	for _, e := range env {
		if strings.HasPrefix(e, prefix) {
			return strings.TrimPrefix(e, prefix)
		}
	}
	return ""
}

// Upsert sets key in env, replacing an existing entry.
func Upsert(env []string, key string, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}
