// Package launcher runs the external command that opens the target
// application.
package launcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"sync"

	"github.com/1broseidon/screenwall/internal/logging"
)

// Error reports a launcher that could not start or exited non-zero.
// ExitCode is -1 when the process never ran to completion.
type Error struct {
	Command  string
	ExitCode int
	Err      error
}

func (e *Error) Error() string {
	if e.ExitCode >= 0 {
		return fmt.Sprintf("launcher %q exited with status %d", e.Command, e.ExitCode)
	}
	return fmt.Sprintf("launcher %q failed: %v", e.Command, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Launcher runs Command with Args and waits for it to exit.
type Launcher struct {
	Command string
	Args    []string
	Dir     string
	// Env replaces the inherited environment when non-nil.
	Env    []string
	Logger *slog.Logger
}

// Run starts the command and blocks until it exits. Output is forwarded to
// the logger line by line.
func (l *Launcher) Run(ctx context.Context) error {
	logger := l.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	cmd := exec.CommandContext(ctx, l.Command, l.Args...)
	cmd.Dir = l.Dir
	if l.Env != nil {
		cmd.Env = l.Env
	}
	stdout := &lineWriter{logger: logger, stream: "stdout"}
	stderr := &lineWriter{logger: logger, stream: "stderr"}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	logger.Info("running launcher", "command", l.Command, "args", l.Args, "dir", l.Dir)
	err := cmd.Run()
	stdout.Flush()
	stderr.Flush()

	if err == nil {
		logger.Debug("launcher finished")
		return nil
	}

	lerr := &Error{Command: l.describe(), ExitCode: -1, Err: err}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		lerr.ExitCode = exitErr.ExitCode()
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		lerr.ExitCode = -1
		lerr.Err = ctxErr
	}
	logger.Error("launcher failed", "error", lerr)
	return lerr
}

func (l *Launcher) describe() string {
	return strings.TrimSpace(l.Command + " " + strings.Join(l.Args, " "))
}

// lineWriter logs complete lines written to it.
type lineWriter struct {
	mu     sync.Mutex
	logger *slog.Logger
	stream string
	buf    bytes.Buffer
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// Incomplete line; keep it for the next write.
			w.buf.Reset()
			w.buf.WriteString(line)
			break
		}
		w.emit(line)
	}
	return len(p), nil
}

// Flush logs any trailing partial line.
func (w *lineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.buf.Len() > 0 {
		w.emit(w.buf.String())
		w.buf.Reset()
	}
}

func (w *lineWriter) emit(line string) {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return
	}
	w.logger.Info("launcher output", "stream", w.stream, "line", line)
}
