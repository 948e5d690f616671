package evo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"llmbench/internal/common/fsutil"
)

// DefaultWaitDelay bounds how long Launch keeps reading runner output after
// the runner exits or the context is cancelled.
const DefaultWaitDelay = 5 * time.Second

// maxLogLine caps a single log entry; longer output is logged in pieces.
const maxLogLine = 64 * 1024

// LaunchOptions describes how to hand a run configuration to the external runner.
type LaunchOptions struct {
	Config RunConfig
	// ConfigPath is where the rendered graph is written; its extension picks the format.
	ConfigPath string
	// Command and Args name the runner; the absolute config path is appended as the final argument.
	Command string
	Args    []string
	Env     map[string]string
	Dir     string
	// WaitDelay overrides DefaultWaitDelay.
	WaitDelay time.Duration
	Logger    zerolog.Logger
}

// ErrNoCommand is returned when no runner command is configured.
var ErrNoCommand = errors.New("no runner command configured")

// WriteConfig validates cfg, writes it to path in the format implied by the
// extension and returns the absolute path written.
func WriteConfig(cfg RunConfig, path string) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", fmt.Errorf("invalid run config: %w", err)
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return "", err
	}
	b, err := Render(cfg, format)
	if err != nil {
		return "", err
	}
	p, err := fsutil.PrepareFile(path)
	if err != nil {
		return "", err
	}
	if p, err = filepath.Abs(p); err != nil {
		return "", err
	}
	if err := os.WriteFile(p, b, 0o644); err != nil {
		return "", err
	}
	return p, nil
}

// Launch writes the configuration and runs the external command, streaming its
// output through the logger. It returns the command's exit error, if any.
func Launch(ctx context.Context, opts LaunchOptions) error {
	if opts.Command == "" {
		return ErrNoCommand
	}
	cfgPath, err := WriteConfig(opts.Config, opts.ConfigPath)
	if err != nil {
		return err
	}
	args := append(append([]string(nil), opts.Args...), cfgPath)
	cmd := exec.CommandContext(ctx, opts.Command, args...)
	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}
	cmd.Env = os.Environ()
	for k, v := range opts.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}
	// Children of the runner may keep the output pipes open after it exits.
	cmd.WaitDelay = opts.WaitDelay
	if cmd.WaitDelay <= 0 {
		cmd.WaitDelay = DefaultWaitDelay
	}

	log := opts.Logger.With().Str("runner", opts.Command).Logger()
	var mu sync.Mutex
	stdout := &lineLogger{log: log, name: "stdout", mu: &mu}
	stderr := &lineLogger{log: log, name: "stderr", mu: &mu}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	log.Info().Str("config", cfgPath).Strs("args", args).Msg("launching evolution runner")
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start runner: %w", err)
	}
	err = cmd.Wait()
	stdout.flush()
	stderr.flush()
	if errors.Is(err, exec.ErrWaitDelay) {
		log.Warn().Dur("wait_delay", cmd.WaitDelay).Msg("runner exited but its output was still open; stopped reading")
		err = nil
	}
	if err != nil {
		return fmt.Errorf("runner exited: %w", err)
	}
	log.Info().Msg("evolution runner finished")
	return nil
}

// lineLogger logs runner output one line per entry. It never refuses input,
// so the runner can not block on a full pipe.
type lineLogger struct {
	log  zerolog.Logger
	name string
	mu   *sync.Mutex
	buf  []byte
}

func (l *lineLogger) Write(p []byte) (int, error) {
	l.buf = append(l.buf, p...)
	for {
		idx := bytes.IndexByte(l.buf, '\n')
		if idx < 0 {
			break
		}
		l.emit(l.buf[:idx], false)
		l.buf = l.buf[idx+1:]
	}
	for len(l.buf) >= maxLogLine {
		l.emit(l.buf[:maxLogLine], true)
		l.buf = l.buf[maxLogLine:]
	}
	return len(p), nil
}

func (l *lineLogger) flush() {
	if len(l.buf) > 0 {
		l.emit(l.buf, false)
		l.buf = nil
	}
}

func (l *lineLogger) emit(line []byte, partial bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ev := l.log.Info().Str("stream", l.name)
	if partial {
		ev = ev.Bool("partial", true)
	}
	ev.Msg(string(bytes.TrimRight(line, "\r")))
}
