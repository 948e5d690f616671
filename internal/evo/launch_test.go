package evo

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestLaunchStreamsRunnerOutput(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	cfg, _ := CirclePacking("weighted")
	var logs bytes.Buffer
	p := filepath.Join(t.TempDir(), "run.json")
	err = Launch(context.Background(), LaunchOptions{
		Config:     cfg,
		ConfigPath: p,
		Command:    sh,
		Args:       []string{"-c", `echo "got $0"; echo "warn" 1>&2`},
		Logger:     zerolog.New(&logs),
	})
	if err != nil {
		t.Fatalf("launch: %v", err)
	}
	out := logs.String()
	if !strings.Contains(out, "got "+p) || !strings.Contains(out, `"stream":"stderr"`) {
		t.Fatalf("unexpected runner logs:\n%s", out)
	}
}

func TestLaunchFailures(t *testing.T) {
	cfg, _ := CirclePacking("weighted")
	if err := Launch(context.Background(), LaunchOptions{Config: cfg, ConfigPath: "x.yaml"}); !errors.Is(err, ErrNoCommand) {
		t.Fatalf("expected ErrNoCommand, got %v", err)
	}
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	err = Launch(context.Background(), LaunchOptions{
		Config:     cfg,
		ConfigPath: filepath.Join(t.TempDir(), "run.yaml"),
		Command:    sh,
		Args:       []string{"-c", "exit 3"},
		Logger:     zerolog.Nop(),
	})
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode() != 3 {
		t.Fatalf("expected exit code 3, got %v", err)
	}
}

func TestLaunchPassesAbsoluteConfigPath(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	tmp := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(tmp); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	if err := os.Mkdir("work", 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	cfg, _ := CirclePacking("weighted")
	err = Launch(context.Background(), LaunchOptions{
		Config:     cfg,
		ConfigPath: "run.yaml",
		Command:    sh,
		Args:       []string{"-c", `test -f "$0" || exit 7`},
		Dir:        "work",
		Logger:     zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("runner could not see the config: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmp, "run.yaml")); err != nil {
		t.Fatalf("config not written relative to the caller: %v", err)
	}
}

// syncBuffer guards a bytes.Buffer written from exec's copy goroutines.
type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func launchWithin(t *testing.T, d time.Duration, opts LaunchOptions) error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- Launch(context.Background(), opts) }()
	select {
	case err := <-done:
		return err
	case <-time.After(d):
		t.Fatalf("Launch still running after %s", d)
		return nil
	}
}

func TestLaunchDrainsOversizedLines(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	cfg, _ := CirclePacking("weighted")
	logs := &syncBuffer{}
	// A 2 MiB line followed by enough output to fill the pipe several times.
	script := `head -c 2097152 /dev/zero | tr '\0' a; echo; yes short | head -n 50000; echo last-line`
	err = launchWithin(t, 30*time.Second, LaunchOptions{
		Config:     cfg,
		ConfigPath: filepath.Join(t.TempDir(), "run.json"),
		Command:    sh,
		Args:       []string{"-c", script},
		Logger:     zerolog.New(logs),
	})
	if err != nil {
		t.Fatalf("launch: %v", err)
	}
	out := logs.String()
	if !strings.Contains(out, `"partial":true`) || !strings.Contains(out, "last-line") {
		t.Fatalf("runner output not fully logged (%d bytes)", len(out))
	}
}

func TestLaunchReturnsWhenChildHoldsOutput(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	cfg, _ := CirclePacking("weighted")
	err = launchWithin(t, 10*time.Second, LaunchOptions{
		Config:     cfg,
		ConfigPath: filepath.Join(t.TempDir(), "run.yaml"),
		Command:    sh,
		Args:       []string{"-c", "sleep 5 & echo started"},
		WaitDelay:  200 * time.Millisecond,
		Logger:     zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("launch: %v", err)
	}
}
