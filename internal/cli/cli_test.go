package cli

import (
	"bytes"
	"context"
	"net"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"llmbench/internal/httpapi"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func mockServer(t *testing.T, reply string) string {
	t.Helper()
	ts := httptest.NewServer(httpapi.NewMux(&httpapi.EchoGenerator{Reply: reply, ModelNames: []string{"m"}}))
	t.Cleanup(ts.Close)
	return ts.URL + "/api/generate"
}

func TestBenchAgainstMock(t *testing.T) {
	url := mockServer(t, "hello streaming world")
	out, _, err := runCLI(t, "bench", "--url", url, "--model", "m", "--prompt", "hi")
	if err != nil {
		t.Fatalf("bench: %v", err)
	}
	for _, want := range []string{"Testing speed for m", "hello streaming world", "Result (m):", "Total Tokens: 3", "tokens/sec"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output:\n%s", want, out)
		}
	}
}

func TestBenchRunsAndHistory(t *testing.T) {
	url := mockServer(t, "a b")
	db := filepath.Join(t.TempDir(), "h.db")
	out, _, err := runCLI(t, "bench", "--url", url, "--model", "m", "--runs", "3", "--quiet", "--history", db)
	if err != nil {
		t.Fatalf("bench: %v", err)
	}
	if strings.Contains(out, "a b") {
		t.Fatalf("quiet mode echoed tokens:\n%s", out)
	}
	if !strings.Contains(out, "Runs        : 3 (3 rated)") {
		t.Fatalf("missing series summary:\n%s", out)
	}

	hist, _, err := runCLI(t, "history", "--db", db, "--model", "m")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if n := strings.Count(hist, " ok"); n != 3 {
		t.Fatalf("expected 3 ok rows, got %d:\n%s", n, hist)
	}
}

func TestBenchHTTPErrorExitsNonZero(t *testing.T) {
	url := mockServer(t, "x")
	out, _, err := runCLI(t, "bench", "--url", url, "--model", "unknown")
	code, shown := ExitCode(err)
	if code != 1 || !shown {
		t.Fatalf("expected exit 1, got %d (%v)", code, err)
	}
	if !strings.Contains(out, "status code 404") {
		t.Fatalf("missing status message:\n%s", out)
	}
}

func TestBenchConnectionErrorHint(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	out, _, err := runCLI(t, "bench", "--url", "http://"+addr+"/api/generate")
	if code, _ := ExitCode(err); code != 0 {
		t.Fatalf("connection failure should print the hint and exit 0, got %d (%v)", code, err)
	}
	if !strings.Contains(out, "ollama serve") {
		t.Fatalf("missing hint:\n%s", out)
	}
}

func TestBenchConfigFileWithFlagOverride(t *testing.T) {
	url := mockServer(t, "from config")
	p := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(p, []byte("model: wrong\nurl: "+url+"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, _, err := runCLI(t, "--config", p, "bench", "--model", "m")
	if err != nil {
		t.Fatalf("bench: %v\n%s", err, out)
	}
	if !strings.Contains(out, "from config") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestEvoPresetsAndRender(t *testing.T) {
	out, _, err := runCLI(t, "evo", "presets")
	if err != nil {
		t.Fatalf("presets: %v", err)
	}
	if !strings.Contains(out, "hill_climbing   power_law alpha=100 ratio=1") || !strings.Contains(out, "beam_search     beam_search beams=10") {
		t.Fatalf("unexpected presets:\n%s", out)
	}

	out, _, err = runCLI(t, "evo", "render", "--strategy", "power_law", "--format", "json")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, `"exploitation_ratio": 0.2`) || !strings.Contains(out, `"num_generations": 400`) {
		t.Fatalf("unexpected render:\n%s", out)
	}

	if _, _, err := runCLI(t, "evo", "render", "--strategy", "nope"); err == nil {
		t.Fatalf("expected unknown strategy error")
	}
}

func TestEvoRenderFileThenValidate(t *testing.T) {
	p := filepath.Join(t.TempDir(), "run.toml")
	if _, _, err := runCLI(t, "evo", "render", "--strategy", "beam_search", "-o", p); err != nil {
		t.Fatalf("render: %v", err)
	}
	out, _, err := runCLI(t, "evo", "validate", p)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, "ok (beam_search, 400 generations, 2 islands)") {
		t.Fatalf("unexpected validate output: %s", out)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("evo_config:\n  num_generations: 0\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, _, err := runCLI(t, "evo", "validate", bad); err == nil {
		t.Fatalf("expected validation failure")
	}
}

func TestExitCode(t *testing.T) {
	if code, shown := ExitCode(nil); code != 0 || !shown {
		t.Fatalf("nil: %d %v", code, shown)
	}
	if code, shown := ExitCode(&ExitError{Code: 3}); code != 3 || !shown {
		t.Fatalf("exit error: %d %v", code, shown)
	}
	if code, shown := ExitCode(context.Canceled); code != 1 || shown {
		t.Fatalf("plain error: %d %v", code, shown)
	}
}

func TestEvoRenderFromFileHonorsExplicitDefaultStrategy(t *testing.T) {
	p := filepath.Join(t.TempDir(), "run.yaml")
	if _, _, err := runCLI(t, "evo", "render", "--strategy", "beam_search", "-o", p); err != nil {
		t.Fatalf("render: %v", err)
	}

	out, _, err := runCLI(t, "evo", "render", "--from", p, "--strategy", "weighted")
	if err != nil {
		t.Fatalf("render --from: %v", err)
	}
	if !strings.Contains(out, "parent_selection_strategy: weighted") || strings.Contains(out, "num_beams") {
		t.Fatalf("explicit strategy ignored:\n%s", out)
	}

	out, _, err = runCLI(t, "evo", "render", "--from", p)
	if err != nil {
		t.Fatalf("render --from: %v", err)
	}
	if !strings.Contains(out, "parent_selection_strategy: beam_search") {
		t.Fatalf("file strategy should be kept without --strategy:\n%s", out)
	}
}

func TestBenchWritesMetricsFile(t *testing.T) {
	url := mockServer(t, "one two")
	p := filepath.Join(t.TempDir(), "bench.prom")
	if _, _, err := runCLI(t, "bench", "--url", url, "--model", "m", "--quiet", "--metrics-file", p); err != nil {
		t.Fatalf("bench: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("metrics file: %v", err)
	}
	if !strings.Contains(string(b), `llmbench_bench_runs_total{outcome="ok"}`) {
		t.Fatalf("unexpected metrics:\n%s", b)
	}
}
