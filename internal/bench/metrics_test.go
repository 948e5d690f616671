package bench

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveUpdatesMetrics(t *testing.T) {
	okBefore := testutil.ToFloat64(runsTotal.WithLabelValues("ok"))
	errBefore := testutil.ToFloat64(runsTotal.WithLabelValues("connection_error"))
	tokBefore := testutil.ToFloat64(tokensTotal)

	Observe(Result{Completed: true, Summary: Summary{EvalCount: 40, EvalDuration: 2 * time.Second}}, nil)
	Observe(Result{}, &ConnectionError{URL: "u", Err: errors.New("refused")})

	if got := testutil.ToFloat64(runsTotal.WithLabelValues("ok")); got != okBefore+1 {
		t.Fatalf("ok runs=%v want %v", got, okBefore+1)
	}
	if got := testutil.ToFloat64(runsTotal.WithLabelValues("connection_error")); got != errBefore+1 {
		t.Fatalf("connection_error runs=%v want %v", got, errBefore+1)
	}
	if got := testutil.ToFloat64(tokensTotal); got != tokBefore+40 {
		t.Fatalf("tokens=%v want %v", got, tokBefore+40)
	}
	if got := testutil.ToFloat64(tokensPerSecond); got != 20 {
		t.Fatalf("tokens/sec gauge=%v", got)
	}
}

func TestWriteMetrics(t *testing.T) {
	Observe(Result{Completed: true, Summary: Summary{EvalCount: 10, EvalDuration: time.Second}}, nil)
	p := filepath.Join(t.TempDir(), "node", "llmbench.prom")
	if err := WriteMetrics(p); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	out := string(b)
	for _, want := range []string{`llmbench_bench_runs_total{outcome="ok"}`, "llmbench_bench_tokens_total", "llmbench_bench_tokens_per_second 10"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "go_goroutines") {
		t.Fatalf("process collectors leaked into bench metrics")
	}
}
