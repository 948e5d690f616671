package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "model: m1\nprompt: hi\nurl: http://h:1/api/generate\nruns: 3\nrepair_lines: true\nmock:\n  addr: :9999\n  token_delay_ms: 5\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Model != "m1" || cfg.Prompt != "hi" || cfg.URL != "http://h:1/api/generate" || cfg.Runs != 3 || !cfg.RepairLines {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.Mock.Addr != ":9999" || cfg.Mock.TokenDelayMS != 5 {
		t.Fatalf("unexpected mock cfg: %+v", cfg.Mock)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"model":"m2","request_timeout_sec":30,"history_db":"h.db","mock":{"cors_origins":["*"]}}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Model != "m2" || cfg.RequestTimeout() != 30*time.Second || cfg.HistoryDB != "h.db" || len(cfg.Mock.CORSOrigins) != 1 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "model=\"m3\"\nconnect_timeout_sec=2\nquiet=true\n[mock]\nreply=\"a b c\"\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Model != "m3" || cfg.ConnectTimeout() != 2*time.Second || !cfg.Quiet || cfg.Mock.Reply != "a b c" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error on empty path")
	}
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.txt", "not supported")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
	if _, err := Load(filepath.Join(d, "missing.yaml")); err == nil {
		t.Fatalf("expected missing file error")
	}
}

func TestWithDefaults(t *testing.T) {
	cfg := Config{RequestTimeoutSec: -4}.WithDefaults()
	if cfg.Model != DefaultModel || cfg.Prompt != DefaultPrompt || cfg.URL != DefaultURL {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Runs != 1 || cfg.ConnectTimeout() != DefaultConnectTimeout || cfg.RequestTimeout() != 0 {
		t.Fatalf("unexpected numeric defaults: %+v", cfg)
	}
	if cfg.LogLevel != "info" || cfg.Mock.Addr != DefaultMockAddr {
		t.Fatalf("unexpected misc defaults: %+v", cfg)
	}
	kept := Config{Model: "x", Runs: 4}.WithDefaults()
	if kept.Model != "x" || kept.Runs != 4 {
		t.Fatalf("explicit values overwritten: %+v", kept)
	}
}

func TestLoadMockLimitsAndMetricsFile(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "metrics_file: /tmp/bench.prom\nmock:\n  max_body_bytes: 2048\n  generate_timeout_ms: 1500\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MetricsFile != "/tmp/bench.prom" || cfg.Mock.MaxBodyBytes != 2048 || cfg.Mock.GenerateTimeout() != 1500*time.Millisecond {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}
