package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"llmbench/internal/common/fsutil"
)

// Defaults used when neither the config file nor flags set a value.
const (
	DefaultModel          = "rnj-1:8b"
	DefaultPrompt         = "Write a python code for calculating Fibonacci sequence efficiently."
	DefaultURL            = "http://localhost:11434/api/generate"
	DefaultConnectTimeout = 5 * time.Second
	DefaultMockAddr       = ":11434"
)

// Config holds runtime parameters for the CLI.
// Zero values mean "unspecified" and are replaced by WithDefaults.
type Config struct {
	Model  string `json:"model" yaml:"model" toml:"model"`
	Prompt string `json:"prompt" yaml:"prompt" toml:"prompt"`
	URL    string `json:"url" yaml:"url" toml:"url"`
	// Runs repeats the benchmark sequentially.
	Runs int `json:"runs" yaml:"runs" toml:"runs"`
	// Timeouts in seconds; RequestTimeoutSec 0 disables the per-request limit.
	ConnectTimeoutSec int  `json:"connect_timeout_sec" yaml:"connect_timeout_sec" toml:"connect_timeout_sec"`
	RequestTimeoutSec int  `json:"request_timeout_sec" yaml:"request_timeout_sec" toml:"request_timeout_sec"`
	RepairLines       bool `json:"repair_lines" yaml:"repair_lines" toml:"repair_lines"`
	Quiet             bool `json:"quiet" yaml:"quiet" toml:"quiet"`
	// HistoryDB is a sqlite path where runs are recorded; empty disables history.
	HistoryDB string `json:"history_db" yaml:"history_db" toml:"history_db"`
	// MetricsFile receives the bench metrics in Prometheus text format.
	MetricsFile string `json:"metrics_file" yaml:"metrics_file" toml:"metrics_file"`
	LogLevel    string `json:"log_level" yaml:"log_level" toml:"log_level"`

	Mock MockConfig `json:"mock" yaml:"mock" toml:"mock"`
}

// MockConfig configures the built-in mock generation server.
type MockConfig struct {
	Addr         string   `json:"addr" yaml:"addr" toml:"addr"`
	Reply        string   `json:"reply" yaml:"reply" toml:"reply"`
	TokenDelayMS int      `json:"token_delay_ms" yaml:"token_delay_ms" toml:"token_delay_ms"`
	CORSOrigins  []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
	// MaxBodyBytes limits /api/generate request bodies; zero keeps 1 MiB.
	MaxBodyBytes int64 `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	// GenerateTimeoutMS bounds one generation; zero disables the limit.
	GenerateTimeoutMS int `json:"generate_timeout_ms" yaml:"generate_timeout_ms" toml:"generate_timeout_ms"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	p, err := fsutil.ExpandHome(path)
	if err != nil {
		return cfg, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(p)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// WithDefaults fills unspecified fields.
func (c Config) WithDefaults() Config {
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Prompt == "" {
		c.Prompt = DefaultPrompt
	}
	if c.URL == "" {
		c.URL = DefaultURL
	}
	if c.Runs <= 0 {
		c.Runs = 1
	}
	if c.ConnectTimeoutSec <= 0 {
		c.ConnectTimeoutSec = int(DefaultConnectTimeout / time.Second)
	}
	if c.RequestTimeoutSec < 0 {
		c.RequestTimeoutSec = 0
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Mock.Addr == "" {
		c.Mock.Addr = DefaultMockAddr
	}
	return c
}

// ConnectTimeout returns the dial timeout as a duration.
func (c Config) ConnectTimeout() time.Duration {
	return time.Duration(c.ConnectTimeoutSec) * time.Second
}

// GenerateTimeout returns the mock server's per-request limit; zero means none.
func (m MockConfig) GenerateTimeout() time.Duration {
	return time.Duration(m.GenerateTimeoutMS) * time.Millisecond
}

// RequestTimeout returns the per-request limit; zero means none.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}
