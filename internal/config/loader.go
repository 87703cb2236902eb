package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Backpressure policies for the progress transport.
const (
	BackpressureDropOldest = "drop_oldest"
	BackpressureBlock      = "block"
)

// Prior kinds accepted in the priors section.
const (
	PriorPiecewiseLinear = "piecewise_linear"
	PriorFromSamples     = "from_samples"
)

// Defaults applied by WithDefaults.
const (
	DefaultAddr           = ":8090"
	DefaultWorker         = "cpu:0"
	DefaultBufferSize     = 64
	DefaultBlockTimeoutMS = 50
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "console"
)

// PriorSpec declares a named prior transform.
type PriorSpec struct {
	Name string `json:"name" yaml:"name" toml:"name"`
	Kind string `json:"kind" yaml:"kind" toml:"kind"`
	// piecewise_linear
	U      []float64 `json:"u,omitempty" yaml:"u,omitempty" toml:"u,omitempty"`
	X      []float64 `json:"x,omitempty" yaml:"x,omitempty" toml:"x,omitempty"`
	Sorted bool      `json:"sorted,omitempty" yaml:"sorted,omitempty" toml:"sorted,omitempty"`
	// from_samples: inline values or files loaded by the samples package
	Samples        []float64 `json:"samples,omitempty" yaml:"samples,omitempty" toml:"samples,omitempty"`
	LogWeights     []float64 `json:"log_weights,omitempty" yaml:"log_weights,omitempty" toml:"log_weights,omitempty"`
	SamplesFile    string    `json:"samples_file,omitempty" yaml:"samples_file,omitempty" toml:"samples_file,omitempty"`
	LogWeightsFile string    `json:"log_weights_file,omitempty" yaml:"log_weights_file,omitempty" toml:"log_weights_file,omitempty"`
	Untracked      bool      `json:"untracked,omitempty" yaml:"untracked,omitempty" toml:"untracked,omitempty"`
}

// Config holds runtime parameters for the CLI and telemetry server.
// Zero values mean "unspecified" and are replaced by WithDefaults.
type Config struct {
	Addr           string      `json:"addr" yaml:"addr" toml:"addr"`
	Worker         string      `json:"worker" yaml:"worker" toml:"worker"`
	Quiet          bool        `json:"quiet" yaml:"quiet" toml:"quiet"`
	BufferSize     int         `json:"buffer_size" yaml:"buffer_size" toml:"buffer_size"`
	Backpressure   string      `json:"backpressure" yaml:"backpressure" toml:"backpressure"`
	BlockTimeoutMS int         `json:"block_timeout_ms" yaml:"block_timeout_ms" toml:"block_timeout_ms"`
	LogLevel       string      `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat      string      `json:"log_format" yaml:"log_format" toml:"log_format"`
	CORSOrigins    []string    `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
	Seed           uint64      `json:"seed" yaml:"seed" toml:"seed"`
	Priors         []PriorSpec `json:"priors" yaml:"priors" toml:"priors"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// WithDefaults returns a copy with unspecified fields filled in.
func (c Config) WithDefaults() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.Worker == "" {
		c.Worker = DefaultWorker
	}
	if c.BufferSize == 0 {
		c.BufferSize = DefaultBufferSize
	}
	if c.Backpressure == "" {
		c.Backpressure = BackpressureDropOldest
	}
	if c.BlockTimeoutMS == 0 {
		c.BlockTimeoutMS = DefaultBlockTimeoutMS
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}
	return c
}

// Validate rejects values WithDefaults cannot repair.
func (c Config) Validate() error {
	if c.BufferSize < 0 {
		return fmt.Errorf("buffer_size must be >= 0, got %d", c.BufferSize)
	}
	if c.BlockTimeoutMS < 0 {
		return fmt.Errorf("block_timeout_ms must be >= 0, got %d", c.BlockTimeoutMS)
	}
	switch c.Backpressure {
	case "", BackpressureDropOldest, BackpressureBlock:
	default:
		return fmt.Errorf("unknown backpressure policy %q", c.Backpressure)
	}
	switch c.LogFormat {
	case "", "console", "json":
	default:
		return fmt.Errorf("unknown log_format %q", c.LogFormat)
	}
	seen := make(map[string]bool, len(c.Priors))
	for i, p := range c.Priors {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("priors[%d]: name is required", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("priors[%d]: duplicate name %q", i, p.Name)
		}
		seen[p.Name] = true
		switch p.Kind {
		case PriorPiecewiseLinear, PriorFromSamples:
		default:
			return fmt.Errorf("priors[%d] %q: unknown kind %q", i, p.Name, p.Kind)
		}
	}
	return nil
}
