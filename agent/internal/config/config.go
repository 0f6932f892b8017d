package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultLogLevel       = "info"
	DefaultTraceSource    = "synthetic"
	DefaultTraceMetric    = "turboinfra_op_latency_ms"
	DefaultHotOps         = 3
	DefaultProfileTimeout = 10 * time.Second
	DefaultStrategy       = "fuse_with_next"
	DefaultOutputDir      = "."
	DefaultKernelFile     = "generated_kernel.cu"
	DefaultCompiler       = "nvcc"
	DefaultPeakGFLOPS     = 312.0
)

// Config is the agent configuration.
// Fields map 1:1 to config.example.yaml.
type Config struct {
	// LogLevel is one of: debug | info | warn | error.
	LogLevel string `yaml:"log_level"`

	Profiler ProfilerConfig `yaml:"profiler"`
	Planner  PlannerConfig  `yaml:"planner"`
	Kernel   KernelConfig   `yaml:"kernel"`
	Runner   RunnerConfig   `yaml:"runner"`
	Scorer   ScorerConfig   `yaml:"scorer"`
	Gates    []Gate         `yaml:"gates"`
	Export   ExportConfig   `yaml:"export"`
}

// ProfilerConfig selects where the op latencies come from.
type ProfilerConfig struct {
	// Source is one of: synthetic | prometheus.
	Source string `yaml:"source"`

	// Endpoint is a file path or http(s) URL serving a Prometheus text
	// exposition. Required when Source == "prometheus".
	Endpoint string `yaml:"endpoint"`

	// Metric is the gauge family holding per-op latencies, labelled by "op".
	Metric string `yaml:"metric"`

	// HotOps is how many of the slowest ops are reported as hot.
	HotOps int `yaml:"hot_ops"`

	// Timeout bounds an http fetch of Endpoint.
	Timeout time.Duration `yaml:"timeout"`

	// TokenEnv names the environment variable holding a bearer token sent
	// with http fetches. Empty disables auth.
	TokenEnv string `yaml:"token_env"`
}

// Token returns the bearer token resolved from the environment.
func (p ProfilerConfig) Token() string {
	if p.TokenEnv == "" {
		return ""
	}
	return os.Getenv(p.TokenEnv)
}

// PlannerConfig holds planner settings.
type PlannerConfig struct {
	Strategy string `yaml:"strategy"`
}

// KernelConfig controls where the generated kernel source is written.
type KernelConfig struct {
	OutputDir string `yaml:"output_dir"`
	FileName  string `yaml:"file_name"`
}

// RunnerConfig controls the compile step.
type RunnerConfig struct {
	// Compiler is the executable name or path invoked as
	// "<compiler> <src> -o <bin>".
	Compiler string `yaml:"compiler"`

	// CompileTimeout bounds the compiler invocation. Zero means no timeout.
	CompileTimeout time.Duration `yaml:"compile_timeout"`
}

// ScorerConfig holds the reference peak used for the utilisation ratio.
type ScorerConfig struct {
	PeakGFLOPS float64 `yaml:"peak_gflops"`
}

// Gate defines a threshold rule evaluated against the run report.
type Gate struct {
	// Name is the human-readable gate identifier.
	Name string `yaml:"name"`

	// Condition is an expression like "utilization_pct < 20" or
	// "state == critical".
	Condition string `yaml:"condition"`

	// Severity is one of: critical | warning | info.
	Severity string `yaml:"severity"`
}

// ExportConfig configures the Prometheus textfile export.
type ExportConfig struct {
	// Textfile is the output path; empty disables the export.
	Textfile string `yaml:"textfile"`
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with sensible defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Default returns a Config pre-populated with default values. It is what the
// agent runs with when no config file is given.
func Default() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		Profiler: ProfilerConfig{
			Source:  DefaultTraceSource,
			Metric:  DefaultTraceMetric,
			HotOps:  DefaultHotOps,
			Timeout: DefaultProfileTimeout,
		},
		Planner: PlannerConfig{Strategy: DefaultStrategy},
		Kernel: KernelConfig{
			OutputDir: DefaultOutputDir,
			FileName:  DefaultKernelFile,
		},
		Runner: RunnerConfig{Compiler: DefaultCompiler},
		Scorer: ScorerConfig{PeakGFLOPS: DefaultPeakGFLOPS},
	}
}

// SlogLevel maps LogLevel to a slog.Level. Unknown values fall back to info;
// validate rejects them before this is reached.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate re-checks c, for callers that modify a loaded Config.
func (c *Config) Validate() error {
	if err := validate(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level: unknown level %q", cfg.LogLevel)
	}

	switch cfg.Profiler.Source {
	case "synthetic":
	case "prometheus":
		if cfg.Profiler.Endpoint == "" {
			return fmt.Errorf("profiler.endpoint is required for source prometheus")
		}
		if cfg.Profiler.Metric == "" {
			return fmt.Errorf("profiler.metric is required for source prometheus")
		}
	default:
		return fmt.Errorf("profiler.source: unknown source %q", cfg.Profiler.Source)
	}
	if cfg.Profiler.HotOps <= 0 {
		return fmt.Errorf("profiler.hot_ops must be positive")
	}
	if cfg.Profiler.Timeout <= 0 {
		return fmt.Errorf("profiler.timeout must be positive")
	}

	if cfg.Planner.Strategy == "" {
		return fmt.Errorf("planner.strategy is required")
	}
	if cfg.Kernel.FileName == "" {
		return fmt.Errorf("kernel.file_name is required")
	}
	if cfg.Runner.Compiler == "" {
		return fmt.Errorf("runner.compiler is required")
	}
	if cfg.Runner.CompileTimeout < 0 {
		return fmt.Errorf("runner.compile_timeout must not be negative")
	}
	if cfg.Scorer.PeakGFLOPS <= 0 {
		return fmt.Errorf("scorer.peak_gflops must be positive")
	}

	seen := make(map[string]bool, len(cfg.Gates))
	for i, g := range cfg.Gates {
		if g.Name == "" {
			return fmt.Errorf("gates[%d]: name is required", i)
		}
		if seen[g.Name] {
			return fmt.Errorf("gates[%d] %q: duplicate name", i, g.Name)
		}
		seen[g.Name] = true
		if len(strings.Fields(g.Condition)) != 3 {
			return fmt.Errorf("gates[%d] %q: condition must be \"field op value\"", i, g.Name)
		}
		switch g.Severity {
		case "critical", "warning", "info":
		default:
			return fmt.Errorf("gates[%d] %q: unknown severity %q", i, g.Name, g.Severity)
		}
	}
	return nil
}
