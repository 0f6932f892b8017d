// Package config loads the agent configuration file (config.yaml).
//
// Top-level types:
//   - Config: log_level plus one section per pipeline stage
//   - ProfilerConfig: source (synthetic|prometheus), endpoint, metric,
//     hot_ops, timeout, token_env
//   - PlannerConfig, KernelConfig, RunnerConfig, ScorerConfig: strategy,
//     kernel output location, compiler and timeout, peak GFLOPS
//   - Gate: name, condition ("field op value"), severity
//   - ExportConfig: optional Prometheus textfile path
//
// Load(path) reads the YAML file, applies defaults (synthetic trace, 3 hot
// ops, fuse_with_next, nvcc, 312 peak GFLOPS), then validates enums and
// ranges. Default() is used as-is when the agent runs without --config.
package config
