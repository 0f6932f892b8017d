// Package compute scores a pipeline run.
//
// score.go provides the pure Score(Input) function: utilisation is achieved
// GFLOPS divided by the configured peak, mapped to a state
// (healthy ≥0.70, degraded ≥0.30, critical below, unknown without a peak).
//
// gate.go evaluates configured gate rules ("field op value") against the run
// report. Fired gates are reported; a critical one turns into ErrGateFailed
// at the CLI.
package compute
