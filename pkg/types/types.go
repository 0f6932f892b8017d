package types

import "time"

// UnknownHardware is reported when the workload does not name a target.
const UnknownHardware = "unknown"

// Workload is the parsed workload description.
type Workload struct {
	Ops      []string
	Hardware string
}

// OpTrace is one profiled operation.
type OpTrace struct {
	Op        string
	LatencyMs float64
}

// Plan is the chosen optimisation and the operation it targets.
type Plan struct {
	Target   string
	Strategy string
}

// KernelMetrics is what the runner measured (or pretended to measure).
type KernelMetrics struct {
	LatencyMs float64
	GFLOPS    float64
	// Mocked is true when the compile step was skipped.
	Mocked bool
}

// GateResult records one gate rule that fired for a run.
type GateResult struct {
	Name      string
	Condition string
	Severity  string
	Value     float64
}

// Report is the full outcome of one pipeline run.
type Report struct {
	RunID       string
	StartedAt   time.Time
	Workload    Workload
	Trace       []OpTrace
	Hot         []OpTrace
	Plan        Plan
	KernelPath  string
	Metrics     KernelMetrics
	PeakGFLOPS  float64
	Utilization float64
	State       string
	Gates       []GateResult
}

// Critical reports whether any fired gate has severity "critical".
func (r *Report) Critical() bool {
	for _, g := range r.Gates {
		if g.Severity == "critical" {
			return true
		}
	}
	return false
}
