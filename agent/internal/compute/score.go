package compute

// State constants returned by the score calculator.
const (
	StateHealthy  = "healthy"
	StateDegraded = "degraded"
	StateCritical = "critical"
	StateUnknown  = "unknown"
)

// Utilisation thresholds that map a ratio to a state.
const (
	ThresholdHealthy  = 0.70
	ThresholdDegraded = 0.30
)

// Input holds the values fed into the utilisation score.
type Input struct {
	// GFLOPS is the achieved kernel throughput.
	GFLOPS float64

	// PeakGFLOPS is the reference peak of the target hardware.
	// Zero or negative yields StateUnknown.
	PeakGFLOPS float64
}

// Output is the result of the score calculation.
type Output struct {
	// Utilization is GFLOPS / PeakGFLOPS. It is not clamped, so a kernel
	// beating the configured peak scores above 1.
	Utilization float64

	// State is derived from Utilization.
	// One of: "healthy", "degraded", "critical", "unknown".
	State string
}

// Score calculates the utilisation ratio of the kernel against the peak.
//
//	utilization = gflops / peak_gflops
//
// The result is deterministic for a given Input.
func Score(in Input) Output {
	if in.PeakGFLOPS <= 0 {
		return Output{State: StateUnknown}
	}
	util := in.GFLOPS / in.PeakGFLOPS
	return Output{
		Utilization: util,
		State:       stateFromUtilization(util),
	}
}

// stateFromUtilization maps a utilisation ratio to a named state.
func stateFromUtilization(util float64) string {
	switch {
	case util >= ThresholdHealthy:
		return StateHealthy
	case util >= ThresholdDegraded:
		return StateDegraded
	default:
		return StateCritical
	}
}
