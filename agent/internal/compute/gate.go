package compute

import (
	"errors"
	"strconv"
	"strings"

	"github.com/turboinfra/turboinfra/agent/internal/config"
	"github.com/turboinfra/turboinfra/pkg/types"
)

// ErrGateFailed is returned when a gate with severity "critical" fires.
var ErrGateFailed = errors.New("critical gate fired")

// Evaluate checks every gate against r and returns the ones that fired, in
// configuration order.
func Evaluate(gates []config.Gate, r *types.Report) []types.GateResult {
	var fired []types.GateResult
	for _, g := range gates {
		if ok, v := evalCondition(g.Condition, r); ok {
			fired = append(fired, types.GateResult{
				Name:      g.Name,
				Condition: g.Condition,
				Severity:  g.Severity,
				Value:     v,
			})
		}
	}
	return fired
}

// evalCondition evaluates a gate condition string against a run report.
//
// Supported expressions (field operator value):
//
//	utilization < 0.5
//	utilization_pct < 20
//	gflops < 100
//	latency_ms > 1
//	hot_latency_ms > 5
//	ops > 64
//	state == critical
//	target == unknown_op
//	hardware == unknown
//	mocked == true
//
// Returns (fires bool, triggering value float64).
// Returns (false, 0) if the expression cannot be parsed, the field is unknown
// or the field has no value for this run (hot_latency_ms without hot ops).
func evalCondition(cond string, r *types.Report) (bool, float64) {
	parts := strings.Fields(cond)
	if len(parts) != 3 {
		return false, 0
	}
	field, op, rhs := parts[0], parts[1], parts[2]

	switch field {
	case "state":
		return compareString(r.State, op, rhs), 0
	case "target":
		return compareString(r.Plan.Target, op, rhs), 0
	case "hardware":
		return compareString(r.Workload.Hardware, op, rhs), 0
	case "mocked":
		return compareString(strconv.FormatBool(r.Metrics.Mocked), op, rhs), 0
	}

	v, ok := numericField(field, r)
	if !ok {
		return false, 0
	}
	threshold, err := strconv.ParseFloat(rhs, 64)
	if err != nil {
		return false, 0
	}
	return compareFloat(v, op, threshold), v
}

// numericField maps a field name to its value in the report.
func numericField(field string, r *types.Report) (float64, bool) {
	switch field {
	case "utilization":
		return r.Utilization, true
	case "utilization_pct":
		return r.Utilization * 100, true
	case "gflops":
		return r.Metrics.GFLOPS, true
	case "latency_ms":
		return r.Metrics.LatencyMs, true
	case "peak_gflops":
		return r.PeakGFLOPS, true
	case "ops":
		return float64(len(r.Workload.Ops)), true
	case "hot_latency_ms":
		if len(r.Hot) == 0 {
			return 0, false
		}
		return r.Hot[0].LatencyMs, true
	default:
		return 0, false
	}
}

// compareString supports == and != on string fields.
func compareString(v, op, rhs string) bool {
	switch op {
	case "==":
		return v == rhs
	case "!=":
		return v != rhs
	default:
		return false
	}
}

// compareFloat applies a comparison operator to two float64 values.
func compareFloat(v float64, op string, threshold float64) bool {
	switch op {
	case ">":
		return v > threshold
	case ">=":
		return v >= threshold
	case "<":
		return v < threshold
	case "<=":
		return v <= threshold
	case "==":
		return v == threshold
	case "!=":
		return v != threshold
	default:
		return false
	}
}
