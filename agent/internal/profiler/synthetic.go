package profiler

import (
	"context"

	"github.com/turboinfra/turboinfra/pkg/types"
)

// Synthetic latency model: op i costs baseLatencyMs + i*stepLatencyMs.
const (
	baseLatencyMs = 1.0
	stepLatencyMs = 0.1
)

// Synthetic fabricates a trace without measuring anything.
type Synthetic struct{}

// Trace implements Source.
func (Synthetic) Trace(_ context.Context, ops []string) ([]types.OpTrace, error) {
	trace := make([]types.OpTrace, len(ops))
	for i, op := range ops {
		trace[i] = types.OpTrace{Op: op, LatencyMs: syntheticLatency(i)}
	}
	return trace, nil
}

// Describe implements Source.
func (Synthetic) Describe() string { return "generating fake trace" }

func syntheticLatency(i int) float64 {
	return baseLatencyMs + float64(i)*stepLatencyMs
}
