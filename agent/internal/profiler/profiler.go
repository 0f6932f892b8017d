package profiler

import (
	"context"
	"fmt"
	"sort"

	"github.com/turboinfra/turboinfra/agent/internal/config"
	"github.com/turboinfra/turboinfra/pkg/types"
)

// Source produces one trace record per op, in op order.
type Source interface {
	Trace(ctx context.Context, ops []string) ([]types.OpTrace, error)
	// Describe is the short console banner for this source.
	Describe() string
}

// Profiler combines a trace Source with the hot-op selection.
type Profiler struct {
	src    Source
	hotOps int
}

// New returns the Profiler configured by cfg.
func New(cfg config.ProfilerConfig) (*Profiler, error) {
	var src Source
	switch cfg.Source {
	case "", "synthetic":
		src = Synthetic{}
	case "prometheus":
		src = newPromSource(cfg)
	default:
		return nil, fmt.Errorf("profiler: unsupported source %q", cfg.Source)
	}
	hot := cfg.HotOps
	if hot <= 0 {
		hot = config.DefaultHotOps
	}
	return &Profiler{src: src, hotOps: hot}, nil
}

// Describe returns the console banner of the underlying source.
func (p *Profiler) Describe() string {
	return p.src.Describe()
}

// Profile traces ops and returns the full trace plus the hot list.
func (p *Profiler) Profile(ctx context.Context, ops []string) (trace, hot []types.OpTrace, err error) {
	trace, err = p.src.Trace(ctx, ops)
	if err != nil {
		return nil, nil, err
	}
	if len(trace) != len(ops) {
		return nil, nil, fmt.Errorf("profiler: source returned %d records for %d ops", len(trace), len(ops))
	}
	return trace, Hot(trace, p.hotOps), nil
}

// Hot returns up to n records of trace ordered by descending latency.
// Equal latencies keep their trace order. trace is not modified.
func Hot(trace []types.OpTrace, n int) []types.OpTrace {
	sorted := make([]types.OpTrace, len(trace))
	copy(sorted, trace)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LatencyMs > sorted[j].LatencyMs
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}
