package planner

import (
	"github.com/turboinfra/turboinfra/agent/internal/config"
	"github.com/turboinfra/turboinfra/pkg/types"
)

// UnknownTarget is planned when the profiler reported no hot ops.
const UnknownTarget = "unknown_op"

// Plan targets the first hot op with strategy. An empty strategy falls back
// to the default.
func Plan(hot []types.OpTrace, strategy string) types.Plan {
	if strategy == "" {
		strategy = config.DefaultStrategy
	}
	target := UnknownTarget
	if len(hot) > 0 {
		target = hot[0].Op
	}
	return types.Plan{Target: target, Strategy: strategy}
}
