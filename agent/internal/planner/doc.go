// Package planner chooses the optimisation applied to the workload. The
// current planner is naive: it targets the hottest op with a fixed strategy.
//
// When the profiler reports no hot ops the plan targets UnknownTarget.
package planner
