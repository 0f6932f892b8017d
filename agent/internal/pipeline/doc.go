// Package pipeline runs the six agent stages in order:
// parser → profiler → planner → kernelgen → runner → scorer,
// followed by gate evaluation and the optional textfile export.
//
// Each stage prints its human-readable progress lines to the console writer
// given to New; structured diagnostics go through slog. A Pipeline can be
// run repeatedly (watch mode) and holds no state between runs.
package pipeline
