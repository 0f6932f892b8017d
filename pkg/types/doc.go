// Package types defines the records handed from one pipeline stage to the
// next: the parsed workload, the profiling trace, the optimisation plan, the
// kernel metrics and the final run report. They live for a single run and
// carry no behaviour beyond small accessors.
package types
