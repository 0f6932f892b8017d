// Package runner compiles the generated kernel with an external compiler and
// reports its (fixed) performance metrics.
//
// The compiler is invoked as "<compiler> <src> -o <bin>" where bin is src
// with its extension replaced by ".out". When the compiler executable cannot
// be found the compile is skipped and the metrics are marked as mocked; any
// other compiler failure is returned to the caller. Running the compiled
// kernel is not implemented: the metrics are the same constants either way.
package runner
