// Package profiler turns a workload's op list into a profiling trace and
// picks the hot operations from it.
//
// Two trace sources exist:
//   - synthetic (synthetic.go): op i gets latency 1.0 + 0.1*i ms
//   - prometheus (prometheus.go): per-op latencies are read from a gauge
//     family in a Prometheus text exposition, fetched from a file or an
//     http(s) endpoint. Ops absent from the exposition keep their synthetic
//     latency, so the trace always has one record per op.
//
// Hot(trace, n) returns the n slowest records, descending, with ties kept in
// trace order.
package profiler
