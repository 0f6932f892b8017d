// Package exporter writes a run report as a Prometheus text exposition so a
// node_exporter textfile collector (or anything else reading the format) can
// pick up the latest result.
//
// convert.go maps types.Report to client_model metric families; textfile.go
// encodes them with expfmt and replaces the target file atomically (write to
// a temp file in the same directory, then rename).
package exporter
