// Package workload parses the JSON workload description handed to the agent
// and, in watch mode, reloads it whenever the file changes.
//
// The input format is a JSON object with an optional nested model.ops array
// of operation names and an optional top-level hardware string:
//
//	{"model": {"ops": ["matmul", "relu"]}, "hardware": "A100"}
//
// Absent fields default to an empty op list and hardware "unknown".
package workload
