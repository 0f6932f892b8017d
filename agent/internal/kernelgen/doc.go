// Package kernelgen writes the placeholder accelerator kernel for a plan.
// The kernel body is a fixed elementwise multiply; only the comment naming
// the fused op varies with the plan.
//
// The file is written to <output_dir>/<file_name> from the kernel config,
// creating the directory when needed.
package kernelgen
