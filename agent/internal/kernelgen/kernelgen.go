package kernelgen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/turboinfra/turboinfra/agent/internal/config"
	"github.com/turboinfra/turboinfra/pkg/types"
)

var kernelTmpl = template.Must(template.New("kernel").Parse(`
#include <cuda_runtime.h>
__global__ void fused_kernel(float* a, float* b, float* out) {
    int idx = blockIdx.x * blockDim.x + threadIdx.x;
    out[idx] = a[idx] * b[idx];  // pretend fused '{{.Target}}'
}
`))

// Render returns the kernel source for plan.
func Render(plan types.Plan) ([]byte, error) {
	var buf bytes.Buffer
	if err := kernelTmpl.Execute(&buf, plan); err != nil {
		return nil, fmt.Errorf("kernelgen: render: %w", err)
	}
	return buf.Bytes(), nil
}

// Path returns where the kernel source is written for cfg.
func Path(cfg config.KernelConfig) string {
	dir := cfg.OutputDir
	if dir == "" {
		dir = config.DefaultOutputDir
	}
	name := cfg.FileName
	if name == "" {
		name = config.DefaultKernelFile
	}
	return filepath.Join(dir, name)
}

// Generate renders the kernel for plan and writes it to Path(cfg), creating
// the output directory if needed. It returns the written path.
func Generate(cfg config.KernelConfig, plan types.Plan) (string, error) {
	src, err := Render(plan)
	if err != nil {
		return "", err
	}
	path := Path(cfg)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("kernelgen: create output dir: %w", err)
	}
	if err := os.WriteFile(path, src, 0o644); err != nil {
		return "", fmt.Errorf("kernelgen: write kernel: %w", err)
	}
	return path, nil
}
