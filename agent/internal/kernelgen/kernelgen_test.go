package kernelgen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/turboinfra/turboinfra/agent/internal/config"
	"github.com/turboinfra/turboinfra/pkg/types"
)

func TestGenerate_EmbedsTarget(t *testing.T) {
	for _, target := range []string{"matmul", "relu", "unknown_op"} {
		t.Run(target, func(t *testing.T) {
			cfg := config.KernelConfig{OutputDir: t.TempDir(), FileName: "generated_kernel.cu"}

			path, err := Generate(cfg, types.Plan{Target: target, Strategy: "fuse_with_next"})
			if err != nil {
				t.Fatalf("Generate() error: %v", err)
			}
			if want := filepath.Join(cfg.OutputDir, "generated_kernel.cu"); path != want {
				t.Errorf("path = %q, want %q", path, want)
			}

			src, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("read kernel: %v", err)
			}
			if want := "// pretend fused '" + target + "'"; !strings.Contains(string(src), want) {
				t.Errorf("kernel source missing %q:\n%s", want, src)
			}
			if !strings.Contains(string(src), "__global__ void fused_kernel") {
				t.Errorf("kernel source missing entry point:\n%s", src)
			}
		})
	}
}

func TestGenerate_OverwritesExisting(t *testing.T) {
	cfg := config.KernelConfig{OutputDir: t.TempDir(), FileName: "k.cu"}

	if _, err := Generate(cfg, types.Plan{Target: "first"}); err != nil {
		t.Fatalf("first Generate() error: %v", err)
	}
	path, err := Generate(cfg, types.Plan{Target: "second"})
	if err != nil {
		t.Fatalf("second Generate() error: %v", err)
	}
	src, _ := os.ReadFile(path)
	if strings.Contains(string(src), "'first'") || !strings.Contains(string(src), "'second'") {
		t.Errorf("kernel not overwritten:\n%s", src)
	}
}

func TestGenerate_CreatesOutputDir(t *testing.T) {
	cfg := config.KernelConfig{OutputDir: filepath.Join(t.TempDir(), "build", "kernels"), FileName: "k.cu"}
	if _, err := Generate(cfg, types.Plan{Target: "relu"}); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
}

func TestGenerate_UnwritableDir(t *testing.T) {
	// A regular file where the output directory should be.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	cfg := config.KernelConfig{OutputDir: filepath.Join(blocker, "out"), FileName: "k.cu"}
	if _, err := Generate(cfg, types.Plan{Target: "relu"}); err == nil {
		t.Fatal("expected error writing under a file, got nil")
	}
}

func TestPath_Defaults(t *testing.T) {
	if got := Path(config.KernelConfig{}); got != "generated_kernel.cu" {
		t.Errorf("Path(zero) = %q, want generated_kernel.cu", got)
	}
}
