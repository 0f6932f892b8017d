package workload

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/turboinfra/turboinfra/pkg/types"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		json string
		want types.Workload
	}{
		{
			name: "full description",
			json: `{"model": {"ops": ["matmul","relu","matmul"]}, "hardware": "A100"}`,
			want: types.Workload{Ops: []string{"matmul", "relu", "matmul"}, Hardware: "A100"},
		},
		{
			name: "empty object",
			json: `{}`,
			want: types.Workload{Ops: []string{}, Hardware: "unknown"},
		},
		{
			name: "model without ops",
			json: `{"model": {"name": "fno"}, "hardware": "H100"}`,
			want: types.Workload{Ops: []string{}, Hardware: "H100"},
		},
		{
			name: "null hardware",
			json: `{"model": {"ops": ["fft"]}, "hardware": null}`,
			want: types.Workload{Ops: []string{"fft"}, Hardware: "unknown"},
		},
		{
			name: "unknown fields ignored",
			json: `{"model": {"ops": ["conv2d"], "dtype": "fp16"}, "batch": 8}`,
			want: types.Workload{Ops: []string{"conv2d"}, Hardware: "unknown"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse([]byte(tc.json))
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			if diff := cmp.Diff(tc.want, *got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	for _, body := range []string{
		`{"model": `,
		`{"model": {"ops": "matmul"}}`,
		`{"hardware": 42}`,
		``,
	} {
		if _, err := Parse([]byte(body)); err == nil {
			t.Errorf("Parse(%q): expected error, got nil", body)
		}
	}
}

func TestLoad(t *testing.T) {
	path := writeWorkload(t, `{"model": {"ops": ["matmul"]}, "hardware": "A100"}`)

	w, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(w.Ops) != 1 || w.Ops[0] != "matmul" {
		t.Errorf("Ops = %v, want [matmul]", w.Ops)
	}
	if w.Hardware != "A100" {
		t.Errorf("Hardware = %q, want A100", w.Hardware)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

// writeWorkload writes content to a temp workload file and returns its path.
func writeWorkload(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "workload.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp workload: %v", err)
	}
	return path
}
