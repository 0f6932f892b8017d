package exporter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/turboinfra/turboinfra/pkg/types"
)

func sampleReport() *types.Report {
	return &types.Report{
		StartedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Workload:  types.Workload{Ops: []string{"matmul", "relu", "matmul"}, Hardware: "A100"},
		Hot: []types.OpTrace{
			{Op: "matmul", LatencyMs: 1.2},
			{Op: "relu", LatencyMs: 1.1},
			{Op: "matmul", LatencyMs: 1.0},
		},
		Plan:        types.Plan{Target: "matmul", Strategy: "fuse_with_next"},
		Metrics:     types.KernelMetrics{LatencyMs: 0.42, GFLOPS: 123.4, Mocked: true},
		PeakGFLOPS:  312,
		Utilization: 123.4 / 312.0,
		State:       "degraded",
		Gates:       []types.GateResult{{Name: "low-util", Severity: "warning", Value: 39.5}},
	}
}

// parse decodes an exposition produced by Encode.
func parse(t *testing.T, text string) map[string]*dto.MetricFamily {
	t.Helper()
	var parser expfmt.TextParser
	mfs, err := parser.TextToMetricFamilies(strings.NewReader(text))
	if err != nil {
		t.Fatalf("parse exposition: %v\n%s", err, text)
	}
	return mfs
}

func TestEncode_Families(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, sampleReport()); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	mfs := parse(t, buf.String())

	single := map[string]float64{
		metricWorkloadOps:   3,
		metricKernelLatency: 0.42,
		metricKernelGFLOPS:  123.4,
		metricPeakGFLOPS:    312,
		metricUtilization:   123.4 / 312.0,
		metricMocked:        1,
		metricLastRun:       1767225600,
	}
	for name, want := range single {
		mf, ok := mfs[name]
		if !ok {
			t.Errorf("family %s missing", name)
			continue
		}
		if mf.GetType() != dto.MetricType_GAUGE {
			t.Errorf("%s type = %v, want GAUGE", name, mf.GetType())
		}
		m := mf.GetMetric()[0]
		if got := m.GetGauge().GetValue(); got != want {
			t.Errorf("%s = %v, want %v", name, got, want)
		}
		if hw := labelOf(m, "hardware"); hw != "A100" {
			t.Errorf("%s hardware label = %q, want A100", name, hw)
		}
	}

	hot := mfs[metricHotOpLatency].GetMetric()
	if len(hot) != 3 {
		t.Fatalf("hot op samples = %d, want 3", len(hot))
	}
	if labelOf(hot[0], "op") != "matmul" || labelOf(hot[0], "rank") != "1" {
		t.Errorf("first hot sample labels = %v", hot[0].GetLabel())
	}

	gates := mfs[metricGateFired].GetMetric()
	if len(gates) != 1 || labelOf(gates[0], "gate") != "low-util" {
		t.Errorf("gate samples = %v", gates)
	}
}

func TestEncode_OmitsEmptyFamilies(t *testing.T) {
	r := sampleReport()
	r.Hot = nil
	r.Gates = nil
	r.StartedAt = time.Time{}

	var buf bytes.Buffer
	if err := Encode(&buf, r); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	mfs := parse(t, buf.String())
	if _, ok := mfs[metricHotOpLatency]; ok {
		t.Error("hot op family present with no hot ops")
	}
	if _, ok := mfs[metricGateFired]; ok {
		t.Error("gate family present with no fired gates")
	}
	if _, ok := mfs[metricLastRun]; ok {
		t.Error("timestamp family present without a start time")
	}
}

func TestWriteTextfile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "collector", "turboinfra.prom")

	if err := WriteTextfile(path, sampleReport()); err != nil {
		t.Fatalf("WriteTextfile() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	mfs := parse(t, string(data))
	if _, ok := mfs[metricUtilization]; !ok {
		t.Error("utilization family missing from textfile")
	}

	// Rewrite and make sure no temp files are left behind.
	if err := WriteTextfile(path, sampleReport()); err != nil {
		t.Fatalf("second WriteTextfile() error: %v", err)
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("dir contains %v, want only turboinfra.prom", names)
	}
}

func labelOf(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}
