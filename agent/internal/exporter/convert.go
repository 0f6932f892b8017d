package exporter

import (
	"sort"
	"strconv"

	dto "github.com/prometheus/client_model/go"
	"google.golang.org/protobuf/proto"

	"github.com/turboinfra/turboinfra/pkg/types"
)

// Metric family names.
const (
	metricWorkloadOps   = "turboinfra_workload_ops"
	metricHotOpLatency  = "turboinfra_hot_op_latency_ms"
	metricKernelLatency = "turboinfra_kernel_latency_ms"
	metricKernelGFLOPS  = "turboinfra_kernel_gflops"
	metricPeakGFLOPS    = "turboinfra_peak_gflops"
	metricUtilization   = "turboinfra_utilization_ratio"
	metricMocked        = "turboinfra_compile_mocked"
	metricGateFired     = "turboinfra_gate_fired"
	metricLastRun       = "turboinfra_last_run_timestamp_seconds"
)

// toFamilies converts a report into gauge families sorted by name. Every
// sample carries the workload's hardware label.
func toFamilies(r *types.Report) []*dto.MetricFamily {
	hw := label("hardware", r.Workload.Hardware)

	mocked := 0.0
	if r.Metrics.Mocked {
		mocked = 1
	}

	fams := []*dto.MetricFamily{
		gaugeFamily(metricWorkloadOps, "Number of ops in the workload description.",
			gauge(float64(len(r.Workload.Ops)), hw)),
		gaugeFamily(metricKernelLatency, "Latency of the generated kernel in milliseconds.",
			gauge(r.Metrics.LatencyMs, hw)),
		gaugeFamily(metricKernelGFLOPS, "Achieved throughput of the generated kernel.",
			gauge(r.Metrics.GFLOPS, hw)),
		gaugeFamily(metricPeakGFLOPS, "Reference peak throughput used for scoring.",
			gauge(r.PeakGFLOPS, hw)),
		gaugeFamily(metricUtilization, "Kernel GFLOPS divided by peak GFLOPS.",
			gauge(r.Utilization, hw)),
		gaugeFamily(metricMocked, "1 when the compile step was skipped.",
			gauge(mocked, hw)),
	}

	if !r.StartedAt.IsZero() {
		fams = append(fams, gaugeFamily(metricLastRun, "Unix time the run started.",
			gauge(float64(r.StartedAt.UnixNano())/1e9, hw)))
	}

	if len(r.Hot) > 0 {
		ms := make([]*dto.Metric, 0, len(r.Hot))
		for i, h := range r.Hot {
			ms = append(ms, gauge(h.LatencyMs, hw,
				label("op", h.Op),
				label("rank", strconv.Itoa(i+1)),
			))
		}
		fams = append(fams, gaugeFamily(metricHotOpLatency,
			"Latency of each hot op in milliseconds, rank 1 is the slowest.", ms...))
	}

	if len(r.Gates) > 0 {
		ms := make([]*dto.Metric, 0, len(r.Gates))
		for _, g := range r.Gates {
			ms = append(ms, gauge(1,
				label("gate", g.Name),
				hw,
				label("severity", g.Severity),
			))
		}
		fams = append(fams, gaugeFamily(metricGateFired, "Gates that fired on the last run.", ms...))
	}

	sort.Slice(fams, func(i, j int) bool { return fams[i].GetName() < fams[j].GetName() })
	return fams
}

func gaugeFamily(name, help string, ms ...*dto.Metric) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name:   proto.String(name),
		Help:   proto.String(help),
		Type:   dto.MetricType_GAUGE.Enum(),
		Metric: ms,
	}
}

// gauge builds one gauge sample. Labels must be passed sorted by name.
func gauge(v float64, labels ...*dto.LabelPair) *dto.Metric {
	return &dto.Metric{
		Label: labels,
		Gauge: &dto.Gauge{Value: proto.Float64(v)},
	}
}

func label(name, value string) *dto.LabelPair {
	return &dto.LabelPair{Name: proto.String(name), Value: proto.String(value)}
}
