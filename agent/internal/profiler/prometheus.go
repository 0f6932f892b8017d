package profiler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/turboinfra/turboinfra/agent/internal/config"
	"github.com/turboinfra/turboinfra/pkg/types"
)

// opLabel is the label carrying the op name on the latency gauge.
const opLabel = "op"

// promSource reads per-op latencies from a Prometheus text exposition.
type promSource struct {
	endpoint string
	metric   string
	client   *http.Client
}

func newPromSource(cfg config.ProfilerConfig) *promSource {
	return &promSource{
		endpoint: cfg.Endpoint,
		metric:   cfg.Metric,
		client: &http.Client{
			Transport: &bearerRoundTripper{base: http.DefaultTransport, token: cfg.Token()},
			Timeout:   cfg.Timeout,
		},
	}
}

// Describe implements Source.
func (s *promSource) Describe() string {
	return "importing trace from " + s.endpoint
}

// Trace implements Source. Ops without a sample in the exposition fall back
// to their synthetic latency.
func (s *promSource) Trace(ctx context.Context, ops []string) ([]types.OpTrace, error) {
	mfs, err := s.fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("profiler: prometheus source %q: %w", s.endpoint, err)
	}

	latencies := opLatencies(mfs[s.metric])
	if len(latencies) == 0 {
		slog.Warn("profiler: latency metric absent, using synthetic trace",
			"endpoint", s.endpoint, "metric", s.metric)
	}

	trace := make([]types.OpTrace, len(ops))
	for i, op := range ops {
		lat, ok := latencies[op]
		if !ok {
			lat = syntheticLatency(i)
			slog.Debug("profiler: no sample for op, using synthetic latency",
				"op", op, "latency_ms", lat)
		}
		trace[i] = types.OpTrace{Op: op, LatencyMs: lat}
	}
	return trace, nil
}

// fetch loads the exposition from an http(s) URL or a local file.
func (s *promSource) fetch(ctx context.Context) (map[string]*dto.MetricFamily, error) {
	body, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return decodeExposition(body)
}

func (s *promSource) open(ctx context.Context) (io.ReadCloser, error) {
	if !strings.HasPrefix(s.endpoint, "http://") && !strings.HasPrefix(s.endpoint, "https://") {
		f, err := os.Open(s.endpoint)
		if err != nil {
			return nil, fmt.Errorf("open exposition: %w", err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", string(expfmt.NewFormat(expfmt.TypeTextPlain)))
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// decodeExposition parses Prometheus text from r. A parse error after some
// families were read is logged and the families read so far are kept.
func decodeExposition(r io.Reader) (map[string]*dto.MetricFamily, error) {
	var parser expfmt.TextParser
	mfs, err := parser.TextToMetricFamilies(r)
	switch {
	case err != nil && len(mfs) == 0:
		return nil, fmt.Errorf("parse exposition: %w", err)
	case err != nil:
		slog.Warn("profiler: exposition partially parsed", "families", len(mfs), "err", err)
	}
	return mfs, nil
}

// opLatencies maps the "op" label of every sample in mf to its value.
// Samples without the label are ignored; a repeated op keeps the last value.
func opLatencies(mf *dto.MetricFamily) map[string]float64 {
	out := make(map[string]float64)
	if mf == nil {
		return out
	}
	for _, m := range mf.GetMetric() {
		op := labelValue(m, opLabel)
		if op == "" {
			continue
		}
		switch {
		case m.Gauge != nil:
			out[op] = m.Gauge.GetValue()
		case m.Untyped != nil:
			out[op] = m.Untyped.GetValue()
		case m.Counter != nil:
			out[op] = m.Counter.GetValue()
		}
	}
	return out
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

// bearerRoundTripper adds an Authorization header when a token is set.
type bearerRoundTripper struct {
	base  http.RoundTripper
	token string
}

func (t *bearerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.token != "" {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+t.token)
	}
	return t.base.RoundTrip(req)
}
