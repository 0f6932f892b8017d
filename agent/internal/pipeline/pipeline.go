package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/turboinfra/turboinfra/agent/internal/compute"
	"github.com/turboinfra/turboinfra/agent/internal/config"
	"github.com/turboinfra/turboinfra/agent/internal/exporter"
	"github.com/turboinfra/turboinfra/agent/internal/kernelgen"
	"github.com/turboinfra/turboinfra/agent/internal/planner"
	"github.com/turboinfra/turboinfra/agent/internal/profiler"
	"github.com/turboinfra/turboinfra/agent/internal/runner"
	"github.com/turboinfra/turboinfra/agent/internal/workload"
	"github.com/turboinfra/turboinfra/pkg/types"
)

const parserBanner = "[parser] reading workload description …\n"

// Pipeline wires the stages together for one agent configuration.
type Pipeline struct {
	cfg      *config.Config
	out      io.Writer
	profiler *profiler.Profiler
	runner   *runner.Runner
	now      func() time.Time // injectable for deterministic tests
}

// New builds a Pipeline. Console lines go to out; the compiler's own output
// goes to compilerOut and compilerErr.
func New(cfg *config.Config, out, compilerOut, compilerErr io.Writer) (*Pipeline, error) {
	prof, err := profiler.New(cfg.Profiler)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	return &Pipeline{
		cfg:      cfg,
		out:      out,
		profiler: prof,
		runner:   runner.New(cfg.Runner, compilerOut, compilerErr),
		now:      time.Now,
	}, nil
}

// Run reads the workload at path and executes every stage on it.
func (p *Pipeline) Run(ctx context.Context, path string) (*types.Report, error) {
	p.printf(parserBanner)
	w, err := workload.Load(path)
	if err != nil {
		return nil, err
	}
	return p.Execute(ctx, w)
}

// Rerun executes every stage on a workload that was reloaded elsewhere (by
// the watch loop). The console output matches Run.
func (p *Pipeline) Rerun(ctx context.Context, w *types.Workload) (*types.Report, error) {
	p.printf(parserBanner)
	return p.Execute(ctx, w)
}

// Execute runs the stages after parsing on an already loaded workload.
//
// The returned error wraps compute.ErrGateFailed when a critical gate fired;
// the report is still returned in that case.
func (p *Pipeline) Execute(ctx context.Context, w *types.Workload) (*types.Report, error) {
	r := &types.Report{
		RunID:      uuid.NewString(),
		StartedAt:  p.now().UTC(),
		Workload:   *w,
		PeakGFLOPS: p.cfg.Scorer.PeakGFLOPS,
	}
	log := slog.With("run_id", r.RunID)
	log.Info("pipeline: run started", "ops", len(w.Ops), "hardware", w.Hardware)

	// 1) parser
	p.printf("[parser] ops: %d | target hw: %s\n\n", len(w.Ops), w.Hardware)

	// 2) profiler
	p.printf("[profiler] %s …\n", p.profiler.Describe())
	trace, hot, err := p.profiler.Profile(ctx, w.Ops)
	if err != nil {
		return nil, err
	}
	r.Trace, r.Hot = trace, hot
	for _, h := range hot {
		p.printf("  hot-op: %s  %.2f-ms\n", h.Op, h.LatencyMs)
	}
	p.printf("\n")
	log.Debug("pipeline: profiled", "trace", len(trace), "hot", len(hot))

	// 3) planner
	r.Plan = planner.Plan(hot, p.cfg.Planner.Strategy)
	p.printf("[planner] plan → optimise '%s' via %s\n\n", r.Plan.Target, r.Plan.Strategy)

	// 4) kernelgen
	kpath := kernelgen.Path(p.cfg.Kernel)
	p.printf("[kernelgen] writing placeholder kernel → %s\n", kpath)
	if r.KernelPath, err = kernelgen.Generate(p.cfg.Kernel, r.Plan); err != nil {
		return nil, err
	}

	// 5) runner
	p.printf("[runner] compiling with: %s\n", strings.Join(p.runner.Args(r.KernelPath), " "))
	if r.Metrics, err = p.runner.Run(ctx, r.KernelPath); err != nil {
		return nil, err
	}
	if r.Metrics.Mocked {
		p.printf("[runner] %s not found - skipping compile (mock run)\n\n", p.runner.Compiler())
	} else {
		p.printf("[runner] running compiled kernel … (fake)\n\n")
	}

	// 6) scorer
	score := compute.Score(compute.Input{GFLOPS: r.Metrics.GFLOPS, PeakGFLOPS: r.PeakGFLOPS})
	r.Utilization, r.State = score.Utilization, score.State
	p.printf("[scorer] achieved %s-GFLOPS → util %.1f%%\n\n",
		strconv.FormatFloat(r.Metrics.GFLOPS, 'f', -1, 64), r.Utilization*100)

	r.Gates = compute.Evaluate(p.cfg.Gates, r)
	for _, g := range r.Gates {
		p.printf("[gate] '%s' fired: %s (%s)\n", g.Name, g.Condition, g.Severity)
		log.Warn("pipeline: gate fired", "gate", g.Name, "severity", g.Severity, "value", g.Value)
	}

	if path := p.cfg.Export.Textfile; path != "" {
		if err := exporter.WriteTextfile(path, r); err != nil {
			return nil, err
		}
		p.printf("[exporter] wrote metrics → %s\n", path)
	}

	p.printf("[agent] DONE - demo finished with score: %.3f\n", r.Utilization)
	log.Info("pipeline: run finished",
		"took", p.now().Sub(r.StartedAt),
		"target", r.Plan.Target,
		"mocked", r.Metrics.Mocked,
		"utilization", r.Utilization,
		"state", r.State,
		"gates_fired", len(r.Gates),
	)

	if r.Critical() {
		return r, fmt.Errorf("pipeline: %w", compute.ErrGateFailed)
	}
	return r, nil
}

func (p *Pipeline) printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}
