// Command turboinfra runs the agent pipeline on one workload description:
//
//	turboinfra [--config agent.yaml] [--watch] <workload_json>
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/turboinfra/turboinfra/agent/internal/config"
	"github.com/turboinfra/turboinfra/agent/internal/pipeline"
	"github.com/turboinfra/turboinfra/agent/internal/workload"
	"github.com/turboinfra/turboinfra/pkg/types"
)

const usageLine = "Usage: turboinfra <workload_json>"

// errUsage marks a wrong-arity invocation.
var errUsage = errors.New("usage")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// run executes the CLI with args and returns the process exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var (
		configPath string
		logLevel   string
		watch      bool
	)

	cmd := &cobra.Command{
		Use:   "turboinfra <workload_json>",
		Short: "Profile, plan, generate and score a kernel for a workload",
		Long: `turboinfra reads a JSON workload description and runs the agent pipeline:

  1. parser     read the op list and target hardware
  2. profiler   trace the ops and pick the hot ones
  3. planner    choose an optimisation for the hottest op
  4. kernelgen  write the placeholder kernel source
  5. runner     compile it (mocked when the compiler is missing)
  6. scorer     report utilisation against the peak GFLOPS`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errUsage
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				var err error
				if cfg, err = config.Load(configPath); err != nil {
					return err
				}
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			logger := slog.New(slog.NewJSONHandler(stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
			slog.SetDefault(logger)
			slog.Info("turboinfra starting", "workload", args[0], "config", configPath, "watch", watch)

			p, err := pipeline.New(cfg, stdout, stdout, stderr)
			if err != nil {
				return err
			}

			_, err = p.Run(cmd.Context(), args[0])
			if !watch {
				return err
			}
			if err != nil {
				slog.Error("pipeline run failed, waiting for workload changes", "err", err)
			}
			return watchWorkload(cmd.Context(), p, args[0], stdout)
		},
	}
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.Flags().StringVar(&configPath, "config", "", "path to agent config file (YAML)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug | info | warn | error (overrides config)")
	cmd.Flags().BoolVar(&watch, "watch", false, "re-run the pipeline whenever the workload file changes")

	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprintln(stdout, usageLine)
		return 1
	default:
		slog.Error("turboinfra failed", "err", err)
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
}

// watchWorkload re-runs the pipeline on every workload change until ctx is
// cancelled. Failed runs are logged and do not stop the watch.
func watchWorkload(ctx context.Context, p *pipeline.Pipeline, path string, stdout io.Writer) error {
	err := workload.Watch(ctx, path, func(w *types.Workload) {
		fmt.Fprintf(stdout, "\n[agent] workload changed, re-running …\n")
		if _, err := p.Rerun(ctx, w); err != nil {
			slog.Error("pipeline re-run failed", "err", err)
		}
	})
	if err != nil {
		return fmt.Errorf("watch workload: %w", err)
	}
	slog.Info("turboinfra shutting down")
	return nil
}
