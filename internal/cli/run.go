// Package cli implements the commands of the searchsim binary.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/searchsim/internal/config"
	"github.com/aretw0/searchsim/pkg/domain"
	"github.com/aretw0/searchsim/pkg/observability"
	"github.com/aretw0/searchsim/pkg/policy"
	"github.com/aretw0/searchsim/pkg/runner"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	ConfigPath string
	Store      StoreOptions
	Resume     bool
	JSON       bool
	Debug      bool
}

// Run opens the configured store and runs the simulation file against it.
func Run(ctx context.Context, opts RunOptions, logger *slog.Logger, reg prometheus.Registerer, out io.Writer) error {
	backend, err := OpenStore(ctx, opts.Store)
	if err != nil {
		return err
	}
	defer backend.Close()
	return RunWith(ctx, opts, backend, logger, reg, out)
}

// RunWith loads the simulation file, runs every session and prints a summary.
// Metrics are registered with reg when it is not nil.
func RunWith(ctx context.Context, opts RunOptions, backend *Backend, logger *slog.Logger, reg prometheus.Registerer, out io.Writer) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	jobs, err := Jobs(cfg, policy.Defaults())
	if err != nil {
		return err
	}

	hooks, err := sessionHooks(cfg, reg, logger, opts.Debug)
	if err != nil {
		return err
	}

	r := runner.New(
		runner.WithStore(backend.Store),
		runner.WithLocker(backend.Locker),
		runner.WithResume(opts.Resume),
		runner.WithLifecycleHooks(hooks),
		runner.WithLogger(logger),
	)
	summary, runErr := r.Run(ctx, jobs)

	if err := printReports(out, summary.Reports, opts.JSON); err != nil {
		return errors.Join(runErr, err)
	}
	if !opts.JSON {
		fmt.Fprintf(out, "\n%d completed, %d skipped, %d failed\n", summary.Completed, summary.Skipped, summary.Failed)
	}
	return runErr
}

// sessionHooks labels metrics with the workflow of the first session; a
// simulation file normally compares configurations of one workflow.
func sessionHooks(cfg *config.Config, reg prometheus.Registerer, logger *slog.Logger, debug bool) (domain.LifecycleHooks, error) {
	var sets []domain.LifecycleHooks
	if reg != nil {
		m, err := observability.NewMetrics(reg)
		if err != nil {
			return domain.LifecycleHooks{}, fmt.Errorf("failed to register metrics: %w", err)
		}
		sets = append(sets, m.Hooks(cfg.Sessions[0].Workflow))
	}
	if debug {
		sets = append(sets, createDebugHooks(logger))
	}
	return observability.Combine(sets...), nil
}

func printReports(out io.Writer, reports []*domain.Report, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		for _, r := range reports {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SESSION\tWORKFLOW\tACTIONS\tQUERIES\tRELEVANT\tCOST\tREASON")
	for _, r := range reports {
		reason := r.Reason
		if r.Error != "" {
			reason = "error: " + r.Error
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%.1f/%.1f\t%s\n",
			r.SessionID, r.Workflow, len(r.Actions), len(r.Queries)+len(r.Utterances),
			r.RelevantDocuments+r.RelevantResponses, r.TotalCost, r.CostLimit, reason)
	}
	return tw.Flush()
}

// RunInBackground starts RunWith in a goroutine. The returned wait blocks
// until that run has returned, so callers can close the backend after it.
func RunInBackground(ctx context.Context, opts RunOptions, backend *Backend, logger *slog.Logger, reg prometheus.Registerer) (wait func()) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := RunWith(ctx, opts, backend, logger, reg, io.Discard); err != nil {
			logger.Error("background run failed", "error", err)
		}
	}()
	return func() { <-done }
}
