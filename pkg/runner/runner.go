package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/searchsim"
	"github.com/aretw0/searchsim/internal/logging"
	"github.com/aretw0/searchsim/pkg/domain"
	"github.com/aretw0/searchsim/pkg/ports"
)

// Job is one session of a batch. Build is called after the session is
// claimed and must return fresh policies.
type Job struct {
	ID    string
	Build func() ([]searchsim.Option, error)
}

// Summary counts what a batch did.
type Summary struct {
	Completed int
	Skipped   int
	Failed    int
	Reports   []*domain.Report
}

// Runner executes jobs sequentially.
type Runner struct {
	// Store receives every report, including those of failed sessions.
	// If nil, reports are only returned.
	Store ports.ReportStore

	// Locker claims a session before it runs. If nil, no locking happens.
	Locker  ports.DistributedLocker
	LockTTL time.Duration

	// Resume skips sessions whose report is already in Store.
	Resume bool

	Hooks  domain.LifecycleHooks
	Logger *slog.Logger
}

// New creates a Runner.
func New(opts ...Option) *Runner {
	r := &Runner{
		LockTTL: DefaultLockTTL,
		Logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes every job in order. A failed session is counted and the batch
// goes on; the returned error joins the failures. Cancelling ctx stops the
// batch before the next session.
func (r *Runner) Run(ctx context.Context, jobs []Job) (*Summary, error) {
	summary := &Summary{}
	var errs []error

	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		report, skipped, err := r.runOne(ctx, job)
		switch {
		case skipped:
			summary.Skipped++
			r.Logger.InfoContext(ctx, "session skipped", "session_id", job.ID)
			continue
		case err != nil:
			summary.Failed++
			errs = append(errs, fmt.Errorf("session %s: %w", job.ID, err))
		default:
			summary.Completed++
		}
		if report != nil {
			summary.Reports = append(summary.Reports, report)
		}
	}

	r.Logger.InfoContext(ctx, "batch finished",
		"completed", summary.Completed,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)
	return summary, errors.Join(errs...)
}

func (r *Runner) runOne(ctx context.Context, job Job) (*domain.Report, bool, error) {
	if r.Locker != nil {
		unlock, err := r.Locker.Lock(ctx, job.ID, r.LockTTL)
		if err != nil {
			return nil, false, fmt.Errorf("failed to claim session: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				r.Logger.WarnContext(ctx, "failed to release session lock", "session_id", job.ID, "error", err)
			}
		}()
	}

	if r.Resume && r.Store != nil {
		_, err := r.Store.Load(ctx, job.ID)
		if err == nil {
			return nil, true, nil
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return nil, false, fmt.Errorf("failed to check session: %w", err)
		}
	}

	opts, err := job.Build()
	if err != nil {
		return nil, false, fmt.Errorf("failed to build session: %w", err)
	}

	base := []searchsim.Option{
		searchsim.WithLogger(r.Logger),
		searchsim.WithLifecycleHooks(r.Hooks),
	}
	if r.Store != nil {
		base = append(base, searchsim.WithStore(r.Store))
	}
	opts = append(append(base, opts...), searchsim.WithSessionID(job.ID))

	sim, err := searchsim.New(opts...)
	if err != nil {
		return nil, false, err
	}
	report, err := sim.Run(ctx)
	return report, false, err
}
