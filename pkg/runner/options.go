package runner

import (
	"log/slog"
	"time"

	"github.com/aretw0/searchsim/pkg/domain"
	"github.com/aretw0/searchsim/pkg/ports"
)

// DefaultLockTTL bounds how long a claimed session stays locked.
const DefaultLockTTL = 5 * time.Minute

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithStore configures where reports are persisted.
func WithStore(store ports.ReportStore) Option {
	return func(r *Runner) {
		r.Store = store
	}
}

// WithLocker configures the lock used to claim sessions.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(r *Runner) {
		r.Locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(r *Runner) {
		r.LockTTL = ttl
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithLifecycleHooks passes observability hooks to every session.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Runner) {
		r.Hooks = hooks
	}
}

// WithResume skips sessions whose report is already stored.
func WithResume(resume bool) Option {
	return func(r *Runner) {
		r.Resume = resume
	}
}
