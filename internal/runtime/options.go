package runtime

import (
	"log/slog"

	"github.com/aretw0/searchsim/internal/logging"
)

type options struct {
	logger *slog.Logger
}

// Option configures the executor and the selectors.
type Option func(*options)

// WithLogger sets the diagnostic logger. Action accounting goes through the
// session's ActionLogger instead.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func newOptions(opts []Option) options {
	o := options{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
