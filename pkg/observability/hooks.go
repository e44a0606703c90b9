package observability

import (
	"context"

	"github.com/aretw0/searchsim/pkg/domain"
)

// Combine merges hook sets; each callback runs in argument order.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range sets {
		out.OnSessionStart = chain(out.OnSessionStart, h.OnSessionStart)
		out.OnAction = chain(out.OnAction, h.OnAction)
		out.OnInfo = chain(out.OnInfo, h.OnInfo)
		out.OnSessionEnd = chain(out.OnSessionEnd, h.OnSessionEnd)
	}
	return out
}

func chain[E any](a, b func(context.Context, *E)) func(context.Context, *E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *E) {
		a(ctx, e)
		b(ctx, e)
	}
}
