package observability

import (
	"context"

	"github.com/emberflow/emberflow/pkg/domain"
)

// Merge combines multiple hook sets into one; every non-nil callback
// is invoked in order.
func Merge(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			for _, h := range hooks {
				if h.OnRunStart != nil {
					h.OnRunStart(ctx, e)
				}
			}
		},
		OnRunEnd: func(ctx context.Context, e *domain.RunEvent) {
			for _, h := range hooks {
				if h.OnRunEnd != nil {
					h.OnRunEnd(ctx, e)
				}
			}
		},
		OnStepStart: func(ctx context.Context, e *domain.StepEvent) {
			for _, h := range hooks {
				if h.OnStepStart != nil {
					h.OnStepStart(ctx, e)
				}
			}
		},
		OnStepEnd: func(ctx context.Context, e *domain.StepEvent) {
			for _, h := range hooks {
				if h.OnStepEnd != nil {
					h.OnStepEnd(ctx, e)
				}
			}
		},
	}
}
