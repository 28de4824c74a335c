// Package registry maps node types to step handlers. Dispatch is a
// table lookup with a default fallback, never a type switch in the
// engine.
package registry

import (
	"context"
	"sync"
	"time"

	"github.com/emberflow/emberflow/pkg/domain"
)

// StepFunc is the signature of a step implementation. It receives the
// node and its index in the plan, and returns the result payload or
// an error. An error marks the step as failed; it is never propagated
// out of the run.
type StepFunc func(ctx context.Context, node domain.Node, index int) (map[string]any, error)

type entry struct {
	fn      StepFunc
	latency time.Duration
}

// Registry manages the available step handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]entry
	fallback entry
}

// New creates a registry whose fallback handler always succeeds with
// a minimal payload. Unrecognized node types therefore can't fail a
// run; only registered handlers can produce errors.
func New() *Registry {
	return &Registry{
		handlers: make(map[string]entry),
		fallback: entry{
			latency: 100 * time.Millisecond,
			fn: func(ctx context.Context, node domain.Node, index int) (map[string]any, error) {
				return map[string]any{"processed": true}, nil
			},
		},
	}
}

// Register adds a handler for a node type with its simulated latency.
// If a handler for the type exists, it is overwritten.
func (r *Registry) Register(nodeType string, latency time.Duration, fn StepFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[nodeType] = entry{fn: fn, latency: latency}
}

// SetDefault replaces the fallback handler for unrecognized types.
func (r *Registry) SetDefault(latency time.Duration, fn StepFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = entry{fn: fn, latency: latency}
}

// Resolve returns the handler and simulated latency for a node type,
// falling back to the default handler when the type is unknown.
func (r *Registry) Resolve(nodeType string) (StepFunc, time.Duration) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.handlers[nodeType]; ok {
		return e.fn, e.latency
	}
	return r.fallback.fn, r.fallback.latency
}

// Types returns the registered node types.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.handlers))
	for t := range r.handlers {
		types = append(types, t)
	}
	return types
}
