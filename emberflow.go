package emberflow

import (
	"context"
	"log/slog"

	"github.com/emberflow/emberflow/internal/graph"
	"github.com/emberflow/emberflow/internal/logging"
	"github.com/emberflow/emberflow/internal/runtime"
	"github.com/emberflow/emberflow/pkg/adapters/memory"
	"github.com/emberflow/emberflow/pkg/domain"
	"github.com/emberflow/emberflow/pkg/handlers"
	"github.com/emberflow/emberflow/pkg/nodered"
	"github.com/emberflow/emberflow/pkg/ports"
	"github.com/emberflow/emberflow/pkg/registry"
)

// Version of the emberflow library.
var Version = "0.3.0"

// Engine is the high-level entry point for the emberflow library.
// It wraps the internal runtime and provides a simplified API for
// consumers.
type Engine struct {
	runtime     *runtime.Engine
	registry    *registry.Registry
	history     ports.HistoryStore
	hooks       domain.LifecycleHooks
	clock       ports.Clock
	logger      *slog.Logger
	cyclePolicy graph.CyclePolicy
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) { e.hooks = hooks }
}

// WithHistoryStore injects a custom run-history store, bypassing the
// default bounded in-memory store.
func WithHistoryStore(h ports.HistoryStore) Option {
	return func(e *Engine) { e.history = h }
}

// WithClock injects the clock used for simulated step latency.
func WithClock(c ports.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithRegistry injects a pre-populated handler registry. Built-in
// handlers are not added to an injected registry.
func WithRegistry(r *registry.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithStrictCycles makes cyclic dependency graphs fail validation
// instead of only logging a warning.
func WithStrictCycles() Option {
	return func(e *Engine) { e.cyclePolicy = graph.CycleReject }
}

// New initializes a new emberflow Engine. By default it uses the
// built-in handlers, a bounded in-memory history store, a real clock,
// and the lenient warn-only cycle policy.
func New(opts ...Option) *Engine {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.registry == nil {
		eng.registry = registry.New()
		handlers.RegisterBuiltins(eng.registry)
	}
	if eng.history == nil {
		eng.history = memory.NewHistoryStore(memory.DefaultHistoryBound)
	}

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLogger(eng.logger),
		runtime.WithHistory(eng.history),
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithCyclePolicy(eng.cyclePolicy),
		runtime.WithClock(eng.clock),
	}
	eng.runtime = runtime.NewEngine(eng.registry, runtimeOpts...)
	return eng
}

// Execute runs the flow and returns its execution report. The report
// is always well-formed; run-level failures surface as a failed
// status, never as a panic or error.
func (e *Engine) Execute(ctx context.Context, flow *domain.Flow, inputs map[string]any) *domain.ExecutionReport {
	return e.runtime.Execute(ctx, flow, inputs)
}

// Validate checks the flow's dependency graph against the engine's
// cycle policy.
func (e *Engine) Validate(flow *domain.Flow) error {
	return e.runtime.Validate(flow)
}

// Translate maps the flow onto the Node-RED flows format.
func (e *Engine) Translate(flow *domain.Flow) []nodered.FlowNode {
	return nodered.Translate(flow)
}

// ApplyImprovements stamps nodes with optimization suggestions keyed
// by step index. Bookkeeping only; out-of-range indices are ignored.
func (e *Engine) ApplyImprovements(nodes []domain.Node, improvements []domain.Improvement) []domain.Node {
	return runtime.ApplyImprovements(nodes, improvements)
}

// History returns the engine's run-history store.
func (e *Engine) History() ports.HistoryStore {
	return e.history
}

// Registry returns the handler registry, for registering custom step
// handlers.
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}
