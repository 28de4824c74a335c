// Package runtime walks a flow's execution plan, dispatching each
// node to its handler and assembling the run report. Execution is
// simulated: steps run strictly sequentially within one run and the
// per-step pause comes from the injected clock.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/emberflow/emberflow/internal/graph"
	"github.com/emberflow/emberflow/internal/logging"
	"github.com/emberflow/emberflow/pkg/domain"
	"github.com/emberflow/emberflow/pkg/ports"
	"github.com/emberflow/emberflow/pkg/registry"
)

// Engine is the execution simulator. Each run is independent; shared
// state lives behind the injected history store, never on the engine.
type Engine struct {
	registry    *registry.Registry
	clock       ports.Clock
	history     ports.HistoryStore
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	cyclePolicy graph.CyclePolicy
}

// EngineOption configures the engine.
type EngineOption func(*Engine)

// WithClock injects the clock used for simulated step latency.
func WithClock(c ports.Clock) EngineOption {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithHistory injects the store finished reports are appended to.
func WithHistory(h ports.HistoryStore) EngineOption {
	return func(e *Engine) { e.history = h }
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) { e.hooks = hooks }
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithCyclePolicy selects how a cyclic dependency graph is handled
// before scheduling.
func WithCyclePolicy(p graph.CyclePolicy) EngineOption {
	return func(e *Engine) { e.cyclePolicy = p }
}

// NewEngine creates an engine dispatching through the given registry.
func NewEngine(reg *registry.Registry, opts ...EngineOption) *Engine {
	e := &Engine{
		registry: reg,
		clock:    realClock{},
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Validate checks the flow's dependency graph against the engine's
// cycle policy. Under the default warn policy it never fails.
func (e *Engine) Validate(flow *domain.Flow) error {
	return graph.Validate(flow, e.cyclePolicy, e.logger)
}

// Execute runs the flow's plan and returns the aggregate report.
// Failures never escape as errors: a step error is recorded in the
// report, and an unexpected run-level panic yields a failed report
// with the message surfaced. Callers always receive a well-formed
// report.
func (e *Engine) Execute(ctx context.Context, flow *domain.Flow, inputs map[string]any) (report *domain.ExecutionReport) {
	report = &domain.ExecutionReport{
		ExecutionID: "exec_" + uuid.NewString(),
		FlowID:      flow.ID,
		StartedAt:   e.clock.Now(),
		Status:      domain.RunStatusRunning,
		Results:     []domain.StepResult{},
		Inputs:      inputs,
	}

	defer func() {
		if r := recover(); r != nil {
			report.Status = domain.RunStatusFailed
			report.Error = fmt.Sprint(r)
			report.CompletedAt = e.clock.Now()
			e.logger.Error("flow execution failed", "flow_id", flow.ID, "err", report.Error)
		}
		e.finish(ctx, report)
	}()

	if err := e.Validate(flow); err != nil {
		report.Status = domain.RunStatusFailed
		report.Error = err.Error()
		report.CompletedAt = e.clock.Now()
		return report
	}

	plan := graph.Plan(flow, e.logger)
	report.TotalSteps = len(plan)
	report.Plan = planSummary(plan)

	e.emitRunStart(ctx, report)

	var maxStep, totalTime float64
	for i, node := range plan {
		e.emitStepStart(ctx, report, node, i)

		result := e.runStep(ctx, node, i)
		report.Results = append(report.Results, result)
		report.StepsCompleted = i + 1

		elapsed := latencySeconds(result.ExecutionTime)
		totalTime += elapsed
		if elapsed > maxStep {
			maxStep = elapsed
		}
		e.emitStepEnd(ctx, report, node, result, elapsed)

		if result.Status == domain.StepStatusError {
			report.Errors = append(report.Errors, result)
			if node.StopOnError {
				e.logger.Warn("step failed with stop_on_error, halting run",
					"flow_id", flow.ID, "node_id", node.ID, "step", i)
				break
			}
		}
	}

	if len(report.Errors) == 0 {
		report.Status = domain.RunStatusCompleted
	} else {
		report.Status = domain.RunStatusCompletedWithErrors
	}
	report.Success = len(report.Errors) == 0
	report.CompletedAt = e.clock.Now()
	report.TotalExecutionTime = totalTime
	if report.StepsCompleted > 0 {
		report.Metrics = &domain.RunMetrics{
			AvgStepTime: totalTime / float64(report.StepsCompleted),
			MaxStepTime: maxStep,
		}
	}
	return report
}

// runStep dispatches one node through the registry. Handler errors
// become error-status results; they are data, not control flow.
func (e *Engine) runStep(ctx context.Context, node domain.Node, index int) domain.StepResult {
	fn, latency := e.registry.Resolve(node.Type)
	e.clock.Sleep(latency)

	result := domain.StepResult{
		StepIndex:     index,
		StepName:      stepName(node, index),
		Type:          node.Type,
		Status:        domain.StepStatusSuccess,
		ExecutionTime: formatLatency(latency),
	}

	payload, err := fn(ctx, node, index)
	if err != nil {
		result.Status = domain.StepStatusError
		result.Result = map[string]any{"error": err.Error()}
		e.logger.Debug("step failed", "node_id", node.ID, "type", node.Type, "err", err)
		return result
	}
	result.Result = payload
	return result
}

func (e *Engine) finish(ctx context.Context, report *domain.ExecutionReport) {
	e.emitRunEnd(ctx, report)
	if e.history == nil {
		return
	}
	if err := e.history.Append(ctx, report); err != nil {
		e.logger.Warn("failed to append execution history", "execution_id", report.ExecutionID, "err", err)
	}
}

func (e *Engine) emitRunStart(ctx context.Context, report *domain.ExecutionReport) {
	if e.hooks.OnRunStart == nil {
		return
	}
	e.hooks.OnRunStart(ctx, &domain.RunEvent{
		Timestamp:   e.clock.Now(),
		ExecutionID: report.ExecutionID,
		FlowID:      report.FlowID,
		Status:      report.Status,
	})
}

func (e *Engine) emitRunEnd(ctx context.Context, report *domain.ExecutionReport) {
	if e.hooks.OnRunEnd == nil {
		return
	}
	e.hooks.OnRunEnd(ctx, &domain.RunEvent{
		Timestamp:   e.clock.Now(),
		ExecutionID: report.ExecutionID,
		FlowID:      report.FlowID,
		Status:      report.Status,
	})
}

func (e *Engine) emitStepStart(ctx context.Context, report *domain.ExecutionReport, node domain.Node, index int) {
	if e.hooks.OnStepStart == nil {
		return
	}
	e.hooks.OnStepStart(ctx, &domain.StepEvent{
		Timestamp:   e.clock.Now(),
		ExecutionID: report.ExecutionID,
		NodeID:      node.ID,
		NodeType:    node.Type,
		StepIndex:   index,
	})
}

func (e *Engine) emitStepEnd(ctx context.Context, report *domain.ExecutionReport, node domain.Node, result domain.StepResult, elapsed float64) {
	if e.hooks.OnStepEnd == nil {
		return
	}
	e.hooks.OnStepEnd(ctx, &domain.StepEvent{
		Timestamp:   e.clock.Now(),
		ExecutionID: report.ExecutionID,
		NodeID:      node.ID,
		NodeType:    node.Type,
		StepIndex:   result.StepIndex,
		Status:      result.Status,
		Elapsed:     elapsed,
	})
}

func stepName(node domain.Node, index int) string {
	if node.Name != "" {
		return node.Name
	}
	return fmt.Sprintf("Step %d", index+1)
}

func planSummary(plan []domain.Node) *domain.ExecutionPlan {
	steps := make([]string, len(plan))
	for i, n := range plan {
		steps[i] = stepName(n, i)
	}
	return &domain.ExecutionPlan{Steps: steps}
}

func formatLatency(d time.Duration) string {
	return fmt.Sprintf("%gs", d.Seconds())
}

func latencySeconds(s string) float64 {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d.Seconds()
}
