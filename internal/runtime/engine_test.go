package runtime_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberflow/emberflow/internal/graph"
	"github.com/emberflow/emberflow/internal/runtime"
	"github.com/emberflow/emberflow/pkg/adapters/memory"
	"github.com/emberflow/emberflow/pkg/domain"
	"github.com/emberflow/emberflow/pkg/handlers"
	"github.com/emberflow/emberflow/pkg/registry"
)

// fakeClock advances instantly instead of sleeping, and records the
// total simulated pause.
type fakeClock struct {
	now   time.Time
	slept time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 9, 27, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.slept += d
	c.now = c.now.Add(d)
}

func newTestEngine(t *testing.T, opts ...runtime.EngineOption) (*runtime.Engine, *registry.Registry) {
	t.Helper()
	reg := registry.New()
	handlers.RegisterBuiltins(reg)
	opts = append([]runtime.EngineOption{runtime.WithClock(newFakeClock())}, opts...)
	return runtime.NewEngine(reg, opts...), reg
}

func failing(msg string) registry.StepFunc {
	return func(ctx context.Context, node domain.Node, index int) (map[string]any, error) {
		return nil, errors.New(msg)
	}
}

func TestExecute_EndToEnd(t *testing.T) {
	eng, _ := newTestEngine(t)
	flow := &domain.Flow{
		ID: "wf-e2e",
		Nodes: []domain.Node{
			{ID: "a", Type: domain.NodeTypeTrigger},
			{ID: "b", Type: domain.NodeTypeEmail},
		},
		Edges: []domain.Edge{{ID: "e1", Source: "a", Target: "b"}},
	}

	report := eng.Execute(context.Background(), flow, nil)

	assert.Equal(t, domain.RunStatusCompleted, report.Status)
	assert.Equal(t, 2, report.StepsCompleted)
	assert.Equal(t, 2, report.TotalSteps)
	require.Len(t, report.Results, 2)
	assert.Equal(t, domain.NodeTypeEmail, report.Results[1].Type)
	assert.True(t, report.Success)
	assert.Empty(t, report.Errors)
	assert.NotEmpty(t, report.ExecutionID)
}

func TestExecute_StopOnErrorHaltsRun(t *testing.T) {
	eng, reg := newTestEngine(t)
	reg.Register("flaky", 10*time.Millisecond, failing("boom"))

	flow := &domain.Flow{
		ID: "wf-halt",
		Nodes: []domain.Node{
			{ID: "n1", Type: domain.NodeTypeTrigger},
			{ID: "n2", Type: "flaky", StopOnError: true},
			{ID: "n3", Type: domain.NodeTypeEmail},
		},
	}

	report := eng.Execute(context.Background(), flow, nil)

	assert.Equal(t, 2, report.StepsCompleted)
	require.Len(t, report.Results, 2)
	assert.Equal(t, domain.RunStatusCompletedWithErrors, report.Status)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, 1, report.Errors[0].StepIndex)
}

func TestExecute_ErrorWithoutFlagContinues(t *testing.T) {
	eng, reg := newTestEngine(t)
	reg.Register("flaky", 10*time.Millisecond, failing("boom"))

	flow := &domain.Flow{
		ID: "wf-continue",
		Nodes: []domain.Node{
			{ID: "n1", Type: domain.NodeTypeTrigger},
			{ID: "n2", Type: "flaky"},
			{ID: "n3", Type: domain.NodeTypeEmail},
		},
	}

	report := eng.Execute(context.Background(), flow, nil)

	assert.Equal(t, 3, report.StepsCompleted)
	assert.Equal(t, domain.RunStatusCompletedWithErrors, report.Status)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, 1, report.Errors[0].StepIndex)
	assert.Equal(t, "flaky", report.Errors[0].Type)
	assert.False(t, report.Success)
}

func TestExecute_UnknownTypeAlwaysSucceeds(t *testing.T) {
	eng, _ := newTestEngine(t)
	flow := &domain.Flow{
		ID:    "wf-unknown",
		Nodes: []domain.Node{{ID: "n1", Type: "telepathy"}},
	}

	report := eng.Execute(context.Background(), flow, nil)

	assert.Equal(t, domain.RunStatusCompleted, report.Status)
	require.Len(t, report.Results, 1)
	assert.Equal(t, domain.StepStatusSuccess, report.Results[0].Status)
	assert.Equal(t, map[string]any{"processed": true}, report.Results[0].Result)
}

func TestExecute_PanicYieldsFailedReport(t *testing.T) {
	eng, reg := newTestEngine(t)
	reg.Register("explosive", 0, func(ctx context.Context, node domain.Node, index int) (map[string]any, error) {
		panic("wiring shorted")
	})

	flow := &domain.Flow{
		ID:    "wf-panic",
		Nodes: []domain.Node{{ID: "n1", Type: "explosive"}},
	}

	var report *domain.ExecutionReport
	require.NotPanics(t, func() {
		report = eng.Execute(context.Background(), flow, nil)
	})
	assert.Equal(t, domain.RunStatusFailed, report.Status)
	assert.Contains(t, report.Error, "wiring shorted")
}

func TestExecute_CyclicFlowStillRunsUnderWarnPolicy(t *testing.T) {
	eng, _ := newTestEngine(t)
	flow := &domain.Flow{
		ID: "wf-cycle",
		Nodes: []domain.Node{
			{ID: "a", Type: domain.NodeTypeTrigger, Dependencies: []string{"b"}},
			{ID: "b", Type: domain.NodeTypeEmail, Dependencies: []string{"a"}},
		},
	}

	report := eng.Execute(context.Background(), flow, nil)

	assert.Equal(t, domain.RunStatusCompleted, report.Status)
	assert.Equal(t, 2, report.StepsCompleted)
}

func TestExecute_CyclicFlowFailsUnderRejectPolicy(t *testing.T) {
	eng, _ := newTestEngine(t, runtime.WithCyclePolicy(graph.CycleReject))
	flow := &domain.Flow{
		ID: "wf-cycle-strict",
		Nodes: []domain.Node{
			{ID: "a", Dependencies: []string{"b"}},
			{ID: "b", Dependencies: []string{"a"}},
		},
	}

	report := eng.Execute(context.Background(), flow, nil)

	assert.Equal(t, domain.RunStatusFailed, report.Status)
	assert.Contains(t, report.Error, "circular dependency")
	assert.Zero(t, report.StepsCompleted)
}

func TestExecute_PlanRespectsDependencies(t *testing.T) {
	eng, _ := newTestEngine(t)
	flow := &domain.Flow{
		ID: "wf-plan",
		Nodes: []domain.Node{
			{ID: "notify", Name: "Notify", Type: domain.NodeTypeEmail, Dependencies: []string{"fetch"}},
			{ID: "fetch", Name: "Fetch", Type: domain.NodeTypeAPICall},
		},
	}

	report := eng.Execute(context.Background(), flow, nil)

	require.NotNil(t, report.Plan)
	assert.Equal(t, []string{"Fetch", "Notify"}, report.Plan.Steps)
	assert.Equal(t, domain.NodeTypeAPICall, report.Results[0].Type)
}

func TestExecute_AppendsHistory(t *testing.T) {
	history := memory.NewHistoryStore(10)
	eng, _ := newTestEngine(t, runtime.WithHistory(history))
	flow := &domain.Flow{
		ID:    "wf-history",
		Nodes: []domain.Node{{ID: "n1", Type: domain.NodeTypeTrigger}},
	}

	report := eng.Execute(context.Background(), flow, nil)

	stored, err := history.Get(context.Background(), report.ExecutionID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusCompleted, stored.Status)

	recent, err := history.Recent(context.Background(), "wf-history", 5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
}

func TestExecute_MetricsAndTiming(t *testing.T) {
	clock := newFakeClock()
	reg := registry.New()
	handlers.RegisterBuiltins(reg)
	eng := runtime.NewEngine(reg, runtime.WithClock(clock))

	flow := &domain.Flow{
		ID: "wf-timing",
		Nodes: []domain.Node{
			{ID: "call", Type: domain.NodeTypeAPICall}, // 0.2s
			{ID: "mail", Type: domain.NodeTypeEmail},   // 0.1s
		},
	}

	report := eng.Execute(context.Background(), flow, nil)

	assert.Equal(t, 300*time.Millisecond, clock.slept)
	assert.InDelta(t, 0.3, report.TotalExecutionTime, 1e-9)
	require.NotNil(t, report.Metrics)
	assert.InDelta(t, 0.15, report.Metrics.AvgStepTime, 1e-9)
	assert.InDelta(t, 0.2, report.Metrics.MaxStepTime, 1e-9)
	assert.Equal(t, "0.2s", report.Results[0].ExecutionTime)
	assert.Equal(t, "0.1s", report.Results[1].ExecutionTime)
}

func TestExecute_LifecycleHooks(t *testing.T) {
	var stepStarts, stepEnds, runStarts, runEnds int
	hooks := domain.LifecycleHooks{
		OnRunStart:  func(context.Context, *domain.RunEvent) { runStarts++ },
		OnRunEnd:    func(context.Context, *domain.RunEvent) { runEnds++ },
		OnStepStart: func(context.Context, *domain.StepEvent) { stepStarts++ },
		OnStepEnd:   func(context.Context, *domain.StepEvent) { stepEnds++ },
	}
	eng, _ := newTestEngine(t, runtime.WithLifecycleHooks(hooks))

	flow := &domain.Flow{
		ID: "wf-hooks",
		Nodes: []domain.Node{
			{ID: "a", Type: domain.NodeTypeTrigger},
			{ID: "b", Type: domain.NodeTypeEmail},
		},
	}
	eng.Execute(context.Background(), flow, nil)

	assert.Equal(t, 1, runStarts)
	assert.Equal(t, 1, runEnds)
	assert.Equal(t, 2, stepStarts)
	assert.Equal(t, 2, stepEnds)
}
