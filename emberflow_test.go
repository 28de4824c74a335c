package emberflow_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberflow/emberflow"
	"github.com/emberflow/emberflow/pkg/domain"
	"github.com/emberflow/emberflow/pkg/registry"
)

type instantClock struct {
	now time.Time
}

func (c *instantClock) Now() time.Time { return c.now }

func (c *instantClock) Sleep(d time.Duration) { c.now = c.now.Add(d) }

func newEngine(opts ...emberflow.Option) *emberflow.Engine {
	opts = append([]emberflow.Option{emberflow.WithClock(&instantClock{now: time.Now()})}, opts...)
	return emberflow.New(opts...)
}

func TestEngine_ExecuteAndHistory(t *testing.T) {
	eng := newEngine()

	flow := &domain.Flow{
		ID:   "onboarding",
		Name: "User Onboarding",
		Nodes: []domain.Node{
			{ID: "start", Type: domain.NodeTypeTrigger},
			{ID: "create", Type: domain.NodeTypeAPICall, Dependencies: []string{"start"}},
			{ID: "welcome", Type: domain.NodeTypeEmail, Dependencies: []string{"create"}},
		},
	}

	report := eng.Execute(context.Background(), flow, map[string]any{"user": "ada"})

	assert.Equal(t, domain.RunStatusCompleted, report.Status)
	assert.Equal(t, 3, report.StepsCompleted)
	assert.True(t, report.Success)

	stored, err := eng.History().Get(context.Background(), report.ExecutionID)
	require.NoError(t, err)
	assert.Equal(t, report.Status, stored.Status)
}

func TestEngine_CustomHandler(t *testing.T) {
	eng := newEngine()
	eng.Registry().Register("webhook", 10*time.Millisecond,
		func(ctx context.Context, node domain.Node, index int) (map[string]any, error) {
			if node.Parameters["url"] == nil {
				return nil, errors.New("webhook url missing")
			}
			return map[string]any{"delivered": true}, nil
		})

	flow := &domain.Flow{
		ID: "hooks",
		Nodes: []domain.Node{
			{ID: "good", Type: "webhook", Parameters: map[string]any{"url": "https://x"}},
			{ID: "bad", Type: "webhook"},
		},
	}

	report := eng.Execute(context.Background(), flow, nil)

	assert.Equal(t, domain.RunStatusCompletedWithErrors, report.Status)
	assert.Equal(t, domain.StepStatusSuccess, report.Results[0].Status)
	assert.Equal(t, domain.StepStatusError, report.Results[1].Status)
}

func TestEngine_InjectedRegistrySkipsBuiltins(t *testing.T) {
	reg := registry.New()
	eng := newEngine(emberflow.WithRegistry(reg))

	assert.Empty(t, eng.Registry().Types())

	// Everything falls through to the default handler.
	flow := &domain.Flow{
		ID:    "bare",
		Nodes: []domain.Node{{ID: "a", Type: domain.NodeTypeAPICall}},
	}
	report := eng.Execute(context.Background(), flow, nil)
	assert.Equal(t, map[string]any{"processed": true}, report.Results[0].Result)
}

func TestEngine_StrictCycles(t *testing.T) {
	cyclic := &domain.Flow{
		ID: "loop",
		Nodes: []domain.Node{
			{ID: "a", Dependencies: []string{"b"}},
			{ID: "b", Dependencies: []string{"a"}},
		},
	}

	assert.NoError(t, newEngine().Validate(cyclic))

	strict := newEngine(emberflow.WithStrictCycles())
	err := strict.Validate(cyclic)
	assert.ErrorIs(t, err, domain.ErrCycleDetected)
}

func TestEngine_Translate(t *testing.T) {
	eng := newEngine()
	flow := &domain.Flow{
		ID:    "t",
		Nodes: []domain.Node{{ID: "call", Type: domain.NodeTypeAPICall}},
	}

	nodes := eng.Translate(flow)
	require.Len(t, nodes, 2)
	assert.Equal(t, "tab", nodes[0].Type)
	assert.Equal(t, "http request", nodes[1].Type)
}

func TestEngine_ApplyImprovements(t *testing.T) {
	eng := newEngine()
	nodes := []domain.Node{{ID: "a"}, {ID: "b"}}

	out := eng.ApplyImprovements(nodes, []domain.Improvement{{StepIndex: 0, Suggestion: "cache it"}})

	assert.True(t, out[0].Optimized)
	assert.Equal(t, "cache it", out[0].OptimizationApplied)
	assert.False(t, nodes[0].Optimized)
}
