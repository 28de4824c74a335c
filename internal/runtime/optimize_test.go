package runtime_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberflow/emberflow/internal/runtime"
	"github.com/emberflow/emberflow/pkg/domain"
)

func TestApplyImprovements(t *testing.T) {
	nodes := []domain.Node{
		{ID: "a", Type: domain.NodeTypeTrigger},
		{ID: "b", Type: domain.NodeTypeAPICall},
		{ID: "c", Type: domain.NodeTypeEmail},
	}

	improvements := []domain.Improvement{
		{StepIndex: 1, Suggestion: "batch the API calls"},
		{StepIndex: -1, Suggestion: "ignored"},
		{StepIndex: 99, Suggestion: "also ignored"},
	}

	optimized := runtime.ApplyImprovements(nodes, improvements)

	require.Len(t, optimized, 3)
	assert.False(t, optimized[0].Optimized)
	assert.True(t, optimized[1].Optimized)
	assert.Equal(t, "batch the API calls", optimized[1].OptimizationApplied)
	assert.False(t, optimized[2].Optimized)

	// The input slice is untouched.
	assert.False(t, nodes[1].Optimized)
	assert.Empty(t, nodes[1].OptimizationApplied)
}

func TestApplyImprovements_Empty(t *testing.T) {
	assert.Empty(t, runtime.ApplyImprovements(nil, []domain.Improvement{{StepIndex: 0, Suggestion: "x"}}))

	nodes := []domain.Node{{ID: "a"}}
	same := runtime.ApplyImprovements(nodes, nil)
	require.Len(t, same, 1)
	assert.False(t, same[0].Optimized)
}
