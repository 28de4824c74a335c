package runtime

import "github.com/emberflow/emberflow/pkg/domain"

// ApplyImprovements stamps nodes with accepted optimization
// suggestions, keyed by step index. It is bookkeeping only: no node
// behavior changes, and indices outside the node list are ignored.
// The input slice is not mutated.
func ApplyImprovements(nodes []domain.Node, improvements []domain.Improvement) []domain.Node {
	optimized := make([]domain.Node, len(nodes))
	copy(optimized, nodes)

	for _, imp := range improvements {
		if imp.StepIndex < 0 || imp.StepIndex >= len(optimized) {
			continue
		}
		optimized[imp.StepIndex].Optimized = true
		optimized[imp.StepIndex].OptimizationApplied = imp.Suggestion
	}
	return optimized
}
