package graph

import (
	"log/slog"

	"github.com/emberflow/emberflow/pkg/domain"
)

// Plan produces the ordered node sequence a run will walk. Nodes with
// declared dependencies are ordered with Kahn's algorithm so every
// dependency runs before its dependents; ties keep the flow's listed
// order. When the dependency graph is cyclic the listed order is used
// as-is (the cycle itself is Validate's concern, not the planner's).
func Plan(flow *domain.Flow, logger *slog.Logger) []domain.Node {
	deps := Dependencies(flow.Nodes)
	if HasCycle(deps) {
		logger.Warn("cyclic dependency graph, falling back to listed order", "flow_id", flow.ID)
		return flow.Nodes
	}

	byKey := make(map[string]domain.Node, len(flow.Nodes))
	indeg := make(map[string]int, len(flow.Nodes))
	dependents := make(map[string][]string)
	for _, n := range flow.Nodes {
		byKey[n.Key()] = n
		indeg[n.Key()] = 0
	}
	for _, n := range flow.Nodes {
		key := n.Key()
		for _, dep := range deps[key] {
			// Dangling references don't gate scheduling.
			if _, ok := byKey[dep]; !ok {
				continue
			}
			dependents[dep] = append(dependents[dep], key)
			indeg[key]++
		}
	}

	// Seed the queue in listed order for a stable plan.
	var queue []string
	for _, n := range flow.Nodes {
		if indeg[n.Key()] == 0 {
			queue = append(queue, n.Key())
		}
	}

	ordered := make([]domain.Node, 0, len(flow.Nodes))
	for len(queue) > 0 {
		key := queue[0]
		queue = queue[1:]
		ordered = append(ordered, byKey[key])
		for _, next := range dependents[key] {
			indeg[next]--
			if indeg[next] == 0 {
				queue = append(queue, next)
			}
		}
	}
	return ordered
}
