// Package graph builds dependency adjacency maps from flow nodes and
// validates them before scheduling.
package graph

import (
	"fmt"
	"log/slog"

	"github.com/emberflow/emberflow/pkg/domain"
)

// CyclePolicy controls what a detected circular dependency does.
type CyclePolicy int

const (
	// CycleWarn logs a warning and lets scheduling proceed with the
	// flow's listed order. Matches the historical behavior.
	CycleWarn CyclePolicy = iota
	// CycleReject fails validation before scheduling.
	CycleReject
)

// Dependencies builds the adjacency map id → dependency ids from the
// nodes' declared dependency lists. Every node gets an entry, missing
// lists default to empty. Dangling references are retained as-is;
// they surface only if traversed.
func Dependencies(nodes []domain.Node) map[string][]string {
	deps := make(map[string][]string, len(nodes))
	for _, n := range nodes {
		if n.Dependencies != nil {
			deps[n.Key()] = n.Dependencies
		} else {
			deps[n.Key()] = []string{}
		}
	}
	return deps
}

// HasCycle reports whether the adjacency map contains a circular
// dependency, using depth-first traversal with an on-stack set.
func HasCycle(deps map[string][]string) bool {
	visited := make(map[string]bool, len(deps))
	onStack := make(map[string]bool)

	var dfs func(id string) bool
	dfs = func(id string) bool {
		if onStack[id] {
			return true
		}
		if visited[id] {
			return false
		}
		visited[id] = true
		onStack[id] = true
		for _, dep := range deps[id] {
			if dfs(dep) {
				return true
			}
		}
		delete(onStack, id)
		return false
	}

	for id := range deps {
		if dfs(id) {
			return true
		}
	}
	return false
}

// Validate checks the dependency graph of a flow against the policy.
// Under CycleWarn a cycle only produces a log line; under CycleReject
// it returns domain.ErrCycleDetected.
func Validate(flow *domain.Flow, policy CyclePolicy, logger *slog.Logger) error {
	deps := Dependencies(flow.Nodes)
	if !HasCycle(deps) {
		return nil
	}
	if policy == CycleReject {
		return fmt.Errorf("flow %s: %w", flow.ID, domain.ErrCycleDetected)
	}
	logger.Warn("circular dependencies detected in flow, scheduling anyway", "flow_id", flow.ID)
	return nil
}
