// Package memory implements the store ports in process memory.
// Safe for concurrent use; this is the synchronization layer the
// engine itself deliberately does not carry.
package memory

import (
	"context"
	"sync"

	"github.com/emberflow/emberflow/pkg/domain"
)

// FlowStore implements ports.FlowStore in memory.
type FlowStore struct {
	mu    sync.RWMutex
	flows map[string]*domain.Flow
}

// NewFlowStore creates a new in-memory flow store.
func NewFlowStore() *FlowStore {
	return &FlowStore{
		flows: make(map[string]*domain.Flow),
	}
}

// Save persists the flow, bumping the version of an existing one.
func (s *FlowStore) Save(ctx context.Context, flow *domain.Flow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := copyFlow(flow)
	if existing, ok := s.flows[flow.ID]; ok {
		stored.Version = existing.Version + 1
		if stored.Status == "" {
			stored.Status = existing.Status
		}
	} else {
		stored.Version = 1
		if stored.Status == "" {
			stored.Status = domain.FlowStatusDraft
		}
	}
	s.flows[flow.ID] = stored
	return nil
}

// Get retrieves a flow by ID.
func (s *FlowStore) Get(ctx context.Context, id string) (*domain.Flow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	flow, ok := s.flows[id]
	if !ok {
		return nil, domain.ErrFlowNotFound
	}
	// Copy on read so callers can't mutate store state by pointer.
	return copyFlow(flow), nil
}

// List returns all stored flows.
func (s *FlowStore) List(ctx context.Context) ([]*domain.Flow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	flows := make([]*domain.Flow, 0, len(s.flows))
	for _, f := range s.flows {
		flows = append(flows, copyFlow(f))
	}
	return flows, nil
}

// Delete removes a flow.
func (s *FlowStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.flows, id)
	return nil
}

// Publish transitions a flow from draft to active.
func (s *FlowStore) Publish(ctx context.Context, id string) (*domain.Flow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	flow, ok := s.flows[id]
	if !ok {
		return nil, domain.ErrFlowNotFound
	}
	flow.Status = domain.FlowStatusActive
	return copyFlow(flow), nil
}

func copyFlow(f *domain.Flow) *domain.Flow {
	c := *f
	c.Nodes = make([]domain.Node, len(f.Nodes))
	copy(c.Nodes, f.Nodes)
	c.Edges = make([]domain.Edge, len(f.Edges))
	copy(c.Edges, f.Edges)
	if f.Metadata != nil {
		c.Metadata = make(map[string]any, len(f.Metadata))
		for k, v := range f.Metadata {
			c.Metadata[k] = v
		}
	}
	return &c
}
