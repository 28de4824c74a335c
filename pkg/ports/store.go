package ports

import (
	"context"

	"github.com/emberflow/emberflow/pkg/domain"
)

// FlowStore persists flow definitions. It owns durability, the
// version counter (bumped on every save of an existing flow) and the
// draft → active status transition.
type FlowStore interface {
	// Save persists the flow. A new flow starts at version 1 with
	// status draft; saving an existing flow bumps its version.
	Save(ctx context.Context, flow *domain.Flow) error

	// Get retrieves a flow by ID.
	// Returns domain.ErrFlowNotFound if it does not exist.
	Get(ctx context.Context, id string) (*domain.Flow, error)

	// List returns all stored flows.
	List(ctx context.Context) ([]*domain.Flow, error)

	// Delete removes a flow.
	Delete(ctx context.Context, id string) error

	// Publish transitions a flow from draft to active.
	// Returns domain.ErrFlowNotFound if it does not exist.
	Publish(ctx context.Context, id string) (*domain.Flow, error)
}

// HistoryStore keeps a bounded most-recent-N record of execution
// reports per flow.
type HistoryStore interface {
	// Append records a finished run. Older entries beyond the store's
	// bound are dropped.
	Append(ctx context.Context, report *domain.ExecutionReport) error

	// Get retrieves a report by execution ID.
	// Returns domain.ErrExecutionNotFound if it does not exist.
	Get(ctx context.Context, executionID string) (*domain.ExecutionReport, error)

	// Recent returns up to limit reports for a flow, most recent first.
	Recent(ctx context.Context, flowID string, limit int) ([]*domain.ExecutionReport, error)
}
