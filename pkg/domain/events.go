package domain

import (
	"context"
	"time"
)

// RunEvent marks the start or end of an execution.
type RunEvent struct {
	Timestamp   time.Time `json:"timestamp"`
	ExecutionID string    `json:"execution_id"`
	FlowID      string    `json:"flow_id"`
	Status      RunStatus `json:"status"`
}

// StepEvent marks the start or end of a single step.
type StepEvent struct {
	Timestamp   time.Time  `json:"timestamp"`
	ExecutionID string     `json:"execution_id"`
	NodeID      string     `json:"node_id"`
	NodeType    string     `json:"node_type"`
	StepIndex   int        `json:"step_index"`
	Status      StepStatus `json:"status,omitempty"`
	Elapsed     float64    `json:"elapsed,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
// Nil hooks are skipped.
type LifecycleHooks struct {
	OnRunStart  func(context.Context, *RunEvent)
	OnRunEnd    func(context.Context, *RunEvent)
	OnStepStart func(context.Context, *StepEvent)
	OnStepEnd   func(context.Context, *StepEvent)
}
