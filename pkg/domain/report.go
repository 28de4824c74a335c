package domain

import "time"

// RunStatus is the aggregate state of one execution.
type RunStatus string

const (
	RunStatusPending             RunStatus = "pending"
	RunStatusRunning             RunStatus = "running"
	RunStatusCompleted           RunStatus = "completed"
	RunStatusCompletedWithErrors RunStatus = "completed_with_errors"
	RunStatusFailed              RunStatus = "failed"
)

// StepStatus is the outcome of a single step.
type StepStatus string

const (
	StepStatusSuccess StepStatus = "success"
	StepStatusError   StepStatus = "error"
)

// StepResult records one node's execution within a run.
type StepResult struct {
	StepIndex int            `json:"step_index"`
	StepName  string         `json:"step_name"`
	Type      string         `json:"type"`
	Status    StepStatus     `json:"status"`
	Result    map[string]any `json:"result,omitempty"`
	// ExecutionTime is the simulated wall time of the step, e.g. "0.2s".
	ExecutionTime string `json:"execution_time"`
}

// RunMetrics summarizes step timing for a run.
type RunMetrics struct {
	AvgStepTime float64 `json:"avg_step_time"`
	MaxStepTime float64 `json:"max_step_time"`
}

// ExecutionPlan is the ordered sequence of nodes a run will walk.
// Ephemeral; recomputed per run.
type ExecutionPlan struct {
	Steps []string `json:"steps"`
}

// ExecutionReport is the aggregate record of one run. Step-level
// failures are recoverable and land in Errors; a run-level failure is
// terminal and lands in Error with Status set to failed.
type ExecutionReport struct {
	ExecutionID    string         `json:"execution_id"`
	FlowID         string         `json:"flow_id"`
	StartedAt      time.Time      `json:"started_at"`
	CompletedAt    time.Time      `json:"completed_at,omitzero"`
	Status         RunStatus      `json:"status"`
	StepsCompleted int            `json:"steps_completed"`
	TotalSteps     int            `json:"total_steps"`
	Results        []StepResult   `json:"results"`
	Errors         []StepResult   `json:"errors,omitempty"`
	Error          string         `json:"error,omitempty"`
	Inputs         map[string]any `json:"inputs,omitempty"`
	Metrics        *RunMetrics    `json:"metrics,omitempty"`
	Plan           *ExecutionPlan `json:"execution_plan,omitempty"`
	// TotalExecutionTime is the sum of simulated step times in seconds.
	TotalExecutionTime float64 `json:"total_execution_time"`
	Success            bool    `json:"success"`
}
