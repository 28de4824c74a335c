package domain

import "errors"

// ErrFlowNotFound is returned when a flow ID cannot be found in the store.
var ErrFlowNotFound = errors.New("flow not found")

// ErrExecutionNotFound is returned when an execution ID cannot be found in the history.
var ErrExecutionNotFound = errors.New("execution not found")

// ErrCycleDetected is returned by validation when the dependency graph
// contains a cycle and the reject policy is in effect.
var ErrCycleDetected = errors.New("circular dependency detected")
