// Package handlers provides the built-in step handlers for the
// execution simulator. Each mirrors what a real dispatcher would
// return for its node type, with a fixed simulated latency.
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/emberflow/emberflow/pkg/domain"
	"github.com/emberflow/emberflow/pkg/registry"
)

// RegisterBuiltins installs the standard handlers on a registry.
func RegisterBuiltins(r *registry.Registry) {
	r.Register(domain.NodeTypeAPICall, 200*time.Millisecond, APICall)
	r.Register(domain.NodeTypeEmail, 100*time.Millisecond, Email)
	r.Register(domain.NodeTypeCondition, 50*time.Millisecond, Condition)
}

// APICall simulates an outbound HTTP call.
func APICall(ctx context.Context, node domain.Node, index int) (map[string]any, error) {
	return map[string]any{
		"data":        "API response data",
		"status_code": 200,
	}, nil
}

// Email simulates sending an email.
func Email(ctx context.Context, node domain.Node, index int) (map[string]any, error) {
	return map[string]any{
		"message_id": fmt.Sprintf("msg_%d", index),
		"delivered":  true,
	}, nil
}

// Condition simulates evaluating a branch condition.
func Condition(ctx context.Context, node domain.Node, index int) (map[string]any, error) {
	return map[string]any{
		"condition_met": true,
	}, nil
}
