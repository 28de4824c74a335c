// Package tests provides reusable contract suites verifying that an
// adapter complies with the ports interfaces. Both the memory and the
// redis adapters run these.
package tests

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/emberflow/emberflow/pkg/domain"
	"github.com/emberflow/emberflow/pkg/ports"
)

// RunFlowStoreContract verifies FlowStore semantics: versioning,
// not-found errors and the draft → active publish transition.
func RunFlowStoreContract(t *testing.T, store ports.FlowStore) {
	t.Helper()
	ctx := context.Background()

	flow := &domain.Flow{
		ID:   "contract-flow",
		Name: "Contract Flow",
		Nodes: []domain.Node{
			{ID: "a", Type: domain.NodeTypeTrigger},
			{ID: "b", Type: domain.NodeTypeEmail},
		},
		Edges: []domain.Edge{{ID: "e1", Source: "a", Target: "b"}},
	}

	t.Run("SaveAssignsVersionAndStatus", func(t *testing.T) {
		if err := store.Save(ctx, flow); err != nil {
			t.Fatalf("save: %v", err)
		}
		got, err := store.Get(ctx, flow.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Version != 1 {
			t.Errorf("expected version 1 on first save, got %d", got.Version)
		}
		if got.Status != domain.FlowStatusDraft {
			t.Errorf("expected draft status, got %q", got.Status)
		}
	})

	t.Run("SaveBumpsVersion", func(t *testing.T) {
		updated := *flow
		updated.Name = "Contract Flow v2"
		if err := store.Save(ctx, &updated); err != nil {
			t.Fatalf("save: %v", err)
		}
		got, err := store.Get(ctx, flow.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Version != 2 {
			t.Errorf("expected version 2 after second save, got %d", got.Version)
		}
		if got.Name != "Contract Flow v2" {
			t.Errorf("update not persisted, name = %q", got.Name)
		}
	})

	t.Run("GetNotFound", func(t *testing.T) {
		_, err := store.Get(ctx, "no-such-flow")
		if !errors.Is(err, domain.ErrFlowNotFound) {
			t.Errorf("expected ErrFlowNotFound, got %v", err)
		}
	})

	t.Run("PublishTransitionsStatus", func(t *testing.T) {
		got, err := store.Publish(ctx, flow.ID)
		if err != nil {
			t.Fatalf("publish: %v", err)
		}
		if got.Status != domain.FlowStatusActive {
			t.Errorf("expected active status after publish, got %q", got.Status)
		}
	})

	t.Run("PublishNotFound", func(t *testing.T) {
		_, err := store.Publish(ctx, "no-such-flow")
		if !errors.Is(err, domain.ErrFlowNotFound) {
			t.Errorf("expected ErrFlowNotFound, got %v", err)
		}
	})

	t.Run("ListIncludesSaved", func(t *testing.T) {
		flows, err := store.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		found := false
		for _, f := range flows {
			if f.ID == flow.ID {
				found = true
			}
		}
		if !found {
			t.Errorf("flow %s missing from list", flow.ID)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := store.Delete(ctx, flow.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := store.Get(ctx, flow.ID); !errors.Is(err, domain.ErrFlowNotFound) {
			t.Errorf("expected ErrFlowNotFound after delete, got %v", err)
		}
	})
}

// RunHistoryStoreContract verifies HistoryStore semantics. The store
// under test must be bounded to keep at most `bound` reports per flow.
func RunHistoryStoreContract(t *testing.T, store ports.HistoryStore, bound int) {
	t.Helper()
	ctx := context.Background()

	t.Run("AppendAndGet", func(t *testing.T) {
		report := &domain.ExecutionReport{
			ExecutionID: "exec-1",
			FlowID:      "history-flow",
			Status:      domain.RunStatusCompleted,
		}
		if err := store.Append(ctx, report); err != nil {
			t.Fatalf("append: %v", err)
		}
		got, err := store.Get(ctx, "exec-1")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Status != domain.RunStatusCompleted {
			t.Errorf("status mismatch: %q", got.Status)
		}
	})

	t.Run("GetNotFound", func(t *testing.T) {
		_, err := store.Get(ctx, "no-such-exec")
		if !errors.Is(err, domain.ErrExecutionNotFound) {
			t.Errorf("expected ErrExecutionNotFound, got %v", err)
		}
	})

	t.Run("RecentMostRecentFirst", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			report := &domain.ExecutionReport{
				ExecutionID: fmt.Sprintf("exec-order-%d", i),
				FlowID:      "order-flow",
				Status:      domain.RunStatusCompleted,
			}
			if err := store.Append(ctx, report); err != nil {
				t.Fatalf("append: %v", err)
			}
		}
		recent, err := store.Recent(ctx, "order-flow", 2)
		if err != nil {
			t.Fatalf("recent: %v", err)
		}
		if len(recent) != 2 {
			t.Fatalf("expected 2 reports, got %d", len(recent))
		}
		if recent[0].ExecutionID != "exec-order-2" {
			t.Errorf("expected most recent first, got %s", recent[0].ExecutionID)
		}
	})

	t.Run("BoundedHistory", func(t *testing.T) {
		for i := 0; i < bound+5; i++ {
			report := &domain.ExecutionReport{
				ExecutionID: fmt.Sprintf("exec-bound-%d", i),
				FlowID:      "bound-flow",
				Status:      domain.RunStatusCompleted,
			}
			if err := store.Append(ctx, report); err != nil {
				t.Fatalf("append: %v", err)
			}
		}
		recent, err := store.Recent(ctx, "bound-flow", bound+5)
		if err != nil {
			t.Fatalf("recent: %v", err)
		}
		if len(recent) != bound {
			t.Errorf("expected history bounded to %d, got %d", bound, len(recent))
		}
	})
}
