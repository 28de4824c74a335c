package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/emberflow/emberflow/pkg/domain"
)

// DefaultHistoryBound is the per-flow report cap when none is given.
const DefaultHistoryBound = 50

// HistoryStore implements ports.HistoryStore using Redis: one key per
// execution, and a trimmed list per flow for recency.
type HistoryStore struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
	bound  int
}

// NewHistoryStore creates a Redis history store from an existing
// client, keeping at most bound reports per flow.
func NewHistoryStore(client *backend.Client, bound int, opts ...Option) *HistoryStore {
	if bound <= 0 {
		bound = DefaultHistoryBound
	}
	o := options{prefix: "emberflow:exec:"}
	for _, opt := range opts {
		opt(&o)
	}
	return &HistoryStore{client: client, prefix: o.prefix, ttl: o.ttl, bound: bound}
}

func (s *HistoryStore) execKey(executionID string) string { return s.prefix + executionID }

func (s *HistoryStore) flowKey(flowID string) string { return s.prefix + "flow:" + flowID }

// Append records a finished run and trims the flow's list to the bound.
func (s *HistoryStore) Append(ctx context.Context, report *domain.ExecutionReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.execKey(report.ExecutionID), data, s.ttl)
	pipe.LPush(ctx, s.flowKey(report.FlowID), report.ExecutionID)
	pipe.LTrim(ctx, s.flowKey(report.FlowID), 0, int64(s.bound)-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append history to redis: %w", err)
	}
	return nil
}

// Get retrieves a report by execution ID.
func (s *HistoryStore) Get(ctx context.Context, executionID string) (*domain.ExecutionReport, error) {
	val, err := s.client.Get(ctx, s.execKey(executionID)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, domain.ErrExecutionNotFound
		}
		return nil, fmt.Errorf("failed to get report from redis: %w", err)
	}

	var report domain.ExecutionReport
	if err := json.Unmarshal([]byte(val), &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &report, nil
}

// Recent returns up to limit reports for a flow, most recent first.
func (s *HistoryStore) Recent(ctx context.Context, flowID string, limit int) ([]*domain.ExecutionReport, error) {
	if limit <= 0 || limit > s.bound {
		limit = s.bound
	}
	ids, err := s.client.LRange(ctx, s.flowKey(flowID), 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	reports := make([]*domain.ExecutionReport, 0, len(ids))
	for _, id := range ids {
		report, err := s.Get(ctx, id)
		if err == domain.ErrExecutionNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}
