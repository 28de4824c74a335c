package memory

import (
	"context"
	"sync"

	"github.com/emberflow/emberflow/pkg/domain"
)

// DefaultHistoryBound is the per-flow report cap when none is given.
const DefaultHistoryBound = 50

// HistoryStore implements ports.HistoryStore in memory, keeping the
// most recent N reports per flow.
type HistoryStore struct {
	mu     sync.RWMutex
	bound  int
	byExec map[string]*domain.ExecutionReport
	byFlow map[string][]*domain.ExecutionReport
}

// NewHistoryStore creates a bounded in-memory history store.
// A bound <= 0 falls back to DefaultHistoryBound.
func NewHistoryStore(bound int) *HistoryStore {
	if bound <= 0 {
		bound = DefaultHistoryBound
	}
	return &HistoryStore{
		bound:  bound,
		byExec: make(map[string]*domain.ExecutionReport),
		byFlow: make(map[string][]*domain.ExecutionReport),
	}
}

// Append records a finished run, dropping the oldest report for the
// flow once the bound is exceeded.
func (s *HistoryStore) Append(ctx context.Context, report *domain.ExecutionReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *report
	s.byExec[report.ExecutionID] = &stored

	reports := append(s.byFlow[report.FlowID], &stored)
	if len(reports) > s.bound {
		evicted := reports[0]
		delete(s.byExec, evicted.ExecutionID)
		reports = reports[1:]
	}
	s.byFlow[report.FlowID] = reports
	return nil
}

// Get retrieves a report by execution ID.
func (s *HistoryStore) Get(ctx context.Context, executionID string) (*domain.ExecutionReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.byExec[executionID]
	if !ok {
		return nil, domain.ErrExecutionNotFound
	}
	ret := *report
	return &ret, nil
}

// Recent returns up to limit reports for a flow, most recent first.
func (s *HistoryStore) Recent(ctx context.Context, flowID string, limit int) ([]*domain.ExecutionReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reports := s.byFlow[flowID]
	if limit <= 0 || limit > len(reports) {
		limit = len(reports)
	}
	out := make([]*domain.ExecutionReport, 0, limit)
	for i := len(reports) - 1; i >= 0 && len(out) < limit; i-- {
		ret := *reports[i]
		out = append(out, &ret)
	}
	return out, nil
}
