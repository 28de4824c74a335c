// Package redis implements the store ports on Redis, for deployments
// where flows and run history must outlive the process.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/emberflow/emberflow/pkg/domain"
)

// FlowStore implements ports.FlowStore using Redis.
type FlowStore struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*options)

type options struct {
	prefix string
	ttl    time.Duration
}

// WithTTL sets the expiration for stored entries.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) { o.ttl = ttl }
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// NewFlowStore creates a Redis flow store from an existing client.
func NewFlowStore(client *backend.Client, opts ...Option) *FlowStore {
	o := options{prefix: "emberflow:flow:"}
	for _, opt := range opts {
		opt(&o)
	}
	return &FlowStore{client: client, prefix: o.prefix, ttl: o.ttl}
}

func (s *FlowStore) key(id string) string { return s.prefix + id }

func (s *FlowStore) indexKey() string { return s.prefix + "index" }

// Save persists the flow, bumping the version of an existing one.
// The read-modify-write is not transactional; the single-writer
// discipline documented on the engine applies here too.
func (s *FlowStore) Save(ctx context.Context, flow *domain.Flow) error {
	stored := *flow
	existing, err := s.Get(ctx, flow.ID)
	switch {
	case err == nil:
		stored.Version = existing.Version + 1
		if stored.Status == "" {
			stored.Status = existing.Status
		}
	case err == domain.ErrFlowNotFound:
		stored.Version = 1
		if stored.Status == "" {
			stored.Status = domain.FlowStatusDraft
		}
	default:
		return err
	}

	data, err := json.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("failed to marshal flow: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(flow.ID), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  float64(time.Now().UnixNano()),
		Member: flow.ID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save flow to redis: %w", err)
	}
	return nil
}

// Get retrieves a flow by ID.
func (s *FlowStore) Get(ctx context.Context, id string) (*domain.Flow, error) {
	val, err := s.client.Get(ctx, s.key(id)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, domain.ErrFlowNotFound
		}
		return nil, fmt.Errorf("failed to get flow from redis: %w", err)
	}

	var flow domain.Flow
	if err := json.Unmarshal([]byte(val), &flow); err != nil {
		return nil, fmt.Errorf("failed to unmarshal flow: %w", err)
	}
	return &flow, nil
}

// List returns all stored flows in save order.
func (s *FlowStore) List(ctx context.Context) ([]*domain.Flow, error) {
	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list flows: %w", err)
	}

	flows := make([]*domain.Flow, 0, len(ids))
	for _, id := range ids {
		flow, err := s.Get(ctx, id)
		if err == domain.ErrFlowNotFound {
			// Entry expired under us; prune the index lazily.
			s.client.ZRem(ctx, s.indexKey(), id)
			continue
		}
		if err != nil {
			return nil, err
		}
		flows = append(flows, flow)
	}
	return flows, nil
}

// Delete removes a flow.
func (s *FlowStore) Delete(ctx context.Context, id string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(id))
	pipe.ZRem(ctx, s.indexKey(), id)
	_, err := pipe.Exec(ctx)
	return err
}

// Publish transitions a flow from draft to active.
func (s *FlowStore) Publish(ctx context.Context, id string) (*domain.Flow, error) {
	flow, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	flow.Status = domain.FlowStatusActive

	data, err := json.Marshal(flow)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal flow: %w", err)
	}
	if err := s.client.Set(ctx, s.key(id), data, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("failed to publish flow: %w", err)
	}
	return flow, nil
}
