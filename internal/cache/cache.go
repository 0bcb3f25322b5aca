// Package cache keeps finished plans in Redis, keyed by world digest and
// strategy, so identical requests skip the search.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/vacuum-planner/internal/planner"
	"github.com/vancomm/vacuum-planner/internal/report"
)

var Log = logrus.New()

var ErrMiss = errors.New("plan not cached")

type Plans struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Plans)

// WithTTL sets the expiration for cached plans. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(p *Plans) {
		p.ttl = ttl
	}
}

func WithPrefix(prefix string) Option {
	return func(p *Plans) {
		p.prefix = prefix
	}
}

func New(address, password string, db int, opts ...Option) *Plans {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

func NewFromClient(client *backend.Client, opts ...Option) *Plans {
	p := &Plans{
		client: client,
		prefix: "planner:plan:",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Plans) key(digest string, s planner.Strategy) string {
	return p.prefix + s.String() + ":" + digest
}

func (p *Plans) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func (p *Plans) Get(ctx context.Context, digest string, s planner.Strategy) (*report.PlanDTO, error) {
	val, err := p.client.Get(ctx, p.key(digest, s)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var plan report.PlanDTO
	if err := json.Unmarshal(val, &plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan: %w", err)
	}
	plan.Cached = true

	Log.WithFields(logrus.Fields{"digest": digest, "strategy": s}).Debug("cache hit")
	return &plan, nil
}

// Set stores a finished plan. Plans cut short by a limit or a deadline must
// not be cached since a later request may have more room.
func (p *Plans) Set(ctx context.Context, digest string, plan *report.PlanDTO) error {
	s, err := planner.ParseStrategy(plan.Strategy)
	if err != nil {
		return err
	}

	stored := *plan
	stored.Cached = false
	data, err := json.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}

	if err := p.client.Set(ctx, p.key(digest, s), data, p.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

func (p *Plans) Close() error {
	return p.client.Close()
}
