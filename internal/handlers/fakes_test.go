package handlers

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/vancomm/vacuum-planner/internal/cache"
	"github.com/vancomm/vacuum-planner/internal/planner"
	"github.com/vancomm/vacuum-planner/internal/report"
	"github.com/vancomm/vacuum-planner/internal/repository"
)

type memoryRuns struct {
	mu         sync.Mutex
	runs       []repository.PlanRun
	lastFilter repository.PlanRunFilter
}

func (m *memoryRuns) CreatePlanRun(
	_ context.Context, p repository.CreatePlanRunParams,
) (*repository.PlanRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run := repository.PlanRun{
		PlanRunId:      int64(len(m.runs) + 1),
		OperatorId:     p.OperatorId,
		Digest:         p.Digest,
		Strategy:       p.Strategy,
		Solved:         p.Solved,
		Actions:        p.Actions,
		ActionCount:    int32(p.ActionCount),
		NodesGenerated: int64(p.NodesGenerated),
		NodesExpanded:  int64(p.NodesExpanded),
		DurationMs:     p.DurationMs,
		World:          p.World,
		CreatedAt:      pgtype.Timestamptz{Time: time.Now(), Valid: true},
	}
	m.runs = append(m.runs, run)
	return &run, nil
}

func (m *memoryRuns) FetchPlanRun(_ context.Context, id int64) (*repository.PlanRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, run := range m.runs {
		if run.PlanRunId == id {
			return &run, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memoryRuns) ListPlanRuns(
	_ context.Context, f repository.PlanRunFilter,
) ([]repository.RankedRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastFilter = f
	var ranked []repository.RankedRun
	for _, run := range m.runs {
		if !run.Solved {
			continue
		}
		if f.Strategy != nil && *f.Strategy != run.Strategy {
			continue
		}
		if f.Digest != nil && *f.Digest != run.Digest {
			continue
		}
		ranked = append(ranked, repository.RankedRun{
			PlanRunId:     run.PlanRunId,
			Digest:        run.Digest,
			Strategy:      run.Strategy,
			ActionCount:   run.ActionCount,
			NodesExpanded: run.NodesExpanded,
			DurationMs:    run.DurationMs,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ActionCount < ranked[j].ActionCount
	})
	return ranked, nil
}

func (m *memoryRuns) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.runs)
}

type memoryCache struct {
	mu    sync.Mutex
	plans map[string]report.PlanDTO
}

func newMemoryCache() *memoryCache {
	return &memoryCache{plans: make(map[string]report.PlanDTO)}
}

func (c *memoryCache) Get(_ context.Context, digest string, s planner.Strategy) (*report.PlanDTO, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	plan, ok := c.plans[s.String()+digest]
	if !ok {
		return nil, cache.ErrMiss
	}
	plan.Cached = true
	return &plan, nil
}

func (c *memoryCache) Set(_ context.Context, digest string, plan *report.PlanDTO) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.plans[plan.Strategy+digest] = *plan
	return nil
}

type memoryOperators struct {
	mu     sync.Mutex
	byName map[string]*repository.Operator
}

func newMemoryOperators() *memoryOperators {
	return &memoryOperators{byName: make(map[string]*repository.Operator)}
}

func (m *memoryOperators) CreateOperator(
	_ context.Context, p repository.CreateOperatorParams,
) (*repository.Operator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byName[p.Username]; ok {
		return nil, &pgconn.PgError{Code: pgerrcode.UniqueViolation}
	}
	op := &repository.Operator{
		OperatorId:   int64(len(m.byName) + 1),
		Username:     p.Username,
		PasswordHash: p.PasswordHash,
	}
	m.byName[p.Username] = op
	return op, nil
}

func (m *memoryOperators) FetchOperator(_ context.Context, username string) (*repository.Operator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	op, ok := m.byName[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return op, nil
}
