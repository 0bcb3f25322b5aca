package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vancomm/vacuum-planner/internal/cache"
	"github.com/vancomm/vacuum-planner/internal/config"
	"github.com/vancomm/vacuum-planner/internal/metrics"
	"github.com/vancomm/vacuum-planner/internal/middleware"
	"github.com/vancomm/vacuum-planner/internal/planner"
	"github.com/vancomm/vacuum-planner/internal/report"
	"github.com/vancomm/vacuum-planner/internal/repository"
	"github.com/vancomm/vacuum-planner/internal/world"
)

const maxWorldBytes = 1 << 20

// RunStore is implemented by *repository.Queries.
type RunStore interface {
	CreatePlanRun(ctx context.Context, params repository.CreatePlanRunParams) (*repository.PlanRun, error)
	FetchPlanRun(ctx context.Context, planRunId int64) (*repository.PlanRun, error)
	ListPlanRuns(ctx context.Context, filter repository.PlanRunFilter) ([]repository.RankedRun, error)
}

// PlanCache is implemented by *cache.Plans.
type PlanCache interface {
	Get(ctx context.Context, digest string, s planner.Strategy) (*report.PlanDTO, error)
	Set(ctx context.Context, digest string, plan *report.PlanDTO) error
}

type PlanHandler struct {
	logger  *slog.Logger
	runs    RunStore
	cache   PlanCache
	metrics *metrics.Search
	limits  *config.Planner
	ws      *config.WebSocket
}

// NewPlanHandler accepts nil runs and cache; the corresponding features are
// then disabled.
func NewPlanHandler(
	logger *slog.Logger,
	runs RunStore,
	cache PlanCache,
	metrics *metrics.Search,
	limits *config.Planner,
	ws *config.WebSocket,
) *PlanHandler {
	return &PlanHandler{
		logger:  logger,
		runs:    runs,
		cache:   cache,
		metrics: metrics,
		limits:  limits,
		ws:      ws,
	}
}

func (h *PlanHandler) maxExpanded(requested int) int {
	limit := h.limits.MaxExpanded
	if requested > 0 && (limit <= 0 || requested < limit) {
		return requested
	}
	return limit
}

func readWorld(r *http.Request, w http.ResponseWriter) (*world.World, error) {
	return world.Parse(http.MaxBytesReader(w, r.Body, maxWorldBytes))
}

func worldStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

// searchStatus maps a search outcome to a response code. A search that ran
// out of states is a valid answer.
func searchStatus(err error) int {
	switch {
	case err == nil, errors.Is(err, planner.ErrNoSolution):
		return http.StatusOK
	case errors.Is(err, planner.ErrExpansionLimit):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// internalSearchError reports errors that should abort sibling searches.
func internalSearchError(err error) bool {
	return searchStatus(err) == http.StatusInternalServerError
}

// exceedsLimit reports whether a fresh search capped at maxExpanded would
// have stopped before producing plan. The goal test precedes the limit test,
// so a solution found on the last allowed expansion still counts.
func exceedsLimit(plan *report.PlanDTO, maxExpanded int) bool {
	if maxExpanded <= 0 {
		return false
	}
	if plan.Solved {
		return plan.NodesExpanded > maxExpanded
	}
	return plan.NodesExpanded >= maxExpanded
}

// search consults the cache, runs the search within the configured limits and
// caches finished results. The returned plan is never nil.
func (h *PlanHandler) search(
	ctx context.Context,
	w *world.World,
	digest string,
	s planner.Strategy,
	maxExpanded int,
	opts ...planner.Option,
) (*report.PlanDTO, error) {
	if h.cache != nil {
		plan, err := h.cache.Get(ctx, digest, s)
		if err == nil && !exceedsLimit(plan, maxExpanded) {
			h.metrics.ObserveCached(s)
			return plan, nil
		}
		if err != nil && !errors.Is(err, cache.ErrMiss) {
			h.logger.Warn("plan cache unavailable", slog.Any("error", err))
		}
	}

	if h.limits.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.limits.Timeout)
		defer cancel()
	}

	opts = append([]planner.Option{planner.WithMaxExpanded(maxExpanded)}, opts...)
	res, err := planner.Search(ctx, w, s, opts...)
	h.metrics.Observe(res, err)
	plan := report.NewPlanDTO(res)
	if err != nil && !errors.Is(err, planner.ErrNoSolution) {
		return plan, err
	}

	if res.Solved {
		if err := planner.Verify(w, res.Actions); err != nil {
			return plan, fmt.Errorf("search returned a bad plan: %w", err)
		}
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, digest, plan); err != nil {
			h.logger.Warn("unable to cache plan", slog.Any("error", err))
		}
	}
	return plan, nil
}

// record stores a freshly computed plan. Failures are logged and do not
// affect the response.
func (h *PlanHandler) record(
	ctx context.Context, w *world.World, digest string, plan *report.PlanDTO,
) string {
	if h.runs == nil || plan.Cached {
		return ""
	}

	state, err := w.Bytes()
	if err != nil {
		h.logger.Error("unable to encode world", slog.Any("error", err))
		return ""
	}

	params := repository.CreatePlanRunParams{
		Digest:         digest,
		Strategy:       plan.Strategy,
		Solved:         plan.Solved,
		Actions:        strings.Join(plan.Actions, ""),
		ActionCount:    plan.ActionCount,
		NodesGenerated: plan.NodesGenerated,
		NodesExpanded:  plan.NodesExpanded,
		DurationMs:     plan.DurationMs,
		World:          state,
	}
	if claims, ok := middleware.OperatorClaims(ctx); ok {
		params.OperatorId = &claims.OperatorId
	}

	run, err := h.runs.CreatePlanRun(ctx, params)
	if err != nil {
		h.logger.Error("unable to store plan run", slog.Any("error", err))
		return ""
	}
	return strconv.FormatInt(run.PlanRunId, 10)
}

func newPlanResponse(plan *report.PlanDTO, digest string, err error) *PlanResponse {
	resp := &PlanResponse{PlanDTO: plan, Digest: digest}
	if err != nil && !errors.Is(err, planner.ErrNoSolution) {
		resp.Error = err.Error()
	}
	return resp
}

func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	query, err := ParsePlanQuery(r.URL.Query())
	if err != nil {
		sendError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	strategy, err := planner.ParseStrategy(query.Strategy)
	if err != nil {
		sendError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	wld, err := readWorld(r, w)
	if err != nil {
		sendError(w, h.logger, worldStatus(err), err)
		return
	}
	digest := wld.Digest()

	plan, err := h.search(r.Context(), wld, digest, strategy, h.maxExpanded(query.MaxExpanded))
	resp := newPlanResponse(plan, digest, err)

	status := searchStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("search failed", slog.String("digest", digest), slog.Any("error", err))
		sendError(w, h.logger, status, errors.New("search failed"))
		return
	}
	if status == http.StatusOK {
		resp.PlanRunId = h.record(r.Context(), wld, digest, plan)
	} else {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
	}

	sendJSONOrLog(w, h.logger, resp)
}

// Compare runs every strategy on the same world concurrently.
func (h *PlanHandler) Compare(w http.ResponseWriter, r *http.Request) {
	query, err := ParseCompareQuery(r.URL.Query())
	if err != nil {
		sendError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	wld, err := readWorld(r, w)
	if err != nil {
		sendError(w, h.logger, worldStatus(err), err)
		return
	}
	digest := wld.Digest()
	maxExpanded := h.maxExpanded(query.MaxExpanded)

	plans := make([]*PlanResponse, len(planner.Strategies))
	g, ctx := errgroup.WithContext(r.Context())
	for i, s := range planner.Strategies {
		g.Go(func() error {
			plan, err := h.search(ctx, wld, digest, s, maxExpanded)
			if internalSearchError(err) {
				return fmt.Errorf("%s: %w", s, err)
			}
			plans[i] = newPlanResponse(plan, digest, err)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		h.logger.Error("comparison failed", slog.String("digest", digest), slog.Any("error", err))
		sendError(w, h.logger, http.StatusInternalServerError, errors.New("search failed"))
		return
	}

	sendJSONOrLog(w, h.logger, &CompareResponse{Digest: digest, Plans: plans})
}
