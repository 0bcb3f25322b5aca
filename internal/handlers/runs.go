package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"

	"github.com/vancomm/vacuum-planner/internal/planner"
	"github.com/vancomm/vacuum-planner/internal/repository"
	"github.com/vancomm/vacuum-planner/internal/world"
)

const (
	defaultRunsLimit = 50
	maxRunsLimit     = 500
)

func (h *PlanHandler) FetchRun(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		sendError(w, h.logger, http.StatusServiceUnavailable, ErrStorageDisabled)
		return
	}

	runId, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		sendError(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid run id"))
		return
	}

	run, err := h.runs.FetchPlanRun(r.Context(), runId)
	if errors.Is(err, pgx.ErrNoRows) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to fetch plan run from db", slog.Any("error", err))
		return
	}

	wld, err := world.DecodeWorld(run.World)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("db returned invalid plan_run.world", slog.Any("error", err))
		return
	}

	sendJSONOrLog(w, h.logger, NewPlanRunDTO(run, wld))
}

// ListRuns returns solved runs, fewest actions first.
func (h *PlanHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		sendError(w, h.logger, http.StatusServiceUnavailable, ErrStorageDisabled)
		return
	}

	query, err := ParseRunsQuery(r.URL.Query())
	if err != nil {
		sendError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	filter := repository.PlanRunFilter{Limit: defaultRunsLimit}
	if query.Limit > 0 {
		filter.Limit = min(query.Limit, maxRunsLimit)
	}
	if query.Digest != "" {
		filter.Digest = &query.Digest
	}
	if query.Operator != "" {
		filter.Username = &query.Operator
	}
	if query.Strategy != "" {
		s, err := planner.ParseStrategy(query.Strategy)
		if err != nil {
			sendError(w, h.logger, http.StatusBadRequest, err)
			return
		}
		name := s.String()
		filter.Strategy = &name
	}

	runs, err := h.runs.ListPlanRuns(r.Context(), filter)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to list plan runs", slog.Any("error", err))
		return
	}
	if runs == nil {
		runs = []repository.RankedRun{}
	}

	sendJSONOrLog(w, h.logger, runs)
}
