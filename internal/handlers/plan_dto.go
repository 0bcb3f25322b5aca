package handlers

import (
	"strconv"

	"github.com/gorilla/schema"

	"github.com/vancomm/vacuum-planner/internal/report"
	"github.com/vancomm/vacuum-planner/internal/repository"
	"github.com/vancomm/vacuum-planner/internal/world"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

type PlanQuery struct {
	Strategy    string `schema:"strategy,required"`
	MaxExpanded int    `schema:"max_expanded"`
}

func ParsePlanQuery(src map[string][]string) (PlanQuery, error) {
	var dto PlanQuery
	err := decoder.Decode(&dto, src)
	return dto, err
}

type CompareQuery struct {
	MaxExpanded int `schema:"max_expanded"`
}

func ParseCompareQuery(src map[string][]string) (CompareQuery, error) {
	var dto CompareQuery
	err := decoder.Decode(&dto, src)
	return dto, err
}

type RunsQuery struct {
	Digest   string `schema:"digest"`
	Strategy string `schema:"strategy"`
	Operator string `schema:"operator"`
	Limit    int    `schema:"limit"`
}

func ParseRunsQuery(src map[string][]string) (RunsQuery, error) {
	var dto RunsQuery
	err := decoder.Decode(&dto, src)
	return dto, err
}

type PlanResponse struct {
	*report.PlanDTO
	Digest    string `json:"digest"`
	PlanRunId string `json:"plan_run_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

type CompareResponse struct {
	Digest string          `json:"digest"`
	Plans  []*PlanResponse `json:"plans"`
}

type ProgressDTO struct {
	NodesGenerated int `json:"nodes_generated"`
	NodesExpanded  int `json:"nodes_expanded"`
	Frontier       int `json:"frontier"`
}

type PlanRunDTO struct {
	PlanRunId      string  `json:"plan_run_id"`
	OperatorId     *int64  `json:"operator_id,omitempty"`
	Digest         string  `json:"digest"`
	Strategy       string  `json:"strategy"`
	Solved         bool    `json:"solved"`
	Actions        string  `json:"actions"`
	ActionCount    int32   `json:"action_count"`
	NodesGenerated int64   `json:"nodes_generated"`
	NodesExpanded  int64   `json:"nodes_expanded"`
	DurationMs     float64 `json:"duration_ms"`
	World          string  `json:"world"`
	CreatedAt      int64   `json:"created_at"`
}

func NewPlanRunDTO(run *repository.PlanRun, w *world.World) *PlanRunDTO {
	return &PlanRunDTO{
		PlanRunId:      strconv.FormatInt(run.PlanRunId, 10),
		OperatorId:     run.OperatorId,
		Digest:         run.Digest,
		Strategy:       run.Strategy,
		Solved:         run.Solved,
		Actions:        run.Actions,
		ActionCount:    run.ActionCount,
		NodesGenerated: run.NodesGenerated,
		NodesExpanded:  run.NodesExpanded,
		DurationMs:     run.DurationMs,
		World:          w.String(),
		CreatedAt:      run.CreatedAt.Time.UnixMilli(),
	}
}
