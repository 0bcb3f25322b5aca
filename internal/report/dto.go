package report

import (
	"github.com/vancomm/vacuum-planner/internal/planner"
)

type PlanDTO struct {
	Strategy       string   `json:"strategy"`
	Solved         bool     `json:"solved"`
	Actions        []string `json:"actions"`
	ActionCount    int      `json:"action_count"`
	NodesGenerated int      `json:"nodes_generated"`
	NodesExpanded  int      `json:"nodes_expanded"`
	DurationMs     float64  `json:"duration_ms"`
	Cached         bool     `json:"cached,omitempty"`
}

func NewPlanDTO(res planner.Result) *PlanDTO {
	actions := make([]string, len(res.Actions))
	for i, a := range res.Actions {
		actions[i] = a.String()
	}
	return &PlanDTO{
		Strategy:       res.Strategy.String(),
		Solved:         res.Solved,
		Actions:        actions,
		ActionCount:    len(res.Actions),
		NodesGenerated: res.Generated,
		NodesExpanded:  res.Expanded,
		DurationMs:     float64(res.Duration.Microseconds()) / 1000,
	}
}
