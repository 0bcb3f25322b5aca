package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type PlanRun struct {
	PlanRunId      int64
	OperatorId     *int64
	Digest         string
	Strategy       string
	Solved         bool
	Actions        string
	ActionCount    int32
	NodesGenerated int64
	NodesExpanded  int64
	DurationMs     float64
	World          []byte
	CreatedAt      pgtype.Timestamptz
}

type CreatePlanRunParams struct {
	OperatorId     *int64
	Digest         string
	Strategy       string
	Solved         bool
	Actions        string
	ActionCount    int
	NodesGenerated int
	NodesExpanded  int
	DurationMs     float64
	World          []byte
}

func (q *Queries) CreatePlanRun(ctx context.Context, params CreatePlanRunParams) (*PlanRun, error) {
	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO plan_run (
			operator_id, digest, strategy, solved, actions, action_count,
			nodes_generated, nodes_expanded, duration_ms, world
		)
		VALUES (
			@operator_id, @digest, @strategy, @solved, @actions, @action_count,
			@nodes_generated, @nodes_expanded, @duration_ms, @world
		)
		RETURNING *;`,
		pgx.NamedArgs{
			"operator_id":     params.OperatorId,
			"digest":          params.Digest,
			"strategy":        params.Strategy,
			"solved":          params.Solved,
			"actions":         params.Actions,
			"action_count":    params.ActionCount,
			"nodes_generated": params.NodesGenerated,
			"nodes_expanded":  params.NodesExpanded,
			"duration_ms":     params.DurationMs,
			"world":           params.World,
		},
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[PlanRun])
}

func (q *Queries) FetchPlanRun(ctx context.Context, planRunId int64) (*PlanRun, error) {
	rows, _ := q.db.Query(
		ctx, "SELECT * FROM plan_run WHERE plan_run_id = $1", planRunId,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[PlanRun])
}

type RankedRun struct {
	PlanRunId     int64   `json:"plan_run_id"`
	Username      *string `json:"username"`
	Digest        string  `json:"digest"`
	Strategy      string  `json:"strategy"`
	ActionCount   int32   `json:"action_count"`
	NodesExpanded int64   `json:"nodes_expanded"`
	DurationMs    float64 `json:"duration_ms"`
}

type PlanRunFilter struct {
	Digest   *string
	Strategy *string
	Username *string
	Limit    int
}

func (f PlanRunFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.Digest != nil {
		clauses = append(clauses, "digest = @digest")
		args["digest"] = *f.Digest
	}
	if f.Strategy != nil {
		clauses = append(clauses, "strategy = @strategy")
		args["strategy"] = *f.Strategy
	}
	if f.Username != nil {
		clauses = append(clauses, "username = @username")
		args["username"] = *f.Username
	}
	return strings.Join(clauses, " AND "), args
}

// ListPlanRuns returns solved runs, fewest actions first.
func (q *Queries) ListPlanRuns(ctx context.Context, filter PlanRunFilter) ([]RankedRun, error) {
	query := `
	SELECT
		plan_run_id,
		username,
		digest,
		strategy,
		action_count,
		nodes_expanded,
		duration_ms
	FROM plan_run
		LEFT OUTER JOIN operator USING (operator_id)
	WHERE solved = true
	`

	whereClause, args := filter.WhereClause()
	if whereClause != "" {
		query += " AND " + whereClause
	}

	query += " ORDER BY action_count, nodes_expanded, plan_run_id"

	if filter.Limit > 0 {
		query += " LIMIT @limit"
		args["limit"] = filter.Limit
	}

	rows, err := q.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[RankedRun])
}
