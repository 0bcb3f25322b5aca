package repository

import (
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestPlanRunFilterWhereClause(t *testing.T) {
	tests := []struct {
		name   string
		filter PlanRunFilter
		clause string
		args   pgx.NamedArgs
	}{
		{"empty", PlanRunFilter{}, "", pgx.NamedArgs{}},
		{
			"digest",
			PlanRunFilter{Digest: ptr("abc")},
			"digest = @digest",
			pgx.NamedArgs{"digest": "abc"},
		},
		{
			"all",
			PlanRunFilter{Digest: ptr("abc"), Strategy: ptr("depth-first"), Username: ptr("ann"), Limit: 5},
			"digest = @digest AND strategy = @strategy AND username = @username",
			pgx.NamedArgs{"digest": "abc", "strategy": "depth-first", "username": "ann"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, args := tt.filter.WhereClause()
			assert.Equal(t, tt.clause, clause)
			assert.Equal(t, tt.args, args)
		})
	}
}
