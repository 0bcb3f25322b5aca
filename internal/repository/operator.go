package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type Operator struct {
	OperatorId   int64
	Username     string
	PasswordHash []byte
	CreatedAt    pgtype.Timestamptz
	UpdatedAt    pgtype.Timestamptz
}

type CreateOperatorParams struct {
	Username     string
	PasswordHash []byte
}

func (q *Queries) CreateOperator(ctx context.Context, params CreateOperatorParams) (*Operator, error) {
	rows, _ := q.db.Query(
		ctx,
		"INSERT INTO operator (username, password_hash) VALUES ($1, $2) RETURNING *",
		params.Username,
		params.PasswordHash,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Operator])
}

func (q *Queries) FetchOperator(ctx context.Context, username string) (*Operator, error) {
	rows, _ := q.db.Query(
		ctx, "SELECT * FROM operator WHERE username = $1", username,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Operator])
}
