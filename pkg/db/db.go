package db

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Connection is the subset of pgxpool.Pool the unit of work needs,
// so tests can swap in a single conn or a pool transparently.
type Connection interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}
