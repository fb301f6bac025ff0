package interfaces

import (
	"context"

	"github.com/jackc/pgx/v5"
)

type UoW interface {
	Commit() error
	Rollback() error
	Begin() (pgx.Tx, error)
	GetTx() pgx.Tx
}

type Event interface {
	GetType() string
}

// DraftStore is the key-value port backing the wizard draft. Production uses
// the agency.drafts table, tests use an in-memory map.
type DraftStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, payload []byte) error
	Delete(ctx context.Context, key string) error
}
