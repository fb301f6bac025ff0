package draft

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	shared "github.com/webcraft-studio/webcraft-backend/pkg/interfaces"
)

// PgStore keeps wizard drafts in the agency.drafts table, one jsonb blob per
// session. Absent keys come back as a nil payload, not an error.
type PgStore struct {
	pool *pgxpool.Pool
}

var _ shared.DraftStore = (*PgStore)(nil)

func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

func (s *PgStore) Get(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx, "SELECT payload FROM agency.drafts WHERE session_id = $1", key).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("err reading draft, %v", err)
	}
	return payload, nil
}

func (s *PgStore) Put(ctx context.Context, key string, payload []byte) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO agency.drafts(session_id, payload, updated_at) VALUES ($1,$2,$3)
		 ON CONFLICT (session_id) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`,
		key, payload, time.Now())
	if err != nil {
		return fmt.Errorf("err saving draft, %v", err)
	}
	return nil
}

func (s *PgStore) Delete(ctx context.Context, key string) error {
	_, err := s.pool.Exec(ctx, "DELETE FROM agency.drafts WHERE session_id = $1", key)
	if err != nil {
		return fmt.Errorf("err deleting draft, %v", err)
	}
	return nil
}
