package draft_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/webcraft-studio/webcraft-backend/internal/infra/draft"
	"github.com/webcraft-studio/webcraft-backend/internal/testinfra"
)

func TestPgStoreAbsentKeyIsNil(t *testing.T) {
	store := draft.NewPgStore(testinfra.Pool)
	blob, err := store.Get(context.Background(), uuid.NewString())
	require.NoError(t, err)
	require.Nil(t, blob)
}

func TestPgStorePutOverwritesAndDeleteClears(t *testing.T) {
	ctx := context.Background()
	store := draft.NewPgStore(testinfra.Pool)
	key := uuid.NewString()

	require.NoError(t, store.Put(ctx, key, []byte(`{"currentStep":1}`)))
	require.NoError(t, store.Put(ctx, key, []byte(`{"currentStep":2}`)))

	blob, err := store.Get(ctx, key)
	require.NoError(t, err)
	require.JSONEq(t, `{"currentStep":2}`, string(blob))

	require.NoError(t, store.Delete(ctx, key))
	blob, err = store.Get(ctx, key)
	require.NoError(t, err)
	require.Nil(t, blob)
}

func TestMemoryStoreMatchesPort(t *testing.T) {
	ctx := context.Background()
	store := draft.NewMemoryStore()

	blob, err := store.Get(ctx, "absent")
	require.NoError(t, err)
	require.Nil(t, blob)

	require.NoError(t, store.Put(ctx, "k", []byte("v1")))
	require.NoError(t, store.Put(ctx, "k", []byte("v2")))
	blob, err = store.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("v2"), blob)

	require.NoError(t, store.Delete(ctx, "k"))
	blob, err = store.Get(ctx, "k")
	require.NoError(t, err)
	require.Nil(t, blob)
}
