package blob_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/paytracker/paytracker/internal/blob"
)

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	store := blob.NewFileStore(filepath.Join(t.TempDir(), "nested", "db.json"))

	data, err := store.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, data)

	require.NoError(t, store.Save(ctx, []byte(`{"clients":[]}`)))
	data, err = store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, `{"clients":[]}`, string(data))

	require.NoError(t, store.Save(ctx, []byte(`v2`)))
	data, err = store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, `v2`, string(data))
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := blob.NewRedisStore(client, "paytracker:test")

	data, err := store.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, data)

	require.NoError(t, store.Save(ctx, []byte(`snapshot`)))
	data, err = store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, `snapshot`, string(data))
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "db.sqlite")

	store, err := blob.NewSQLiteStore(dbPath, "paytracker:test")
	require.NoError(t, err)

	data, err := store.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, data)

	require.NoError(t, store.Save(ctx, []byte(`v1`)))
	require.NoError(t, store.Save(ctx, []byte(`v2`)))
	data, err = store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, `v2`, string(data))
	require.NoError(t, store.Close())

	// The snapshot survives a reopen.
	reopened, err := blob.NewSQLiteStore(dbPath, "paytracker:test")
	require.NoError(t, err)
	defer reopened.Close()
	data, err = reopened.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, `v2`, string(data))
}
