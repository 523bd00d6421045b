package persistence

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/safety-roster/internal/config"
)

func exerciseStore(t *testing.T, store KVStore, prefix string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, found, err := store.Get(ctx, prefix+"1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, prefix+"1", `{"id":"1"}`))
	require.NoError(t, store.Set(ctx, prefix+"2", `{"id":"2"}`))
	require.NoError(t, store.Set(ctx, prefix+"1", `{"id":"1","name":"B"}`))

	val, found, err := store.Get(ctx, prefix+"1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"id":"1","name":"B"}`, val)

	keys, err := store.List(ctx, prefix)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{prefix + "1", prefix + "2"}, keys)
}

func TestRedisIntegration(t *testing.T) {
	addr := os.Getenv("ROSTER_REDIS_ADDR_INTEGRATION")
	if addr == "" {
		t.Skip("set ROSTER_REDIS_ADDR_INTEGRATION to run Redis integration tests")
	}
	r := NewRedis(config.RedisConfig{Addr: addr, KeyPrefix: "roster-test:"}, zap.NewNop())
	defer r.Close()

	exerciseStore(t, r, "staff_"+strconv.FormatInt(time.Now().UnixNano(), 10)+":")
}

func TestPostgresIntegration(t *testing.T) {
	dsn := os.Getenv("ROSTER_POSTGRES_DSN_INTEGRATION")
	if dsn == "" {
		t.Skip("set ROSTER_POSTGRES_DSN_INTEGRATION to run Postgres integration tests")
	}
	ctx := context.Background()
	pg, err := NewPostgres(ctx, config.PostgresConfig{DSN: dsn}, zap.NewNop())
	require.NoError(t, err)
	defer pg.Close()
	require.NoError(t, RunMigrations(ctx, pg.PoolHandle(), zap.NewNop()))

	// underscore in the prefix checks LIKE escaping
	exerciseStore(t, pg, "staff_"+strconv.FormatInt(time.Now().UnixNano(), 10)+":")
}
