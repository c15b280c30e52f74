package loader

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"nemostore-eda/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRaw() *domain.RawDataset {
	return &domain.RawDataset{
		Source:  "csv",
		Columns: []string{"title", "monthlyRent"},
		Rows:    []domain.RawRecord{{"title": "a", "monthlyRent": "50"}, {"title": "b", "monthlyRent": nil}},
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set(ctx, "k", sampleRaw())
	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, 2, got.Len())

	now = now.Add(2 * time.Minute)
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_SetSweepsExpiredEntries(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	for i := 0; i < 100; i++ {
		c.Set(ctx, fmt.Sprintf("csv:%03d", i), sampleRaw())
	}
	assert.Equal(t, 100, c.Len())

	now = now.Add(time.Hour)
	c.Set(ctx, "csv:fresh", sampleRaw())
	assert.Equal(t, 1, c.Len())
	_, ok := c.Get(ctx, "csv:fresh")
	assert.True(t, ok)
}

func TestMemoryCache_IsolatesCallers(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0)
	src := sampleRaw()
	c.Set(ctx, "k", src)
	src.Rows[0]["title"] = "changed after set"

	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "a", got.Rows[0]["title"])
	got.Rows[0]["title"] = "changed after get"

	again, _ := c.Get(ctx, "k")
	assert.Equal(t, "a", again.Rows[0]["title"])

	c.Delete(ctx, "k")
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestRedisCache_WithMiniredis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	ctx := context.Background()
	c := NewRedisCache(rdb, time.Minute)
	require.NoError(t, c.Ping(ctx))

	_, ok := c.Get(ctx, "csv:abc")
	assert.False(t, ok)

	c.Set(ctx, "csv:abc", sampleRaw())
	assert.True(t, mr.Exists(RedisKeyPrefix+"csv:abc"))

	got, ok := c.Get(ctx, "csv:abc")
	require.True(t, ok)
	assert.Equal(t, []string{"title", "monthlyRent"}, got.Columns)
	assert.Equal(t, "50", got.Rows[0]["monthlyRent"])
	assert.Nil(t, got.Rows[1]["monthlyRent"])

	mr.FastForward(2 * time.Minute)
	_, ok = c.Get(ctx, "csv:abc")
	assert.False(t, ok)
}

func TestRedisCache_CorruptEntry(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	require.NoError(t, mr.Set(RedisKeyPrefix+"k", "not json"))
	c := NewRedisCache(rdb, 0)
	_, ok := c.Get(context.Background(), "k")
	assert.False(t, ok)
	assert.False(t, mr.Exists(RedisKeyPrefix+"k"))
}

func TestLoader_WithRedisCache(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	l := New(nil, "", NewRedisCache(rdb, time.Minute))
	ctx := context.Background()
	body := "title,monthlyRent\na,50\n"
	_, key, err := l.LoadCSV(ctx, "a.csv", strings.NewReader(body))
	require.NoError(t, err)

	got, err := l.Lookup(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Rows[0]["title"])
}
