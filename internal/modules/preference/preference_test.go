// README: Preference service tests against the in-memory store, plus Redis/Firestore when available.
package preference

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripwise/internal/ai"
)

type countingEmbedder struct {
	inner ai.Embedder
	calls int
}

func (c *countingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	c.calls++
	return c.inner.Embed(ctx, text)
}

func (c *countingEmbedder) Dimensions() int { return c.inner.Dimensions() }

type shortEmbedder struct{}

func (shortEmbedder) Embed(context.Context, string) ([]float32, error) { return []float32{1, 0}, nil }
func (shortEmbedder) Dimensions() int                                  { return 3 }

func TestRecall_NoHistorySentinel(t *testing.T) {
	svc := NewService(NewMemoryStore(), ai.NewHashEmbedder(0))
	got, err := svc.Recall(context.Background(), "user123", "JFK to Paris", 0)
	require.NoError(t, err)
	assert.Equal(t, NoHistory, got)
}

func TestRecordThenRecall(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore(), ai.NewHashEmbedder(0))

	q := "JFK to Paris, 3 days starting 2025-10-01, prefs=museums"
	require.NoError(t, svc.Record(ctx, "user123", "Tokyo sushi and temples", nil))
	require.NoError(t, svc.Record(ctx, "user123", q, map[string]string{"name": "Paris"}))

	got, err := svc.Recall(ctx, "user123", q, 1)
	require.NoError(t, err)
	assert.Equal(t, q, got)

	got, err = svc.Recall(ctx, "user123", q, 5)
	require.NoError(t, err)
	assert.Equal(t, q+Separator+"Tokyo sushi and temples", got)
}

func TestRecall_IsolatesUsers(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	svc := NewService(store, ai.NewHashEmbedder(0))

	require.NoError(t, svc.Record(ctx, "alice", "museums in Paris", nil))
	require.NoError(t, svc.Record(ctx, "bob", "museums in Paris", nil))
	require.NoError(t, svc.Record(ctx, "bob", "beaches in Bali", nil))

	got, err := svc.Recall(ctx, "alice", "museums in Paris", 10)
	require.NoError(t, err)
	assert.Equal(t, "museums in Paris", got)

	recs, err := store.Nearest(ctx, "carol", make([]float32, ai.DefaultHashDimensions), 3)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestRecord_NoDeduplication(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	svc := NewService(store, ai.NewHashEmbedder(0))
	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Record(ctx, "u", "same query", nil))
	}
	got, err := svc.Recall(ctx, "u", "same query", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(got, "same query"))
}

func TestService_CachesEmbeddings(t *testing.T) {
	ctx := context.Background()
	emb := &countingEmbedder{inner: ai.NewHashEmbedder(0)}
	svc := NewService(NewMemoryStore(), emb)

	_, err := svc.Recall(ctx, "u", "JFK to Paris", 3)
	require.NoError(t, err)
	require.NoError(t, svc.Record(ctx, "u", "JFK to Paris", nil))
	assert.Equal(t, 1, emb.calls)
}

func TestService_RejectsWrongDimension(t *testing.T) {
	svc := NewService(NewMemoryStore(), shortEmbedder{})
	_, err := svc.Recall(context.Background(), "u", "q", 3)
	assert.True(t, errors.Is(err, ErrDimension), "got %v", err)
	assert.ErrorIs(t, svc.Record(context.Background(), "u", "q", nil), ErrDimension)
}

func TestRankNearest(t *testing.T) {
	recs := []Record{
		{Query: "far", Embedding: []float32{0, 1}},
		{Query: "near", Embedding: []float32{1, 0.1}},
		{Query: "tie", Embedding: []float32{0, 1}},
		{Query: "zero", Embedding: []float32{0, 0}},
	}
	got := rankNearest(recs, []float32{1, 0}, 3)
	require.Len(t, got, 3)
	assert.Equal(t, "near", got[0].Query)
	assert.Equal(t, "far", got[1].Query)
	assert.Equal(t, "tie", got[2].Query)

	assert.Empty(t, rankNearest(nil, []float32{1}, 3))
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("TRIP_TEST_REDIS")
	if addr == "" {
		t.Skip("TRIP_TEST_REDIS not set")
	}
	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { rdb.Close() })
	require.NoError(t, rdb.Ping(ctx).Err())

	uid := fmt.Sprintf("test-%d", time.Now().UnixNano())
	t.Cleanup(func() { rdb.Del(context.Background(), userKey(uid)) })

	svc := NewService(NewRedisStore(rdb), ai.NewHashEmbedder(0))
	require.NoError(t, svc.Record(ctx, uid, "museums and Italian food", nil))
	require.NoError(t, svc.Record(ctx, uid, "hiking in the Alps", nil))

	got, err := svc.Recall(ctx, uid, "museums and Italian food", 1)
	require.NoError(t, err)
	assert.Equal(t, "museums and Italian food", got)
}

func TestFirestoreStore(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	ctx := context.Background()
	client, err := firestore.NewClient(ctx, "tripwise-test")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	uid := fmt.Sprintf("test-%d", time.Now().UnixNano())
	svc := NewService(NewFirestoreStore(client, "trip_preferences_test"), ai.NewHashEmbedder(0))
	require.NoError(t, svc.Record(ctx, uid, "museums and Italian food", map[string]string{"name": "Rome"}))

	got, err := svc.Recall(ctx, uid, "museums and Italian food", 3)
	require.NoError(t, err)
	assert.Equal(t, "museums and Italian food", got)
}
