package repository

import (
	"context"
	"testing"
	"time"

	"design-o-pedia-go/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisRepo(t *testing.T, ttl time.Duration) (ReviewRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisReviewRepository(client, "boot", ttl), mr
}

func reviewRepos(t *testing.T) map[string]ReviewRepository {
	redisRepo, _ := newRedisRepo(t, time.Hour)
	return map[string]ReviewRepository{
		"memory": NewMemoryReviewRepository(time.Hour),
		"redis":  redisRepo,
	}
}

func TestReviewRepository_AppendKeepsInsertionOrder(t *testing.T) {
	for name, repo := range reviewRepos(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, repo.Init(ctx, "s1"))

			got, err := repo.List(ctx, "s1")
			require.NoError(t, err)
			assert.Empty(t, got)

			for _, text := range []string{"A", "B", " C "} {
				require.NoError(t, repo.Append(ctx, "s1", model.ReviewEntry{Text: text}))
			}

			got, err = repo.List(ctx, "s1")
			require.NoError(t, err)
			assert.Equal(t, []model.ReviewEntry{{Text: "A"}, {Text: "B"}, {Text: " C "}}, got)
		})
	}
}

func TestReviewRepository_SessionsAreIsolated(t *testing.T) {
	for name, repo := range reviewRepos(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, repo.Append(ctx, "s1", model.ReviewEntry{Text: "mine"}))

			got, err := repo.List(ctx, "s2")
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestReviewRepository_Clear(t *testing.T) {
	for name, repo := range reviewRepos(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, repo.Append(ctx, "s1", model.ReviewEntry{Text: "A"}))
			require.NoError(t, repo.Clear(ctx, "s1"))

			got, err := repo.List(ctx, "s1")
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestMemoryReviewRepository_Sweep(t *testing.T) {
	repo := NewMemoryReviewRepository(time.Minute)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return base }
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, "old", model.ReviewEntry{Text: "A"}))
	repo.now = func() time.Time { return base.Add(50 * time.Second) }
	require.NoError(t, repo.Append(ctx, "fresh", model.ReviewEntry{Text: "B"}))

	assert.Equal(t, 1, repo.Sweep(base.Add(90*time.Second)))

	got, err := repo.List(ctx, "fresh")
	require.NoError(t, err)
	assert.Len(t, got, 1)
	got, err = repo.List(ctx, "old")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisReviewRepository_ExpiresWithTTL(t *testing.T) {
	repo, mr := newRedisRepo(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, "s1", model.ReviewEntry{Text: "A"}))
	assert.Equal(t, time.Minute, mr.TTL("session:boot:s1:reviews"))

	mr.FastForward(2 * time.Minute)

	got, err := repo.List(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, got)
}
