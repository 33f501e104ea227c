package sessions

import (
	"context"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newRedisRepo(t *testing.T) (*mr.Miniredis, *RedisRepository) {
	t.Helper()
	m, err := mr.Run()
	require.NoError(t, err)
	t.Cleanup(m.Close)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	return m, NewRedisRepository(client, "test:token:")
}

func TestRedisRepositoryIssueAndRevoke(t *testing.T) {
	_, repo := newRedisRepo(t)
	svc := NewService(repo)
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, "jti-1", "u1", time.Hour))

	live, err := svc.Live(ctx, "jti-1")
	require.NoError(t, err)
	require.True(t, live)

	require.NoError(t, svc.Revoke(ctx, "jti-1"))
	live, err = svc.Live(ctx, "jti-1")
	require.NoError(t, err)
	require.False(t, live)

	// revoking an unknown jti is a no-op
	require.NoError(t, svc.Revoke(ctx, "jti-unknown"))
}

func TestRedisRepositoryRevokeUser(t *testing.T) {
	_, repo := newRedisRepo(t)
	svc := NewService(repo)
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, "jti-1", "u1", time.Hour))
	require.NoError(t, svc.Issue(ctx, "jti-2", "u1", time.Hour))
	require.NoError(t, svc.Issue(ctx, "jti-3", "u2", time.Hour))

	require.NoError(t, svc.RevokeUser(ctx, "u1"))

	for _, jti := range []string{"jti-1", "jti-2"} {
		live, err := svc.Live(ctx, jti)
		require.NoError(t, err)
		require.False(t, live, "jti %s", jti)
	}
	live, err := svc.Live(ctx, "jti-3")
	require.NoError(t, err)
	require.True(t, live, "other users' tokens survive")
}

func TestRedisRepositoryTTLExpiry(t *testing.T) {
	m, repo := newRedisRepo(t)
	svc := NewService(repo)
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, "jti-ttl", "u1", 2*time.Second))

	live, err := svc.Live(ctx, "jti-ttl")
	require.NoError(t, err)
	require.True(t, live)

	m.FastForward(3 * time.Second)

	live, err = svc.Live(ctx, "jti-ttl")
	require.NoError(t, err)
	require.False(t, live, "token dies when its TTL elapses")
}

func TestMemoryRepositoryExpiry(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &Record{
		JTI:       "jti-old",
		UserID:    "u1",
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
	}))

	rec, err := repo.GetByJTI(ctx, "jti-old")
	require.NoError(t, err)
	require.Nil(t, rec, "expired records read as absent")
}
