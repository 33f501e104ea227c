package sessions

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRepository stores issued-token records as JSON under
// "<prefix><jti>" with TTL = ExpiresAt - now, so Redis expires dead tokens
// on its own.
type RedisRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisRepository creates a Redis-backed repository. Prefix may be empty.
func NewRedisRepository(client *redis.Client, prefix string) *RedisRepository {
	if prefix == "" {
		prefix = "token:"
	}
	return &RedisRepository{client: client, prefix: prefix}
}

func (r *RedisRepository) key(jti string) string { return r.prefix + jti }

func (r *RedisRepository) userKey(userID string) string { return r.prefix + "user:" + userID }

func (r *RedisRepository) Create(ctx context.Context, rec *Record) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	ttl := time.Until(rec.ExpiresAt)
	if ttl <= 0 {
		// never store an already-expired record without a TTL
		ttl = time.Second
	}
	if err := r.client.Set(ctx, r.key(rec.JTI), b, ttl).Err(); err != nil {
		return err
	}
	// secondary index for revoke-all-by-user
	if err := r.client.SAdd(ctx, r.userKey(rec.UserID), rec.JTI).Err(); err != nil {
		return err
	}
	return r.client.Expire(ctx, r.userKey(rec.UserID), ttl).Err()
}

func (r *RedisRepository) GetByJTI(ctx context.Context, jti string) (*Record, error) {
	b, err := r.client.Get(ctx, r.key(jti)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, err
	}
	if time.Now().UTC().After(rec.ExpiresAt) {
		_ = r.client.Del(ctx, r.key(jti)).Err()
		return nil, nil
	}
	return &rec, nil
}

func (r *RedisRepository) DeleteByJTI(ctx context.Context, jti string) error {
	return r.client.Del(ctx, r.key(jti)).Err()
}

func (r *RedisRepository) DeleteByUser(ctx context.Context, userID string) error {
	jtis, err := r.client.SMembers(ctx, r.userKey(userID)).Result()
	if err != nil && err != redis.Nil {
		return err
	}
	for _, jti := range jtis {
		if err := r.client.Del(ctx, r.key(jti)).Err(); err != nil {
			return err
		}
	}
	return r.client.Del(ctx, r.userKey(userID)).Err()
}
