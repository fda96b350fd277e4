package emailaccount

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const stateKeyPrefix = "oauthstate:"

// RedisStateStore keeps OAuth CSRF nonces in redis with a TTL. SetNX makes
// nonce reuse lose; GETDEL makes consumption single-shot.
type RedisStateStore struct{ rdb *redis.Client }

func NewRedisStateStore(rdb *redis.Client) *RedisStateStore { return &RedisStateStore{rdb: rdb} }

func (s *RedisStateStore) Put(ctx context.Context, nonce string, libraryID uint64, ttl time.Duration) error {
	return s.rdb.SetNX(ctx, stateKeyPrefix+nonce, strconv.FormatUint(libraryID, 10), ttl).Err()
}

func (s *RedisStateStore) Consume(ctx context.Context, nonce string) (uint64, bool, error) {
	val, err := s.rdb.GetDel(ctx, stateKeyPrefix+nonce).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	libID, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, false, nil
	}
	return libID, true, nil
}
