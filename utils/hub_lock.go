package utils

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const hubLockKeyPrefix = "thr_hub_lock__"

// ErrLockBusy is returned by TryLock when another holder owns the key.
var ErrLockBusy = errors.New("lock is held by another submission")

// HubLocker serialises writers of the same hub. The returned unlock function
// must be called exactly once.
type HubLocker interface {
	TryLock(ctx context.Context, key string) (unlock func(), err error)
}

// releaseScript deletes the key only if it still carries our token, so an
// expired lock re-acquired by someone else is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

type RedisHubLocker struct {
	inner *redis.Client
	ttl   time.Duration
}

// GetRedisClient builds a client from REDIS_HOST, REDIS_PORT and REDIS_PASSWD.
func GetRedisClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT")),
		Password: os.Getenv("REDIS_PASSWD"),
		DB:       0, // use default DB
	})
}

func NewRedisHubLocker(client *redis.Client, ttl time.Duration) *RedisHubLocker {
	return &RedisHubLocker{inner: client, ttl: ttl}
}

func (r *RedisHubLocker) TryLock(ctx context.Context, key string) (func(), error) {
	redisKey := hubLockKeyPrefix + key
	token := uuid.NewString()
	ok, err := r.inner.SetNX(ctx, redisKey, token, r.ttl).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "acquire hub lock %s", key)
	}
	if !ok {
		return nil, ErrLockBusy
	}
	return func() {
		// The request context may already be cancelled when we release.
		releaseScript.Run(context.Background(), r.inner, []string{redisKey}, token)
	}, nil
}

// LocalHubLocker is an in-process HubLocker for single instance deployments
// and tests.
type LocalHubLocker struct {
	m    sync.Mutex
	held map[string]bool
}

func NewLocalHubLocker() *LocalHubLocker {
	return &LocalHubLocker{held: map[string]bool{}}
}

func (l *LocalHubLocker) TryLock(_ context.Context, key string) (func(), error) {
	l.m.Lock()
	defer l.m.Unlock()
	if l.held[key] {
		return nil, ErrLockBusy
	}
	l.held[key] = true
	var once sync.Once
	return func() {
		once.Do(func() {
			l.m.Lock()
			defer l.m.Unlock()
			delete(l.held, key)
		})
	}, nil
}
