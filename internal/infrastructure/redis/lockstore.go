package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/idrissabarry/vendgate/internal/domain/lock"
	goredis "github.com/redis/go-redis/v9"
)

// Lua script for safe lock release (only owner can release)
var releaseLockScript = goredis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

// LockStore provides atomic create-if-absent locks with expiry, backed by
// Redis SET NX. The TTL is a safety net against crash-without-release; locks
// are normally released explicitly.
type LockStore struct {
	client *goredis.Client
}

func NewLockStore(client *goredis.Client) *LockStore {
	return &LockStore{client: client}
}

// TryAcquire attempts to atomically create the lock. It returns the acquired
// lock and true iff the key was newly created; (nil, false) means the key is
// already held by someone else.
func (s *LockStore) TryAcquire(ctx context.Context, key string, ttl time.Duration) (lock.Unlocker, bool, error) {
	value := uuid.New().String()
	ok, err := s.client.SetNX(ctx, "lock:"+key, value, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire lock %q: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}
	return &Lock{client: s.client, key: "lock:" + key, value: value}, true, nil
}

// Lock is a held lock entry. Release is idempotent and only deletes the key
// while this holder still owns it.
type Lock struct {
	client   *goredis.Client
	key      string
	value    string
	released bool
}

func (l *Lock) Release(ctx context.Context) error {
	if l.released {
		return nil
	}

	_, err := releaseLockScript.Run(ctx, l.client, []string{l.key}, l.value).Result()
	if err != nil {
		return fmt.Errorf("failed to release lock %q: %w", l.key, err)
	}

	l.released = true
	return nil
}

func (l *Lock) Key() string {
	return l.key
}
