// Package inflight tracks registrations that are currently running, locally and across instances
package inflight

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	perr "ipvault/internal/platform/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces lock keys in redis
const KeyPrefix = "ipvault:inflight:"

// Release drops a held lock
type Release func(ctx context.Context) error

// Locker grants exclusive ownership of a key for at most ttl
type Locker interface {
	// Acquire fails with ErrorCodeConflict when another holder owns key
	Acquire(ctx context.Context, key string, ttl time.Duration) (Release, error)
}

// Key is the idempotence key for one owner and content hash
func Key(owner, hash string) string {
	return strings.ToLower(strings.TrimSpace(owner)) + "|" + strings.TrimSpace(hash)
}

// Held reports the conflict returned when the key is owned elsewhere
func Held(key string) error {
	return perr.WithField(perr.Conflictf("registration already in flight for %s", key), "hash")
}

// Nop grants every lock, used when redis is not configured
type Nop struct{}

func (Nop) Acquire(context.Context, string, time.Duration) (Release, error) {
	return func(context.Context) error { return nil }, nil
}

// unlockScript deletes the key only while it still carries our token
// KEYS[1] = lock key
// ARGV[1] = holder token
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// client is the part of *redis.Client the lock uses
type client interface {
	redis.Scripter
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// Redis is a SET NX PX lock with a compare and delete release
type Redis struct {
	rdb   client
	token func() string
}

// NewRedis wraps a connected client
func NewRedis(rdb *redis.Client) *Redis {
	return &Redis{rdb: rdb, token: uuid.NewString}
}

func (l *Redis) Acquire(ctx context.Context, key string, ttl time.Duration) (Release, error) {
	if ttl <= 0 {
		return nil, perr.InvalidArgf("lock ttl must be positive")
	}
	k := KeyPrefix + key
	tok := l.token()
	ok, err := l.rdb.SetNX(ctx, k, tok, ttl).Result()
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "inflight lock")
	}
	if !ok {
		return nil, Held(key)
	}
	return func(ctx context.Context) error {
		if err := unlockScript.Run(ctx, l.rdb, []string{k}, tok).Err(); err != nil && err != redis.Nil {
			return perr.Wrap(err, perr.ErrorCodeUnavailable, "inflight unlock")
		}
		return nil
	}, nil
}

// Set is the local view of running keys
type Set struct {
	mu   sync.Mutex
	keys map[string]int
}

// NewSet returns an empty set
func NewSet() *Set { return &Set{keys: map[string]int{}} }

// Add marks key running and returns the matching done func
func (s *Set) Add(key string) (done func()) {
	s.mu.Lock()
	s.keys[key]++
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.keys[key] <= 1 {
				delete(s.keys, key)
				return
			}
			s.keys[key]--
		})
	}
}

// Keys lists running keys in sorted order
func (s *Set) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.keys))
	for k := range s.keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Len is the number of running keys
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys)
}
