// Package snapshot keeps the last good API responses in Redis so they can be
// served again without touching the upstream.
package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/redis"
)

// Store persists encoded response payloads under cache keys.
type Store interface {
	// Load decodes the payload stored under key into out. It reports false
	// when nothing usable is stored.
	Load(ctx context.Context, key string, out any) (bool, error)
	// Save stores v under key.
	Save(ctx context.Context, key string, v any) error
}

type envelope struct {
	StoredAt int64  `msgpack:"stored_at"`
	Payload  []byte `msgpack:"payload"`
}

// RedisStore is a Store backed by Redis with msgpack payloads. Entries
// expire after maxAge both through SETEX and through the stored timestamp.
type RedisStore struct {
	rds    *redis.Redis
	maxAge time.Duration
	now    func() time.Time
}

// RedisOption customises a RedisStore.
type RedisOption func(*RedisStore)

// WithNow overrides the clock used to age entries.
func WithNow(now func() time.Time) RedisOption {
	return func(s *RedisStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewRedisStore wraps rds. A nil client yields a nil store.
func NewRedisStore(rds *redis.Redis, maxAge time.Duration, opts ...RedisOption) *RedisStore {
	if rds == nil {
		return nil
	}
	if maxAge < time.Second {
		maxAge = time.Second
	}
	s := &RedisStore{rds: rds, maxAge: maxAge, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) Load(ctx context.Context, key string, out any) (bool, error) {
	if s == nil {
		return false, nil
	}
	raw, err := s.rds.GetCtx(ctx, key)
	if err != nil {
		return false, fmt.Errorf("snapshot: get %s: %w", key, err)
	}
	if raw == "" {
		return false, nil
	}

	var env envelope
	if err := msgpack.Unmarshal([]byte(raw), &env); err != nil {
		return false, fmt.Errorf("snapshot: decode envelope %s: %w", key, err)
	}
	if s.now().Sub(time.UnixMilli(env.StoredAt)) > s.maxAge {
		return false, nil
	}
	if err := decode(env.Payload, out); err != nil {
		return false, fmt.Errorf("snapshot: decode payload %s: %w", key, err)
	}
	return true, nil
}

func (s *RedisStore) Save(ctx context.Context, key string, v any) error {
	if s == nil {
		return nil
	}
	payload, err := encode(v)
	if err != nil {
		return fmt.Errorf("snapshot: encode payload %s: %w", key, err)
	}
	raw, err := msgpack.Marshal(envelope{StoredAt: s.now().UnixMilli(), Payload: payload})
	if err != nil {
		return fmt.Errorf("snapshot: encode envelope %s: %w", key, err)
	}
	if err := s.rds.SetexCtx(ctx, key, string(raw), int(s.maxAge/time.Second)); err != nil {
		return fmt.Errorf("snapshot: set %s: %w", key, err)
	}
	return nil
}

// encode uses json tags so stored payloads mirror the API field names.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(data []byte, out any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	return dec.Decode(out)
}

// Loader is the read-through helper used by the logic layer: it serves a
// stored response when present, otherwise runs compute and saves its result.
// Store failures are logged and never fail the request.
func Loader[T any](ctx context.Context, store Store, key string, compute func() (T, error)) (T, error) {
	if store == nil {
		return compute()
	}
	var cached T
	ok, err := store.Load(ctx, key, &cached)
	if err != nil {
		logx.WithContext(ctx).Errorf("snapshot: load key=%s err=%v", key, err)
	}
	if ok {
		return cached, nil
	}

	v, err := compute()
	if err != nil {
		return v, err
	}
	if err := store.Save(ctx, key, v); err != nil {
		logx.WithContext(ctx).Errorf("snapshot: save key=%s err=%v", key, err)
	}
	return v, nil
}

type refreshing struct {
	Store
}

// Refreshing wraps store so loads always miss while saves still land. Used
// to overwrite entries that are not yet expired.
func Refreshing(store Store) Store {
	if store == nil {
		return nil
	}
	return refreshing{Store: store}
}

func (refreshing) Load(context.Context, string, any) (bool, error) {
	return false, nil
}
