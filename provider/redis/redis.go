// Package redis is the cloud key-value tier. Values live under a namespace
// prefix, an index set tracks live keys for quota checks, and every write is
// announced on a pub/sub channel so other processes can evict their copy.
package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	pr "github.com/0xLeif/AppState-sub000/provider"
)

var ErrNilClient = errors.New("redis provider: nil client")

// Defaults mirror the limits of common device-synced KV stores.
const (
	DefaultMaxValueBytes = 1 << 20
	DefaultMaxKeys       = 1024
)

type Redis struct {
	rdb         goredis.UniversalClient
	closeClient bool
	ns          string
	maxValue    int
	maxKeys     int64
	origin      string
}

var (
	_ pr.Provider = (*Redis)(nil)
	_ pr.Lister   = (*Redis)(nil)
)

type Config struct {
	Client      goredis.UniversalClient
	CloseClient bool // set true only if this provider exclusively owns the client

	Namespace     string // key prefix; default "appstate"
	MaxValueBytes int    // 0 => DefaultMaxValueBytes; <0 => unlimited
	MaxKeys       int64  // 0 => DefaultMaxKeys; <0 => unlimited
}

func New(cfg Config) (*Redis, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	ns := cfg.Namespace
	if ns == "" {
		ns = "appstate"
	}
	maxValue := cfg.MaxValueBytes
	if maxValue == 0 {
		maxValue = DefaultMaxValueBytes
	}
	maxKeys := cfg.MaxKeys
	if maxKeys == 0 {
		maxKeys = DefaultMaxKeys
	}
	return &Redis{
		rdb:         cfg.Client,
		closeClient: cfg.CloseClient,
		ns:          ns,
		maxValue:    maxValue,
		maxKeys:     maxKeys,
		origin:      uuid.NewString(),
	}, nil
}

func (p *Redis) key(k string) string { return "kv:" + p.ns + ":" + k }
func (p *Redis) index() string       { return "kv:" + p.ns + ":__keys" }

// Channel is the pub/sub channel change notices are published on.
func (p *Redis) Channel() string { return "kv:" + p.ns + ":__changes" }

func (p *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := p.rdb.Get(ctx, p.key(key)).Bytes()
	if err == goredis.Nil {
		return nil, false, nil // miss
	}
	if err != nil {
		return nil, false, err // transport/server error
	}
	return b, true, nil
}

// Set rejects values over MaxValueBytes and new keys beyond MaxKeys with
// provider.ErrQuotaExceeded. The key-count check is best effort under
// concurrent writers.
func (p *Redis) Set(ctx context.Context, key string, value []byte, _ int64) (bool, error) {
	if p.maxValue > 0 && len(value) > p.maxValue {
		return false, fmt.Errorf("%w: value of %d bytes for %q", pr.ErrQuotaExceeded, len(value), key)
	}
	if p.maxKeys > 0 {
		known, err := p.rdb.SIsMember(ctx, p.index(), key).Result()
		if err != nil {
			return false, err
		}
		if !known {
			n, err := p.rdb.SCard(ctx, p.index()).Result()
			if err != nil {
				return false, err
			}
			if n >= p.maxKeys {
				return false, fmt.Errorf("%w: %d keys", pr.ErrQuotaExceeded, n)
			}
		}
	}

	_, err := p.rdb.TxPipelined(ctx, func(tx goredis.Pipeliner) error {
		tx.Set(ctx, p.key(key), value, 0)
		tx.SAdd(ctx, p.index(), key)
		tx.Publish(ctx, p.Channel(), p.notice(key))
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (p *Redis) Del(ctx context.Context, key string) error {
	_, err := p.rdb.TxPipelined(ctx, func(tx goredis.Pipeliner) error {
		tx.Del(ctx, p.key(key))
		tx.SRem(ctx, p.index(), key)
		tx.Publish(ctx, p.Channel(), p.notice(key))
		return nil
	})
	return err
}

func (p *Redis) Keys(ctx context.Context) ([]string, error) {
	keys, err := p.rdb.SMembers(ctx, p.index()).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

// Subscribe delivers keys changed by other Redis providers on the same
// namespace until ctx is done. Notices this provider published are skipped.
func (p *Redis) Subscribe(ctx context.Context, fn func(key string)) error {
	sub := p.rdb.Subscribe(ctx, p.Channel())
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			origin, key, ok := parseNotice(msg.Payload)
			if !ok || origin == p.origin {
				continue
			}
			fn(key)
		}
	}
}

// Close releases the underlying redis client only when this provider owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (p *Redis) Close(context.Context) error {
	if p.closeClient {
		if err := p.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}

func (p *Redis) notice(key string) string { return p.origin + " " + key }

func parseNotice(s string) (origin, key string, ok bool) {
	return strings.Cut(s, " ")
}
