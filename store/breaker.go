package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/rushteam/catrec/core"
	"github.com/rushteam/catrec/pkg/logging"
)

// BreakerConfig 是熔断器配置。零值字段使用默认值。
type BreakerConfig struct {
	Name             string        `koanf:"name"`
	MaxRequests      uint32        `koanf:"max_requests"`      // 半开状态允许通过的请求数，默认 1
	Interval         time.Duration `koanf:"interval"`          // 闭合状态清零计数的周期，默认 60s
	Timeout          time.Duration `koanf:"timeout"`           // 打开后多久进入半开，默认 30s
	FailureThreshold uint32        `koanf:"failure_threshold"` // 连续失败多少次打开，默认 5
}

func (c BreakerConfig) withDefaults(backend string) BreakerConfig {
	if c.Name == "" {
		c.Name = "store." + backend
	}
	if c.MaxRequests == 0 {
		c.MaxRequests = 1
	}
	if c.Interval <= 0 {
		c.Interval = 60 * time.Second
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.FailureThreshold == 0 {
		c.FailureThreshold = 5
	}
	return c
}

// BreakerStore 给任意 Store 加熔断：后端连续失败后快速返回 ErrUnavailable，
// 查询路径因此可以降级为不走缓存。key 不存在不计为失败。
type BreakerStore struct {
	next core.Store
	cb   *gobreaker.CircuitBreaker[[]byte]
}

var _ core.Store = (*BreakerStore)(nil)

// NewBreakerStore 用熔断器包装 next。
func NewBreakerStore(next core.Store, cfg BreakerConfig) *BreakerStore {
	cfg = cfg.withDefaults(next.Name())
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || core.IsStoreNotFound(err) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("store circuit breaker state changed")
		},
	}
	return &BreakerStore{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[[]byte](settings),
	}
}

// State 返回熔断器当前状态（closed / half-open / open）。
func (b *BreakerStore) State() string {
	return b.cb.State().String()
}

func (b *BreakerStore) Name() string { return b.next.Name() }

func (b *BreakerStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := b.cb.Execute(func() ([]byte, error) {
		return b.next.Get(ctx, key)
	})
	return val, mapBreakerErr(err)
}

func (b *BreakerStore) Set(ctx context.Context, key string, value []byte, ttl ...int) error {
	_, err := b.cb.Execute(func() ([]byte, error) {
		return nil, b.next.Set(ctx, key, value, ttl...)
	})
	return mapBreakerErr(err)
}

func (b *BreakerStore) Delete(ctx context.Context, key string) error {
	_, err := b.cb.Execute(func() ([]byte, error) {
		return nil, b.next.Delete(ctx, key)
	})
	return mapBreakerErr(err)
}

func (b *BreakerStore) BatchGet(ctx context.Context, keys []string) (map[string][]byte, error) {
	var out map[string][]byte
	_, err := b.cb.Execute(func() ([]byte, error) {
		var err error
		out, err = b.next.BatchGet(ctx, keys)
		return nil, err
	})
	if err != nil {
		return nil, mapBreakerErr(err)
	}
	return out, nil
}

func (b *BreakerStore) BatchSet(ctx context.Context, kvs map[string][]byte, ttl ...int) error {
	_, err := b.cb.Execute(func() ([]byte, error) {
		return nil, b.next.BatchSet(ctx, kvs, ttl...)
	})
	return mapBreakerErr(err)
}

func (b *BreakerStore) Close() error {
	return b.next.Close()
}

func mapBreakerErr(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}
