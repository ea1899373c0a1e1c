// Package store 提供 core.Store 的实现：内存、Redis，以及给任意 Store 加熔断的 BreakerStore。
//
// 接口定义在 core 包：
//
//	var cache core.Store = store.NewMemoryStore()
//	var cache core.Store = store.NewBreakerStore(redisStore, store.BreakerConfig{})
package store

import "github.com/rushteam/catrec/core"

// 与 core 包保持一致的错误，便于在本包内直接使用。
var (
	ErrNotFound    = core.ErrStoreNotFound
	ErrUnavailable = core.ErrStoreUnavailable
)
