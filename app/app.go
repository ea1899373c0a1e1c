// Package app 按 settings 组装服务：快照、缓存、后处理 Pipeline 与推荐服务。
package app

import (
	"context"
	"fmt"

	"github.com/rushteam/catrec/config"
	"github.com/rushteam/catrec/config/builders"
	"github.com/rushteam/catrec/core"
	"github.com/rushteam/catrec/dataset"
	"github.com/rushteam/catrec/explain"
	"github.com/rushteam/catrec/feast"
	"github.com/rushteam/catrec/pkg/logging"
	"github.com/rushteam/catrec/service"
	"github.com/rushteam/catrec/settings"
	"github.com/rushteam/catrec/store"
)

// App 持有服务运行期间的资源，Close 时统一释放。
type App struct {
	Settings    *settings.Settings
	Recommender *service.Recommender

	closers []func() error
}

// New 根据配置加载快照并创建推荐服务。
func New(ctx context.Context, s *settings.Settings) (*App, error) {
	a := &App{Settings: s}

	var redis *store.RedisStore
	if s.Redis.Enabled {
		rs, err := store.NewRedisStore(s.Redis.Config())
		if err != nil {
			return nil, err
		}
		redis = rs
		a.closers = append(a.closers, rs.Close)
	}

	var snapStore core.Store
	if redis != nil {
		snapStore = redis
	}
	snap, err := LoadSnapshot(ctx, s, snapStore)
	if err != nil {
		a.Close()
		return nil, err
	}
	logging.Info().
		Str("source", s.Data.Source).
		Int("users", snap.Users.Len()).
		Int("similarity_size", snap.Similarity.Len()).
		Msg("snapshot loaded")

	rec, err := service.NewRecommender(snap)
	if err != nil {
		a.Close()
		return nil, err
	}
	rec.Config = s.Recommend
	if rec.ExplainFields, err = explain.ParseFields(s.Recommend.ExplainFields); err != nil {
		a.Close()
		return nil, err
	}

	if s.Cache.Enabled {
		rec.Cache = newCache(s, redis)
		rec.CacheTTL = s.Cache.TTLSeconds()
		if redis == nil {
			a.closers = append(a.closers, rec.Cache.Close)
		}
		logging.Info().Str("cache", rec.Cache.Name()).Int("ttl_seconds", rec.CacheTTL).Msg("result cache enabled")
	}

	if redis != nil {
		builders.UseStore(redis)
	}
	if rec.PostProcess, err = config.LoadPipeline(s.Pipeline.Path); err != nil {
		a.Close()
		return nil, err
	}
	if rec.PostProcess.Len() > 0 {
		logging.Info().Str("path", s.Pipeline.Path).Int("nodes", rec.PostProcess.Len()).Msg("post-process pipeline loaded")
	}

	a.Recommender = rec
	return a, nil
}

func newCache(s *settings.Settings, redis *store.RedisStore) core.Store {
	if redis != nil {
		return store.NewBreakerStore(redis, s.Cache.Breaker)
	}
	return store.NewMemoryStore(store.WithCapacity(s.Cache.Capacity))
}

// LoadSnapshot 按 data.source 加载快照。source=store 时 redis 不能为空。
func LoadSnapshot(ctx context.Context, s *settings.Settings, redis core.Store) (*core.Snapshot, error) {
	switch s.Data.Source {
	case settings.SourceCSV:
		return dataset.LoadFiles(s.Data.UsersPath, s.Data.SimilarityPath)
	case settings.SourceStore:
		if redis == nil {
			return nil, fmt.Errorf("data.source=store requires redis")
		}
		return dataset.LoadSnapshot(ctx, redis, s.Data.SnapshotPrefix)
	case settings.SourceFeast:
		sim, err := dataset.LoadSimilarityFile(s.Data.SimilarityPath)
		if err != nil {
			return nil, err
		}
		cfg := s.Feast
		src, err := feast.NewUserSourceFromConfig(cfg)
		if err != nil {
			return nil, err
		}
		defer src.Client.Close()
		return dataset.BuildSnapshot(ctx, src, sim)
	default:
		return nil, fmt.Errorf("unknown data source %q", s.Data.Source)
	}
}

// Close 释放资源（可重复调用）。
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logging.Warn().Err(err).Msg("close resource")
		}
	}
	a.closers = nil
}
