// Package service 把邻居选择、类别聚合与解释表组装成一次完整的推荐查询。
package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/catrec/category"
	"github.com/rushteam/catrec/core"
	"github.com/rushteam/catrec/explain"
	"github.com/rushteam/catrec/pipeline"
	"github.com/rushteam/catrec/pkg/logging"
	"github.com/rushteam/catrec/pkg/validation"
	"github.com/rushteam/catrec/recall"
)

// ErrInvalidQuery 表示查询参数不合法（调用方错误）。
var ErrInvalidQuery = core.NewDomainError(core.ModuleRecommend, core.ErrorCodeInvalidInput, "recommend: invalid query")

// Query 是一次推荐查询。TopKNeighbors / TopNCategories 为 0 时使用默认值。
type Query struct {
	UserID         string `validate:"required"`
	TopKNeighbors  int    `validate:"gte=0"`
	TopNCategories int    `validate:"gte=0"`
}

// Recommender 在一份不可变快照上回答推荐查询，可并发使用。
//
// 每次查询只调用一次邻居选择，类别聚合与解释表共享同一个邻居集合。
type Recommender struct {
	snapshot atomic.Pointer[core.Snapshot]

	// Cache 结果缓存（可选）
	Cache core.Store

	// CacheTTL 缓存过期时间（秒），<= 0 表示不过期
	CacheTTL int

	// PostProcess 类别结果的后处理（可选）
	PostProcess *pipeline.Pipeline

	// Config 默认值与上限
	Config core.RecommendConfig

	// ExplainFields 解释表的列，空时使用默认列
	ExplainFields []core.Field

	// Recall 邻居召回源（可选），为空时使用当前快照的 recall.U2UNeighbors
	Recall recall.Source
}

// NewRecommender 创建推荐服务。snap 不能为空。
func NewRecommender(snap *core.Snapshot) (*Recommender, error) {
	r := &Recommender{Config: &core.DefaultRecommendConfig{}}
	if err := r.SetSnapshot(snap); err != nil {
		return nil, err
	}
	return r, nil
}

// Snapshot 返回当前快照。
func (r *Recommender) Snapshot() *core.Snapshot {
	return r.snapshot.Load()
}

// SetSnapshot 原子替换快照；进行中的查询继续使用旧快照。
// 替换后旧的缓存结果不再命中（缓存 key 带快照版本）。
func (r *Recommender) SetSnapshot(snap *core.Snapshot) error {
	if snap == nil || snap.Users == nil || snap.Similarity == nil {
		return core.InvalidInputf(core.ModuleRecommend, "incomplete snapshot")
	}
	r.snapshot.Store(snap)
	SnapshotUsers.Set(float64(snap.Users.Len()))
	SnapshotSize.Set(float64(snap.Similarity.Len()))
	return nil
}

func (r *Recommender) config() core.RecommendConfig {
	if r.Config == nil {
		return &core.DefaultRecommendConfig{}
	}
	return r.Config
}

// Resolve 校验查询并填充默认值；超出上限或为负时返回 ErrInvalidQuery。
func (r *Recommender) Resolve(q Query) (Query, error) {
	if err := validation.Struct(q); err != nil {
		return q, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	cfg := r.config()
	if q.TopKNeighbors == 0 {
		q.TopKNeighbors = cfg.DefaultTopKNeighbors()
	}
	if q.TopNCategories == 0 {
		q.TopNCategories = cfg.DefaultTopNCategories()
	}
	if limit := cfg.MaxTopKNeighbors(); limit > 0 && q.TopKNeighbors > limit {
		return q, fmt.Errorf("%w: top_k_neighbors %d exceeds %d", ErrInvalidQuery, q.TopKNeighbors, limit)
	}
	if limit := cfg.MaxTopNCategories(); limit > 0 && q.TopNCategories > limit {
		return q, fmt.Errorf("%w: top_n_cats %d exceeds %d", ErrInvalidQuery, q.TopNCategories, limit)
	}
	return q, nil
}

// CacheKey 返回查询结果的缓存 key。
func CacheKey(snap *core.Snapshot, q Query) string {
	return fmt.Sprintf("rec:%d:user:%s:k:%d:n:%d", snap.LoadedAt.UnixNano(), q.UserID, q.TopKNeighbors, q.TopNCategories)
}

// Recommend 执行一次查询。
//
// 用户不在相似度矩阵中时返回 Found=false 且各结果为空，不返回错误。
// 缓存读写失败只记录日志，不影响结果。
func (r *Recommender) Recommend(ctx context.Context, q Query) (*core.Recommendation, error) {
	start := time.Now()
	q, err := r.Resolve(q)
	if err != nil {
		observeRecommend("invalid", start)
		return nil, err
	}
	snap := r.Snapshot()
	log := logging.Ctx(ctx).With().
		Str("user_id", q.UserID).
		Int("k", q.TopKNeighbors).
		Int("n", q.TopNCategories).
		Logger()

	key := CacheKey(snap, q)
	if rec, ok := r.cached(ctx, key); ok {
		log.Debug().Str("cache", "hit").Msg("recommend")
		observeRecommend(resultLabel(rec), start)
		return rec, nil
	}

	rec, err := r.compute(ctx, snap, q)
	if err != nil {
		log.Error().Err(err).Msg("recommend failed")
		observeRecommend("error", start)
		return nil, err
	}

	r.store(ctx, key, rec)
	NeighborsReturned.Observe(float64(len(rec.Neighbors)))
	observeRecommend(resultLabel(rec), start)
	log.Info().
		Bool("found", rec.Found).
		Int("neighbors", len(rec.Neighbors)).
		Int("categories", len(rec.Categories)).
		Dur("took", time.Since(start)).
		Msg("recommend")
	return rec, nil
}

func (r *Recommender) compute(ctx context.Context, snap *core.Snapshot, q Query) (*core.Recommendation, error) {
	rctx := &core.RecommendContext{
		UserID: q.UserID,
		TopK:   q.TopKNeighbors,
		TopN:   q.TopNCategories,
	}
	src := r.recallSource(snap)
	items, err := src.Recall(ctx, rctx)
	if err != nil {
		return nil, fmt.Errorf("recall %s: %w", src.Name(), err)
	}
	neighbors := recall.NeighborSetFromItems(items)

	rec := &core.Recommendation{
		UserID:    q.UserID,
		Found:     snap.Similarity.Has(q.UserID),
		TopK:      q.TopKNeighbors,
		TopN:      q.TopNCategories,
		Neighbors: neighbors.Neighbors(),
	}
	if u, ok := snap.Users.Get(q.UserID); ok {
		rec.Profile = &u
		rctx.User = &u
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cats, err := r.categories(gctx, rctx, neighbors, snap.Users, q.TopNCategories)
		if err != nil {
			return err
		}
		rec.Categories = cats
		return nil
	})
	g.Go(func() error {
		rec.Explanation = explain.Explain(neighbors, snap.Users, r.ExplainFields)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *Recommender) recallSource(snap *core.Snapshot) recall.Source {
	if r.Recall != nil {
		return r.Recall
	}
	return &recall.U2UNeighbors{Similarity: snap.Similarity}
}

// categories 聚合类别并执行后处理。
// 有后处理时先取全部类别，过滤后再截到 n 条，占比的分母不变。
func (r *Recommender) categories(
	ctx context.Context,
	rctx *core.RecommendContext,
	neighbors core.NeighborSet,
	users *core.UserTable,
	n int,
) ([]core.CategoryShare, error) {
	if r.PostProcess.Len() == 0 {
		return category.TopCategories(neighbors.IDs(), users, n), nil
	}

	all := category.TopCategories(neighbors.IDs(), users, neighbors.Len())
	items, err := r.PostProcess.Run(ctx, rctx, category.Items(all))
	if err != nil {
		return nil, fmt.Errorf("post-process: %w", err)
	}
	cats := category.FromItems(items)
	if len(cats) > n {
		cats = cats[:n]
	}
	return cats, nil
}

func (r *Recommender) cached(ctx context.Context, key string) (*core.Recommendation, bool) {
	if r.Cache == nil {
		return nil, false
	}
	data, err := r.Cache.Get(ctx, key)
	if err != nil {
		if !core.IsStoreNotFound(err) {
			RecommendCache.WithLabelValues("error").Inc()
			logging.Ctx(ctx).Warn().Err(err).Str("cache", r.Cache.Name()).Msg("cache get failed")
			return nil, false
		}
		RecommendCache.WithLabelValues("miss").Inc()
		return nil, false
	}
	var rec core.Recommendation
	if err := json.Unmarshal(data, &rec); err != nil {
		RecommendCache.WithLabelValues("error").Inc()
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("cache entry corrupt")
		return nil, false
	}
	RecommendCache.WithLabelValues("hit").Inc()
	return &rec, true
}

func (r *Recommender) store(ctx context.Context, key string, rec *core.Recommendation) {
	if r.Cache == nil {
		return
	}
	data, err := json.Marshal(rec)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("encode recommendation")
		return
	}
	if err := r.Cache.Set(ctx, key, data, r.CacheTTL); err != nil && !errors.Is(err, context.Canceled) {
		logging.Ctx(ctx).Warn().Err(err).Str("cache", r.Cache.Name()).Msg("cache set failed")
	}
}

func resultLabel(rec *core.Recommendation) string {
	if rec.Found {
		return "found"
	}
	return "not_found"
}
