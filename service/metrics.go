package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecommendDuration 查询耗时，按结果（found / not_found / error）区分
	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catrec_recommend_duration_seconds",
			Help:    "Duration of category recommendation queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"result"},
	)

	// RecommendCache 结果缓存命中情况：hit / miss / error
	RecommendCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catrec_recommend_cache_total",
			Help: "Recommendation result cache lookups by outcome",
		},
		[]string{"outcome"},
	)

	// NeighborsReturned 每次查询返回的邻居数
	NeighborsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catrec_neighbors_returned",
			Help:    "Number of neighbors selected per query",
			Buckets: []float64{0, 1, 3, 5, 10, 20, 30, 50},
		},
	)

	// SnapshotUsers / SnapshotSize 当前快照的规模
	SnapshotUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catrec_snapshot_users",
			Help: "Number of rows in the loaded user table",
		},
	)

	SnapshotSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catrec_snapshot_similarity_size",
			Help: "Order of the loaded similarity matrix",
		},
	)
)

func observeRecommend(result string, start time.Time) {
	RecommendDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
}
