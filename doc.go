// Package catrec 是基于相似用户的商品类别推荐（Category Recommender）。
//
// 一次查询的流程：
//   - recall.SelectNeighbors：在预计算的相似度矩阵上取与用户最相似的 K 个其他用户（u2u）
//   - category.TopCategories：统计这些邻居的偏好类别，返回前 N 个类别及占比（u2c）
//   - explain.Explain：列出邻居画像与相似度，作为推荐解释
//
// service.Recommender 把三步组装起来，并负责默认值、缓存与可选的后处理 Pipeline；
// api 与 cmd 下的程序只是它的外壳。
package catrec

import (
	"github.com/rushteam/catrec/core"
	"github.com/rushteam/catrec/pipeline"
	"github.com/rushteam/catrec/service"
)

// 轻量 facade：便于直接 import "catrec" 使用核心抽象。
type (
	User           = core.User
	Snapshot       = core.Snapshot
	Recommendation = core.Recommendation
	Query          = service.Query
	Recommender    = service.Recommender
	Pipeline       = pipeline.Pipeline
	Node           = pipeline.Node
)

// NewRecommender 在快照上创建推荐服务。
func NewRecommender(snap *core.Snapshot) (*service.Recommender, error) {
	return service.NewRecommender(snap)
}
