package recall

import (
	"context"

	"github.com/rushteam/catrec/core"
)

// Source 表示一个邻居召回源，返回的 Item 按排名排列（ID 为 User_ID，Score 为相似度）。
// service.Recommender 默认使用基于当前快照的 U2UNeighbors。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}
