package recall

import (
	"context"
	"sort"

	"github.com/rushteam/catrec/core"
	"github.com/rushteam/catrec/pipeline"
	"github.com/rushteam/catrec/pkg/utils"
)

// SelectNeighbors 返回与 userID 最相似的 k 个其他用户（u2u）。
//
// 规则：
//  1. 读取矩阵中 userID 的那一行；用户不存在时返回空集合（不是错误）
//  2. 去掉自身条目（不存在也不报错）
//  3. 按相似度降序稳定排序；平票时列顺序靠前者优先
//  4. 取前 k 个；k <= 0 时返回空集合
//
// 纯函数：相同输入总是得到相同输出。
func SelectNeighbors(userID string, m *core.SimilarityMatrix, k int) core.NeighborSet {
	if k <= 0 {
		return core.NeighborSet{}
	}
	row, ok := m.Row(userID)
	if !ok {
		return core.NeighborSet{}
	}

	candidates := make([]core.Neighbor, 0, row.Len())
	for j, id := range row.Columns {
		if id == userID {
			continue
		}
		candidates = append(candidates, core.Neighbor{UserID: id, Score: row.Scores[j]})
	}

	// candidates 已按列顺序排列，稳定排序即保留列顺序作为平票规则
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return core.NewNeighborSet(candidates)
}

// U2UNeighbors 是基于预计算相似度矩阵的邻居召回源（User-to-User）。
// 同时实现 Source 与 Node 接口，可直接放入 Pipeline：输出的 Item 以 User_ID 为 ID、相似度为 Score。
type U2UNeighbors struct {
	Similarity *core.SimilarityMatrix

	// TopK 默认的邻居数，RecommendContext.TopK > 0 时以其为准
	TopK int
}

func (r *U2UNeighbors) Name() string        { return "recall.u2u" }
func (r *U2UNeighbors) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *U2UNeighbors) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *U2UNeighbors) Recall(
	_ context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Similarity == nil || rctx == nil || rctx.UserID == "" {
		return nil, nil
	}
	k := r.TopK
	if rctx.TopK > 0 {
		k = rctx.TopK
	}
	return NeighborItems(SelectNeighbors(rctx.UserID, r.Similarity, k)), nil
}

// NeighborItems 将邻居集合按排名转换为 Item。
func NeighborItems(neighbors core.NeighborSet) []*core.Item {
	out := make([]*core.Item, 0, neighbors.Len())
	for i := 0; i < neighbors.Len(); i++ {
		n := neighbors.At(i)
		it := core.NewItem(n.UserID)
		it.Score = n.Score
		it.Meta["rank"] = i
		it.PutLabel("recall_source", utils.Label{Value: "u2u", Source: "recall"})
		out = append(out, it)
	}
	return out
}

// NeighborSetFromItems 把召回得到的 Item 还原为邻居集合，顺序即排名。
func NeighborSetFromItems(items []*core.Item) core.NeighborSet {
	neighbors := make([]core.Neighbor, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		neighbors = append(neighbors, core.Neighbor{UserID: it.ID, Score: it.Score})
	}
	return core.NewNeighborSet(neighbors)
}
