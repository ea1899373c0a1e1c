package rerank

import (
	"context"

	"github.com/rushteam/catrec/core"
	"github.com/rushteam/catrec/pipeline"
)

// TopNNode 是 Top-N 截断节点，在过滤之后把类别行截到 N 条。
//
// N <= 0 时使用本次查询的 rctx.TopN；两者都 <= 0 则不截断。
//
// 示例：
//
//	pipeline := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        &filter.FilterNode{...},  // 过滤
//	        &rerank.TopNNode{N: 3},   // 截取 Top 3
//	    },
//	}
type TopNNode struct {
	N int
}

var _ pipeline.Node = (*TopNNode)(nil)

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	limit := n.N
	if limit <= 0 && rctx != nil {
		limit = rctx.TopN
	}
	if limit <= 0 || len(items) <= limit {
		return items, nil
	}
	return items[:limit], nil
}
