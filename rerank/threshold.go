package rerank

import (
	"context"

	"github.com/rushteam/catrec/core"
	"github.com/rushteam/catrec/pipeline"
)

// MinProportionNode 丢弃占比低于 Min 或邻居次数低于 MinCount 的类别行。
// 输入已按占比降序，因此遇到第一条不满足的行即可停止。
type MinProportionNode struct {
	Min      float64
	MinCount int
}

var _ pipeline.Node = (*MinProportionNode)(nil)

func (n *MinProportionNode) Name() string {
	return "rerank.min_proportion"
}

func (n *MinProportionNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *MinProportionNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	for i, it := range items {
		if it == nil || it.Score < n.Min {
			return items[:i], nil
		}
		if n.MinCount > 0 {
			if c, ok := it.MetaInt("neighbor_count"); ok && c < n.MinCount {
				return items[:i], nil
			}
		}
	}
	return items, nil
}
