package pipeline

import (
	"context"
	"fmt"

	"github.com/rushteam/catrec/core"
)

// Pipeline 把类别结果的后处理拆成可组合的 Node 链。
// 空 Pipeline（或 nil）原样返回输入。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if p == nil {
		return items, nil
	}
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", Describe(node), err)
		}
		cur = next
	}
	return cur, nil
}

// Len 返回 Node 数量。
func (p *Pipeline) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Nodes)
}
