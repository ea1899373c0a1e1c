package filter

import (
	"context"

	"github.com/rushteam/catrec/core"
	"github.com/rushteam/catrec/pipeline"
	"github.com/rushteam/catrec/pkg/logging"
	"github.com/rushteam/catrec/pkg/utils"
)

// FilterNode 依次询问 Filters，任一命中即剔除该类别，并在 Item 上留下 filtered 标签。
// 剩余类别的占比保持不变，分母仍是全部有偏好的邻居。
// 单个过滤器出错时记日志并视为未命中。
type FilterNode struct {
	Filters []Filter
}

var _ pipeline.Node = (*FilterNode)(nil)

func (n *FilterNode) Name() string        { return "filter.node" }
func (n *FilterNode) Kind() pipeline.Kind { return pipeline.KindFilter }

func (n *FilterNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(n.Filters) == 0 {
		return items, nil
	}

	kept := items[:0:0]
	removed := map[string]int{}
	for _, it := range items {
		if it == nil {
			continue
		}
		by := n.firstMatch(ctx, rctx, it)
		if by == "" {
			kept = append(kept, it)
			continue
		}
		it.PutLabel("filtered", utils.Label{Value: "true", Source: by})
		removed[by]++
	}

	if len(removed) > 0 {
		ev := logging.Ctx(ctx).Debug().Int("kept", len(kept))
		for name, cnt := range removed {
			ev = ev.Int(name, cnt)
		}
		ev.Msg("categories filtered")
	}
	return kept, nil
}

// firstMatch 返回第一个命中的过滤器名称，都未命中时返回空串。
func (n *FilterNode) firstMatch(ctx context.Context, rctx *core.RecommendContext, it *core.Item) string {
	for _, f := range n.Filters {
		hit, err := f.ShouldFilter(ctx, rctx, it)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).
				Str("filter", f.Name()).
				Str("category", it.ID).
				Msg("filter failed, category kept")
			continue
		}
		if hit {
			return f.Name()
		}
	}
	return ""
}
