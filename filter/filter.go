// Package filter 剔除不应出现在推荐结果里的类别。
package filter

import (
	"context"

	"github.com/rushteam/catrec/core"
)

// Filter 判断一个类别 Item 是否应被剔除，返回 true 表示剔除。
type Filter interface {
	Name() string
	ShouldFilter(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error)
}
