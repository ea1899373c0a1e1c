package filter

import (
	"context"

	"github.com/rushteam/catrec/core"
)

// ExcludeFavoriteFilter 过滤掉被查询用户自己已经偏好的类别，只推荐"新"类别。
type ExcludeFavoriteFilter struct{}

var _ Filter = (*ExcludeFavoriteFilter)(nil)

func (f *ExcludeFavoriteFilter) Name() string {
	return "filter.exclude_favorite"
}

func (f *ExcludeFavoriteFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	fav := rctx.FavoriteCategory()
	return fav != "" && item.ID == fav, nil
}
