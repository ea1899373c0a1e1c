package filter

import (
	"context"
	"strings"

	"github.com/rushteam/catrec/core"
)

// BlacklistFilter 剔除黑名单中的类别。
//
// 黑名单来自 Categories，以及可选的 Store[Key]（逗号分隔，例如 "Toys, Garden"）。
// Key 不存在视为空黑名单。
type BlacklistFilter struct {
	Categories []string
	Store      core.Store
	Key        string
	IgnoreCase bool
}

var _ Filter = (*BlacklistFilter)(nil)

func NewBlacklistFilter(categories []string, store core.Store, key string) *BlacklistFilter {
	return &BlacklistFilter{Categories: categories, Store: store, Key: key}
}

func (f *BlacklistFilter) Name() string { return "filter.blacklist" }

func (f *BlacklistFilter) ShouldFilter(
	ctx context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if f.contains(f.Categories, item.ID) {
		return true, nil
	}
	if f.Store == nil || f.Key == "" {
		return false, nil
	}

	raw, err := f.Store.Get(ctx, f.Key)
	switch {
	case core.IsStoreNotFound(err):
		return false, nil
	case err != nil:
		return false, err
	}
	return f.contains(strings.Split(string(raw), ","), item.ID), nil
}

func (f *BlacklistFilter) contains(list []string, category string) bool {
	for _, c := range list {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if c == category || (f.IgnoreCase && strings.EqualFold(c, category)) {
			return true
		}
	}
	return false
}
