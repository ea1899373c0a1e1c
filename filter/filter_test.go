package filter

import (
	"context"
	"testing"

	"github.com/rushteam/catrec/core"
	"github.com/rushteam/catrec/store"
)

func categoryItems(shares ...core.CategoryShare) []*core.Item {
	items := make([]*core.Item, 0, len(shares))
	for _, s := range shares {
		it := core.NewItem(s.Category)
		it.Score = s.Proportion
		it.Meta["neighbor_count"] = s.NeighborCount
		items = append(items, it)
	}
	return items
}

func ids(items []*core.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sampleItems() []*core.Item {
	return categoryItems(
		core.CategoryShare{Category: "Books", NeighborCount: 2, Proportion: 0.5},
		core.CategoryShare{Category: "Toys", NeighborCount: 1, Proportion: 0.25},
		core.CategoryShare{Category: "Apparel", NeighborCount: 1, Proportion: 0.25},
	)
}

func TestFilterNode(t *testing.T) {
	ctx := context.Background()
	rctx := &core.RecommendContext{
		UserID: "U1",
		User:   &core.User{UserID: "U1", ProductCategoryPreference: "Toys"},
	}

	exclude, err := NewExprFilter(`item.score < 0.3`, true)
	if err != nil {
		t.Fatalf("编译表达式失败: %v", err)
	}

	tests := []struct {
		name    string
		filters []Filter
		want    []string
	}{
		{"无过滤器", nil, []string{"Books", "Toys", "Apparel"}},
		{"排除自身偏好", []Filter{&ExcludeFavoriteFilter{}}, []string{"Books", "Apparel"}},
		{"黑名单", []Filter{NewBlacklistFilter([]string{"Books"}, nil, "")}, []string{"Toys", "Apparel"}},
		{"表达式排除", []Filter{exclude}, []string{"Books"}},
		{"组合", []Filter{&ExcludeFavoriteFilter{}, NewBlacklistFilter([]string{"Apparel"}, nil, "")}, []string{"Books"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := &FilterNode{Filters: tt.filters}
			out, err := node.Process(ctx, rctx, sampleItems())
			if err != nil {
				t.Fatalf("Process 失败: %v", err)
			}
			if got := ids(out); !equalIDs(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterNode_LabelsFilteredItems(t *testing.T) {
	items := sampleItems()
	node := &FilterNode{Filters: []Filter{NewBlacklistFilter([]string{"Toys"}, nil, "")}}
	if _, err := node.Process(context.Background(), nil, items); err != nil {
		t.Fatal(err)
	}
	lbl, ok := items[1].Labels["filtered"]
	if !ok || lbl.Value != "true" || lbl.Source != "filter.blacklist" {
		t.Errorf("filtered label = %+v, %v", lbl, ok)
	}
}

func TestFilterNode_ErrorKeepsItem(t *testing.T) {
	// 访问不存在的 label 会在求值时报错，物品应被保留
	f := &ExprFilter{Expr: `label.missing == "x"`}
	node := &FilterNode{Filters: []Filter{f}}
	out, err := node.Process(context.Background(), nil, sampleItems())
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 {
		t.Errorf("len = %d, want 3", len(out))
	}
}

func TestExprFilter(t *testing.T) {
	rctx := &core.RecommendContext{UserID: "U1", User: &core.User{ProductCategoryPreference: "Books"}}
	item := categoryItems(core.CategoryShare{Category: "Books", NeighborCount: 2, Proportion: 0.5})[0]

	tests := []struct {
		expr    string
		exclude bool
		want    bool
	}{
		{`item.score >= 0.5`, false, false},
		{`item.score > 0.5`, false, true},
		{`item.meta.neighbor_count > 1`, false, false},
		{`item.id == rctx.favorite_category`, true, true},
		{``, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			f, err := NewExprFilter(tt.expr, tt.exclude)
			if err != nil {
				t.Fatalf("NewExprFilter: %v", err)
			}
			got, err := f.ShouldFilter(context.Background(), rctx, item)
			if err != nil {
				t.Fatalf("ShouldFilter: %v", err)
			}
			if got != tt.want {
				t.Errorf("ShouldFilter = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewExprFilter_Invalid(t *testing.T) {
	_, err := NewExprFilter(`item.score >=`, false)
	if !core.IsInvalidInput(err) {
		t.Errorf("期望 INVALID_INPUT，实际 %v", err)
	}
}

func TestExcludeFavoriteFilter_NoProfile(t *testing.T) {
	f := &ExcludeFavoriteFilter{}
	item := core.NewItem("Books")
	got, err := f.ShouldFilter(context.Background(), &core.RecommendContext{UserID: "U9"}, item)
	if err != nil || got {
		t.Errorf("无画像时不应过滤: %v, %v", got, err)
	}
}

func TestBlacklistFilter_Store(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	defer s.Close()
	_ = s.Set(ctx, "catrec:blacklist", []byte("Toys, Garden"))

	f := NewBlacklistFilter(nil, s, "catrec:blacklist")
	f.IgnoreCase = true

	tests := map[string]bool{"toys": true, "Garden": true, "Books": false}
	for cat, want := range tests {
		got, err := f.ShouldFilter(ctx, nil, core.NewItem(cat))
		if err != nil {
			t.Fatalf("%s: %v", cat, err)
		}
		if got != want {
			t.Errorf("%s: got %v, want %v", cat, got, want)
		}
	}

	// key 不存在时不过滤
	missing := NewBlacklistFilter(nil, s, "catrec:none")
	if got, err := missing.ShouldFilter(ctx, nil, core.NewItem("Toys")); err != nil || got {
		t.Errorf("missing key: %v, %v", got, err)
	}
}
