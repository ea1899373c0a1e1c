// Package builders 注册内置的后处理 Node：类别过滤与重排。
package builders

import (
	"fmt"
	"sync"

	"github.com/rushteam/catrec/config"
	"github.com/rushteam/catrec/core"
	"github.com/rushteam/catrec/filter"
	"github.com/rushteam/catrec/pipeline"
	"github.com/rushteam/catrec/rerank"
)

func init() {
	config.Register("filter", BuildFilterNode)
	config.Register("filter.expr", single("expr"))
	config.Register("filter.exclude_favorite", single("exclude_favorite"))
	config.Register("filter.blacklist", single("blacklist"))
	config.Register("rerank.topn", BuildTopNNode)
	config.Register("rerank.min_proportion", BuildMinProportionNode)
}

var shared struct {
	sync.RWMutex
	store core.Store
}

// UseStore 设置 blacklist 的 store_key 读取的存储，需在加载 Pipeline 之前调用。
// 传 nil 取消设置。
func UseStore(s core.Store) {
	shared.Lock()
	defer shared.Unlock()
	shared.store = s
}

func sharedStore() core.Store {
	shared.RLock()
	defer shared.RUnlock()
	return shared.store
}

// BuildFilterNode 构建组合过滤 Node，任一过滤器命中即剔除：
//
//	type: filter
//	config:
//	  filters:
//	    - type: exclude_favorite
//	    - type: blacklist
//	      categories: [Toys]
//	      store_key: catrec:blacklist
//	    - type: expr
//	      expr: "item.score >= 0.1"
func BuildFilterNode(p pipeline.Params) (pipeline.Node, error) {
	raw, ok := p["filters"].([]any)
	if !ok || len(raw) == 0 {
		return nil, fmt.Errorf("filter: filters must be a non-empty list")
	}
	node := &filter.FilterNode{Filters: make([]filter.Filter, 0, len(raw))}
	for i, e := range raw {
		m, ok := e.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("filter: filters[%d] must be a map", i)
		}
		fp := pipeline.Params(m)
		f, err := buildFilter(fp.String("type", ""), fp)
		if err != nil {
			return nil, fmt.Errorf("filter: filters[%d]: %w", i, err)
		}
		node.Filters = append(node.Filters, f)
	}
	return node, nil
}

// single 把一个过滤器包装成独立的 Node 类型，例如 filter.blacklist。
func single(filterType string) pipeline.NodeBuilder {
	return func(p pipeline.Params) (pipeline.Node, error) {
		f, err := buildFilter(filterType, p)
		if err != nil {
			return nil, fmt.Errorf("filter.%s: %w", filterType, err)
		}
		return &filter.FilterNode{Filters: []filter.Filter{f}}, nil
	}
}

func buildFilter(filterType string, p pipeline.Params) (filter.Filter, error) {
	switch filterType {
	case "exclude_favorite":
		return &filter.ExcludeFavoriteFilter{}, nil
	case "blacklist":
		cats, err := p.Strings("categories")
		if err != nil {
			return nil, err
		}
		key := p.String("store_key", "")
		var st core.Store
		if key != "" {
			if st = sharedStore(); st == nil {
				return nil, fmt.Errorf("blacklist: store_key %q requires a store", key)
			}
		}
		f := filter.NewBlacklistFilter(cats, st, key)
		f.IgnoreCase = p.Bool("ignore_case", false)
		return f, nil
	case "expr":
		expr := p.String("expr", "")
		if expr == "" {
			return nil, fmt.Errorf("expr is required")
		}
		return filter.NewExprFilter(expr, p.Bool("exclude", false))
	default:
		return nil, fmt.Errorf("unknown filter type %q", filterType)
	}
}

// BuildTopNNode: n 为 0 时使用查询的 N。
func BuildTopNNode(p pipeline.Params) (pipeline.Node, error) {
	n := p.Int("n", 0)
	if n < 0 {
		return nil, fmt.Errorf("rerank.topn: n must be >= 0, got %d", n)
	}
	return &rerank.TopNNode{N: n}, nil
}

func BuildMinProportionNode(p pipeline.Params) (pipeline.Node, error) {
	minProp := p.Float("min", 0)
	if minProp < 0 || minProp > 1 {
		return nil, fmt.Errorf("rerank.min_proportion: min must be within [0, 1], got %v", minProp)
	}
	minCount := p.Int("min_count", 0)
	if minCount < 0 {
		return nil, fmt.Errorf("rerank.min_proportion: min_count must be >= 0, got %d", minCount)
	}
	return &rerank.MinProportionNode{Min: minProp, MinCount: minCount}, nil
}
