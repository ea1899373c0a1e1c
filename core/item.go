package core

import "github.com/rushteam/catrec/pkg/utils"

// Item 是后处理 Pipeline 中的统一承载结构。
// 邻居召回时 ID 为 User_ID、Score 为相似度；类别聚合后 ID 为类别、Score 为占比。
// Labels 用于解释与策略驱动；Score 用于排序决策。
type Item struct {
	ID     string
	Score  float64
	Meta   map[string]any
	Labels map[string]utils.Label
}

func NewItem(id string) *Item {
	return &Item{
		ID:     id,
		Meta:   make(map[string]any),
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// MetaInt 读取整型 Meta，兼容 JSON 解码得到的 float64。
func (it *Item) MetaInt(key string) (int, bool) {
	if it.Meta == nil {
		return 0, false
	}
	switch v := it.Meta[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
