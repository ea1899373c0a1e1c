package pipeline

import (
	"context"

	"github.com/rushteam/catrec/core"
)

// Kind 是 Node 所处的阶段，日志和错误信息按阶段区分。
type Kind string

const (
	KindRecall Kind = "recall" // 产生邻居或类别候选
	KindFilter Kind = "filter" // 剔除候选
	KindReRank Kind = "rerank" // 截断、阈值
)

// Node 接收一组类别 Item，返回处理后的 Item。
// 实现不得修改入参切片中的 Item，需要改动时先复制。
type Node interface {
	Name() string
	Kind() Kind
	Process(ctx context.Context, rctx *core.RecommendContext, items []*core.Item) ([]*core.Item, error)
}

// Describe 返回 "kind/name" 形式的 Node 标识。
func Describe(n Node) string {
	return string(n.Kind()) + "/" + n.Name()
}
