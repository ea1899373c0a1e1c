package filter

import (
	"context"

	"github.com/rushteam/catrec/core"
	"github.com/rushteam/catrec/pkg/dsl"
)

// ExprFilter 使用 CEL 表达式判断是否保留类别。
//
// 默认语义：表达式为 true 时保留；Exclude 为 true 时反转，表达式为 true 时过滤。
// 例如：
//
//	&ExprFilter{Expr: "item.score >= 0.1"}                              // 只保留占比 >= 10% 的类别
//	&ExprFilter{Expr: `item.id == rctx.favorite_category`, Exclude: true} // 排除自身偏好
type ExprFilter struct {
	Expr    string
	Exclude bool

	prg *dsl.Program
}

var _ Filter = (*ExprFilter)(nil)

// NewExprFilter 编译表达式并创建过滤器；表达式非法时返回错误。
func NewExprFilter(expr string, exclude bool) (*ExprFilter, error) {
	prg, err := dsl.Compile(expr)
	if err != nil {
		return nil, core.InvalidInputf(core.ModulePipeline, "filter.expr %q: %v", expr, err)
	}
	return &ExprFilter{Expr: expr, Exclude: exclude, prg: prg}, nil
}

func (f *ExprFilter) Name() string {
	return "filter.expr"
}

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	var (
		ok  bool
		err error
	)
	if f.prg != nil {
		ok, err = f.prg.Evaluate(item, rctx)
	} else {
		// 未经 NewExprFilter 构造时每次编译
		ok, err = dsl.Evaluate(f.Expr, item, rctx)
	}
	if err != nil {
		return false, err
	}
	if f.Exclude {
		return ok, nil
	}
	return !ok, nil
}
