package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/catrec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("item", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("rctx", cel.DynType),
	)
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = initCELEnv()
	})
	return celEnv, celEnvErr
}

// Program 是编译好的规则表达式，使用 CEL (Common Expression Language)。
// 编译一次，可在多个请求之间并发复用。
//
// 可用变量：
//   - item.id / item.score / item.meta / item.labels
//     类别 Item 中 item.id 为类别名、item.score 为占比、item.meta.neighbor_count 为邻居次数
//   - label.<key>：Label 的 Value（例如 label.category）
//   - rctx.user_id / rctx.favorite_category / rctx.top_k / rctx.top_n / rctx.params
//
// 示例：
//   - `item.score >= 0.2`
//   - `item.meta.neighbor_count > 1 && item.id != rctx.favorite_category`
//   - `label.recall_source == "u2c"`
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译表达式。空表达式返回 nil Program（Evaluate 恒为 true）。
func Compile(expr string) (*Program, error) {
	if expr == "" {
		return nil, nil
	}
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Program{expr: expr, prg: prg}, nil
}

// String 返回原始表达式。
func (p *Program) String() string {
	if p == nil {
		return ""
	}
	return p.expr
}

// Evaluate 对 item 执行表达式，返回布尔结果。
// 注意：访问不存在的 key 会报错，请用 `"key" in label` 或 has() 判断存在性。
func (p *Program) Evaluate(item *core.Item, rctx *core.RecommendContext) (bool, error) {
	if p == nil {
		return true, nil
	}
	out, _, err := p.prg.Eval(buildInput(item, rctx))
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// Evaluate 是一次性编译并执行的便捷函数。
func Evaluate(expr string, item *core.Item, rctx *core.RecommendContext) (bool, error) {
	p, err := Compile(expr)
	if err != nil {
		return false, err
	}
	return p.Evaluate(item, rctx)
}

// buildInput 构建 CEL 表达式的输入数据
func buildInput(item *core.Item, rctx *core.RecommendContext) map[string]any {
	labels := make(map[string]any)
	itemMap := map[string]any{
		"id":     "",
		"score":  0.0,
		"meta":   map[string]any{},
		"labels": map[string]any{},
	}
	if item != nil {
		full := make(map[string]any, len(item.Labels))
		for k, v := range item.Labels {
			labels[k] = v.Value
			full[k] = map[string]any{"value": v.Value, "source": v.Source}
		}
		meta := item.Meta
		if meta == nil {
			meta = map[string]any{}
		}
		itemMap = map[string]any{
			"id":     item.ID,
			"score":  item.Score,
			"meta":   meta,
			"labels": full,
		}
	}

	rctxMap := map[string]any{
		"user_id":           "",
		"favorite_category": "",
		"top_k":             0,
		"top_n":             0,
		"params":            map[string]any{},
	}
	if rctx != nil {
		params := rctx.Params
		if params == nil {
			params = map[string]any{}
		}
		rctxMap = map[string]any{
			"user_id":           rctx.UserID,
			"favorite_category": rctx.FavoriteCategory(),
			"top_k":             rctx.TopK,
			"top_n":             rctx.TopN,
			"params":            params,
		}
	}

	return map[string]any{
		"item":  itemMap,
		"label": labels,
		"rctx":  rctxMap,
	}
}
