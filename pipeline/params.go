package pipeline

import (
	"fmt"
	"strconv"
)

// Params 是单个 Node 的配置（YAML/JSON 解码结果），提供带默认值的类型化读取。
// 解码得到的数字可能是 int、uint64 或 float64，读取时统一兼容。
type Params map[string]any

// String 读取字符串，缺失或类型不符时返回 def。
func (p Params) String(key, def string) string {
	if s, ok := p[key].(string); ok {
		return s
	}
	return def
}

// Bool 读取布尔值。
func (p Params) Bool(key string, def bool) bool {
	if b, ok := p[key].(bool); ok {
		return b
	}
	return def
}

// Int 读取整数；小数部分被截断。
func (p Params) Int(key string, def int) int {
	if f, ok := number(p[key]); ok {
		return int(f)
	}
	return def
}

// Float 读取浮点数，兼容整数写法（例如 min: 1）。
func (p Params) Float(key string, def float64) float64 {
	if f, ok := number(p[key]); ok {
		return f
	}
	return def
}

// Strings 读取字符串列表。未加引号的数字元素按整数格式化，例如 YAML 中的 [101, Books]。
// 键缺失时返回 nil；不是列表时返回错误。
func (p Params) Strings(key string) ([]string, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return nil, nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: want a list, got %T", key, v)
	}
	out := make([]string, 0, len(raw))
	for i, e := range raw {
		switch val := e.(type) {
		case string:
			out = append(out, val)
		default:
			f, ok := number(val)
			if !ok {
				return nil, fmt.Errorf("%s[%d]: unsupported element %T", key, i, e)
			}
			out = append(out, strconv.FormatFloat(f, 'f', -1, 64))
		}
	}
	return out, nil
}

// Map 读取嵌套配置。
func (p Params) Map(key string) (Params, bool) {
	switch m := p[key].(type) {
	case map[string]any:
		return Params(m), true
	case Params:
		return m, true
	default:
		return nil, false
	}
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}
