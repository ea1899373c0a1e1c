// Package utils 提供贯穿推荐链路的 Label。
package utils

import "strings"

// Label 标记一个 Item 经过了哪一步、得到了什么结论，用于解释与策略。
// 例如邻居 Item 带 recall_source=u2u，类别 Item 带 recall_source=u2c、category=<类别>；
// 被过滤的 Item 带 filtered=true（Source 为过滤器名）。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"`
}

// MergeLabel 合并同名 Label：两边都非空时 Value 以 '|' 连接、Source 以 ',' 连接，保留完整来历。
func MergeLabel(existing, incoming Label) Label {
	switch {
	case existing.Value == "":
		return incoming
	case incoming.Value == "":
		return existing
	}
	return Label{
		Value:  existing.Value + "|" + incoming.Value,
		Source: joinNonEmpty(",", existing.Source, incoming.Source),
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
