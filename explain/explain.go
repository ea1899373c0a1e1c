// Package explain 生成推荐解释表：相似邻居的画像及其相似度。
package explain

import (
	"sort"
	"strings"

	"github.com/rushteam/catrec/core"
)

// Explain 返回邻居画像表，按邻居排名（相似度降序，平票按矩阵列顺序）排列。
//
// 只保留 User_ID 是 neighbors 键的用户行；neighbors 中不在用户表里的 ID 被静默丢弃。
// fields 为空时使用 core.DefaultExplainFields。
//
// 排序直接使用 NeighborSet 的排名，因此解释表与邻居选择的顺序完全一致。
func Explain(neighbors core.NeighborSet, users *core.UserTable, fields []core.Field) core.Explanation {
	if len(fields) == 0 {
		fields = core.DefaultExplainFields
	}
	out := core.Explanation{
		Fields: append([]core.Field(nil), fields...),
		Rows:   []core.ExplanationRow{},
	}
	if neighbors.Empty() || users.Len() == 0 {
		return out
	}

	type rankedRow struct {
		rank int
		row  core.ExplanationRow
	}
	rows := make([]rankedRow, 0, neighbors.Len())
	for i := 0; i < users.Len(); i++ {
		u := users.At(i)
		rank, ok := neighbors.Rank(u.UserID)
		if !ok {
			continue
		}
		score, _ := neighbors.Score(u.UserID)
		values := make([]string, len(fields))
		for j, f := range fields {
			values[j] = u.Value(f)
		}
		rows = append(rows, rankedRow{
			rank: rank,
			row: core.ExplanationRow{
				UserID:     u.UserID,
				Similarity: score,
				Values:     values,
			},
		})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].rank < rows[j].rank })

	for _, r := range rows {
		out.Rows = append(out.Rows, r.row)
	}
	return out
}

// ParseFields 将列名列表解析为 Field，忽略空白项；空列表返回 nil（即使用默认列）。
func ParseFields(names []string) ([]core.Field, error) {
	if len(names) == 0 {
		return nil, nil
	}
	out := make([]core.Field, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		f, err := core.ParseField(name)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}
