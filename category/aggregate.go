// Package category 在邻居集合上统计偏好类别（u2u → u2c）。
package category

import (
	"sort"
	"strconv"
	"strings"

	"github.com/rushteam/catrec/core"
	"github.com/rushteam/catrec/pkg/utils"
)

// ProportionDecimals 是占比保留的小数位数。
const ProportionDecimals = 3

// TopCategories 统计邻居的偏好类别，返回出现次数最多的 n 个类别及其占比。
//
// 规则：
//   - 按用户表的行顺序遍历，只保留 User_ID 在 neighborIDs 中的行
//   - 偏好类别去掉首尾空白后比较；为空的行不计入（既不是类别，也不计入分母）
//   - 按出现次数降序；次数相同时先出现的类别优先
//   - 占比 = 次数 / 所有类别的总次数（不只是前 n 个），保留 3 位小数
//   - 没有任何匹配行或 n <= 0 时返回空结果（不是错误）
//
// 纯函数：相同输入总是得到相同输出。
func TopCategories(neighborIDs []string, users *core.UserTable, n int) []core.CategoryShare {
	if n <= 0 || len(neighborIDs) == 0 || users.Len() == 0 {
		return []core.CategoryShare{}
	}

	wanted := make(map[string]struct{}, len(neighborIDs))
	for _, id := range neighborIDs {
		wanted[id] = struct{}{}
	}

	type tally struct {
		category  string
		count     int
		firstSeen int
	}
	var (
		tallies []*tally
		byName  = make(map[string]*tally)
		total   int
	)
	for i := 0; i < users.Len(); i++ {
		u := users.At(i)
		if _, ok := wanted[u.UserID]; !ok {
			continue
		}
		name := strings.TrimSpace(u.ProductCategoryPreference)
		if name == "" {
			continue
		}
		t, ok := byName[name]
		if !ok {
			t = &tally{category: name, firstSeen: len(tallies)}
			byName[t.category] = t
			tallies = append(tallies, t)
		}
		t.count++
		total++
	}
	if total == 0 {
		return []core.CategoryShare{}
	}

	sort.SliceStable(tallies, func(i, j int) bool {
		if tallies[i].count != tallies[j].count {
			return tallies[i].count > tallies[j].count
		}
		return tallies[i].firstSeen < tallies[j].firstSeen
	})

	if len(tallies) > n {
		tallies = tallies[:n]
	}
	out := make([]core.CategoryShare, 0, len(tallies))
	for _, t := range tallies {
		out = append(out, core.CategoryShare{
			Category:      t.category,
			NeighborCount: t.count,
			Proportion:    Round(float64(t.count)/float64(total), ProportionDecimals),
		})
	}
	return out
}

// Round 按十进制位数四舍五入，精确平分时取偶数（对 float64 的精确二进制值判断）。
func Round(v float64, decimals int) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', decimals, 64), 64)
	if err != nil {
		return v
	}
	return r
}

// Items 将类别结果转换为后处理 Pipeline 的 Item：ID 为类别，Score 为占比。
func Items(shares []core.CategoryShare) []*core.Item {
	out := make([]*core.Item, 0, len(shares))
	for i, s := range shares {
		it := core.NewItem(s.Category)
		it.Score = s.Proportion
		it.Meta["neighbor_count"] = s.NeighborCount
		it.Meta["rank"] = i
		it.PutLabel("recall_source", utils.Label{Value: "u2c", Source: "recall"})
		it.PutLabel("category", utils.Label{Value: s.Category, Source: "recall"})
		out = append(out, it)
	}
	return out
}

// FromItems 将后处理后的 Item 还原为类别结果，保持 Item 顺序。
func FromItems(items []*core.Item) []core.CategoryShare {
	out := make([]core.CategoryShare, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		count, _ := it.MetaInt("neighbor_count")
		out = append(out, core.CategoryShare{
			Category:      it.ID,
			NeighborCount: count,
			Proportion:    it.Score,
		})
	}
	return out
}
