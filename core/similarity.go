package core

import "math"

// SimilarityMatrix 是预计算的用户-用户相似度矩阵（只读）。
//
// 行、列都以 User_ID 标记，列顺序保留加载顺序，作为邻居排序的平票规则。
// 不要求对称：核心每次只读取被查询用户的那一行。
type SimilarityMatrix struct {
	labels   []string
	columns  []string
	rowIndex map[string]int
	scores   [][]float64
}

// SimilarityRow 是矩阵的一行：被查询用户对每一列用户的相似度，按列顺序排列。
type SimilarityRow struct {
	UserID  string
	Columns []string
	Scores  []float64
}

// Len 返回行中的条目数（含自身）。
func (r SimilarityRow) Len() int { return len(r.Columns) }

// NewSimilarityMatrix 创建相似度矩阵。
//
// 以下情况返回 INVALID_INPUT 错误：
//   - 行数与列数不等（非方阵）
//   - 某行长度与列数不等
//   - 行标签或列标签重复、为空
//   - 行标签不在列标签中
//   - 出现 NaN / Inf
func NewSimilarityMatrix(labels, columns []string, scores [][]float64) (*SimilarityMatrix, error) {
	if len(labels) != len(columns) {
		return nil, InvalidInputf(ModuleDataset, "similarity matrix is not square: %d rows, %d columns", len(labels), len(columns))
	}
	if len(scores) != len(labels) {
		return nil, InvalidInputf(ModuleDataset, "similarity matrix has %d score rows for %d labels", len(scores), len(labels))
	}

	colIndex := make(map[string]int, len(columns))
	for j, c := range columns {
		if c == "" {
			return nil, InvalidInputf(ModuleDataset, "similarity column %d has empty User_ID", j)
		}
		if _, ok := colIndex[c]; ok {
			return nil, InvalidInputf(ModuleDataset, "duplicate similarity column %q", c)
		}
		colIndex[c] = j
	}

	m := &SimilarityMatrix{
		labels:   append([]string(nil), labels...),
		columns:  append([]string(nil), columns...),
		rowIndex: make(map[string]int, len(labels)),
		scores:   make([][]float64, len(scores)),
	}
	for i, id := range labels {
		if id == "" {
			return nil, InvalidInputf(ModuleDataset, "similarity row %d has empty User_ID", i)
		}
		if _, ok := m.rowIndex[id]; ok {
			return nil, InvalidInputf(ModuleDataset, "duplicate similarity row %q", id)
		}
		if _, ok := colIndex[id]; !ok {
			return nil, InvalidInputf(ModuleDataset, "similarity row %q has no matching column", id)
		}
		if len(scores[i]) != len(columns) {
			return nil, InvalidInputf(ModuleDataset, "similarity row %q has %d values, want %d", id, len(scores[i]), len(columns))
		}
		for j, v := range scores[i] {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, InvalidInputf(ModuleDataset, "similarity[%q][%q] is not finite", id, columns[j])
			}
		}
		m.rowIndex[id] = i
		m.scores[i] = append([]float64(nil), scores[i]...)
	}
	return m, nil
}

// Len 返回矩阵的阶数。
func (m *SimilarityMatrix) Len() int {
	if m == nil {
		return 0
	}
	return len(m.labels)
}

// Has 判断矩阵是否有该用户的行。
func (m *SimilarityMatrix) Has(userID string) bool {
	if m == nil {
		return false
	}
	_, ok := m.rowIndex[userID]
	return ok
}

// Row 返回用户对应的行；用户不存在时 ok 为 false。
// 返回的切片与矩阵共享底层数组，调用方不得修改。
func (m *SimilarityMatrix) Row(userID string) (SimilarityRow, bool) {
	if m == nil {
		return SimilarityRow{}, false
	}
	i, ok := m.rowIndex[userID]
	if !ok {
		return SimilarityRow{}, false
	}
	return SimilarityRow{
		UserID:  userID,
		Columns: m.columns,
		Scores:  m.scores[i],
	}, true
}

// Labels 返回行标签的拷贝。
func (m *SimilarityMatrix) Labels() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.labels...)
}

// Columns 返回列标签的拷贝。
func (m *SimilarityMatrix) Columns() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.columns...)
}

// Scores 返回分数矩阵的深拷贝（按行标签顺序）。
func (m *SimilarityMatrix) Scores() [][]float64 {
	if m == nil {
		return nil
	}
	out := make([][]float64, len(m.scores))
	for i, row := range m.scores {
		out[i] = append([]float64(nil), row...)
	}
	return out
}
