package core

import "time"

// CategoryShare 是推荐结果中的一行：类别、在邻居中出现的次数、占比。
//
// Proportion = NeighborCount / 邻居中有偏好记录的总次数，保留 3 位小数。
type CategoryShare struct {
	Category      string  `json:"category"`
	NeighborCount int     `json:"neighbor_count"`
	Proportion    float64 `json:"proportion"`
}

// ExplanationRow 是解释表中的一行：邻居画像（按 Fields 取值）+ 相似度。
type ExplanationRow struct {
	UserID     string   `json:"user_id"`
	Similarity float64  `json:"similarity"`
	Values     []string `json:"values"`
}

// Explanation 是解释表：列定义 + 按相似度降序排列的行。
type Explanation struct {
	Fields []Field          `json:"fields"`
	Rows   []ExplanationRow `json:"rows"`
}

// Empty 判断解释表是否没有任何行。
func (e Explanation) Empty() bool { return len(e.Rows) == 0 }

// Recommendation 是一次查询的完整结果。
//
// 用户不在相似度矩阵中时 Found 为 false，其余结果均为空。
type Recommendation struct {
	UserID      string          `json:"user_id"`
	Found       bool            `json:"found"`
	TopK        int             `json:"top_k_neighbors"`
	TopN        int             `json:"top_n_cats"`
	Profile     *User           `json:"profile,omitempty"`
	Neighbors   []Neighbor      `json:"neighbors"`
	Categories  []CategoryShare `json:"categories"`
	Explanation Explanation     `json:"explanation"`
}

// Snapshot 是一次加载得到的不可变数据快照，在查询之间按引用共享。
type Snapshot struct {
	Users      *UserTable
	Similarity *SimilarityMatrix
	LoadedAt   time.Time
}

// NewSnapshot 组装快照。两张表都必须存在。
func NewSnapshot(users *UserTable, sim *SimilarityMatrix) (*Snapshot, error) {
	if users == nil {
		return nil, InvalidInputf(ModuleDataset, "snapshot requires a user table")
	}
	if sim == nil {
		return nil, InvalidInputf(ModuleDataset, "snapshot requires a similarity matrix")
	}
	return &Snapshot{Users: users, Similarity: sim, LoadedAt: time.Now()}, nil
}
