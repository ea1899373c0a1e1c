package dataset

import (
	"context"
	"fmt"

	"github.com/rushteam/catrec/core"
	"github.com/rushteam/catrec/pkg/validation"
)

// BuildSnapshot 从外部用户来源拉取相似度矩阵中出现的用户，组装快照。
//
// 用户表行顺序沿用矩阵行标签顺序；来源中缺失的用户不会出现在用户表中，
// 查询时他们作为邻居仍会被选中，只是不参与类别统计。
func BuildSnapshot(ctx context.Context, src core.UserSource, sim *core.SimilarityMatrix) (*core.Snapshot, error) {
	if src == nil {
		return nil, core.InvalidInputf(core.ModuleDataset, "nil user source")
	}
	if sim == nil {
		return nil, core.InvalidInputf(core.ModuleDataset, "snapshot requires a similarity matrix")
	}

	users, err := src.GetUsers(ctx, sim.Labels())
	if err != nil {
		return nil, fmt.Errorf("fetch users from %s: %w", src.Name(), err)
	}
	for i := range users {
		if err := validation.Struct(users[i]); err != nil {
			return nil, core.InvalidInputf(core.ModuleDataset, "%s user %q: %v", src.Name(), users[i].UserID, err)
		}
	}

	table, err := core.NewUserTable(users)
	if err != nil {
		return nil, err
	}
	return core.NewSnapshot(table, sim)
}

// LoadSimilarityFile 只读取相似度 CSV（配合外部用户来源使用）。
func LoadSimilarityFile(path string) (*core.SimilarityMatrix, error) {
	return readFile(path, ReadSimilarityCSV)
}
