package dataset

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/rushteam/catrec/core"
	"github.com/rushteam/catrec/pkg/validation"
)

// DefaultSnapshotPrefix 是快照在 Store 中的默认 key 前缀。
const DefaultSnapshotPrefix = "catrec:snapshot"

type similarityPayload struct {
	Labels  []string    `json:"labels"`
	Columns []string    `json:"columns"`
	Scores  [][]float64 `json:"scores"`
}

type metaPayload struct {
	Users    int       `json:"users"`
	Size     int       `json:"size"`
	LoadedAt time.Time `json:"loaded_at"`
}

// SnapshotKeys 返回快照三部分（元数据、用户表、相似度矩阵）在 Store 中的 key。
func SnapshotKeys(prefix string) (meta, users, similarity string) {
	if prefix == "" {
		prefix = DefaultSnapshotPrefix
	}
	return prefix + ":meta", prefix + ":users", prefix + ":similarity"
}

// SaveSnapshot 把快照以 JSON 写入 Store（一次 BatchSet，不设过期）。
func SaveSnapshot(ctx context.Context, s core.Store, prefix string, snap *core.Snapshot) error {
	if snap == nil {
		return core.InvalidInputf(core.ModuleDataset, "nil snapshot")
	}
	metaKey, usersKey, simKey := SnapshotKeys(prefix)

	users, err := json.Marshal(snap.Users.Users())
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	sim, err := json.Marshal(similarityPayload{
		Labels:  snap.Similarity.Labels(),
		Columns: snap.Similarity.Columns(),
		Scores:  snap.Similarity.Scores(),
	})
	if err != nil {
		return fmt.Errorf("encode similarity: %w", err)
	}
	meta, err := json.Marshal(metaPayload{
		Users:    snap.Users.Len(),
		Size:     snap.Similarity.Len(),
		LoadedAt: snap.LoadedAt,
	})
	if err != nil {
		return fmt.Errorf("encode meta: %w", err)
	}

	return s.BatchSet(ctx, map[string][]byte{
		metaKey:  meta,
		usersKey: users,
		simKey:   sim,
	})
}

// LoadSnapshot 从 Store 读取快照并重新校验。
// 快照不存在时返回 NOT_FOUND（core.IsNotFound）。
func LoadSnapshot(ctx context.Context, s core.Store, prefix string) (*core.Snapshot, error) {
	metaKey, usersKey, simKey := SnapshotKeys(prefix)
	vals, err := s.BatchGet(ctx, []string{metaKey, usersKey, simKey})
	if err != nil {
		return nil, fmt.Errorf("read snapshot from %s: %w", s.Name(), err)
	}
	for _, k := range []string{usersKey, simKey} {
		if _, ok := vals[k]; !ok {
			return nil, core.NewDomainError(core.ModuleDataset, core.ErrorCodeNotFound, "snapshot key "+k+" not found")
		}
	}

	var users []core.User
	if err := json.Unmarshal(vals[usersKey], &users); err != nil {
		return nil, core.InvalidInputf(core.ModuleDataset, "decode users: %v", err)
	}
	for i := range users {
		if err := validation.Struct(users[i]); err != nil {
			return nil, core.InvalidInputf(core.ModuleDataset, "snapshot user %q: %v", users[i].UserID, err)
		}
	}
	var sp similarityPayload
	if err := json.Unmarshal(vals[simKey], &sp); err != nil {
		return nil, core.InvalidInputf(core.ModuleDataset, "decode similarity: %v", err)
	}

	table, err := core.NewUserTable(users)
	if err != nil {
		return nil, err
	}
	sim, err := core.NewSimilarityMatrix(sp.Labels, sp.Columns, sp.Scores)
	if err != nil {
		return nil, err
	}
	snap, err := core.NewSnapshot(table, sim)
	if err != nil {
		return nil, err
	}

	if raw, ok := vals[metaKey]; ok {
		var meta metaPayload
		if err := json.Unmarshal(raw, &meta); err == nil && !meta.LoadedAt.IsZero() {
			snap.LoadedAt = meta.LoadedAt
		}
	}
	return snap, nil
}
