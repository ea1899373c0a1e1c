package dataset

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rushteam/catrec/core"
	"github.com/rushteam/catrec/store"
)

func fixtureSnapshot(t *testing.T) *core.Snapshot {
	t.Helper()
	users, err := ReadUsersCSV(strings.NewReader(usersCSV))
	if err != nil {
		t.Fatal(err)
	}
	sim, err := ReadSimilarityCSV(strings.NewReader(similarityCSV))
	if err != nil {
		t.Fatal(err)
	}
	table, err := core.NewUserTable(users)
	if err != nil {
		t.Fatal(err)
	}
	snap, err := core.NewSnapshot(table, sim)
	if err != nil {
		t.Fatal(err)
	}
	return snap
}

func TestSaveLoadSnapshot(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	defer s.Close()

	snap := fixtureSnapshot(t)
	if err := SaveSnapshot(ctx, s, "", snap); err != nil {
		t.Fatalf("SaveSnapshot 失败: %v", err)
	}
	got, err := LoadSnapshot(ctx, s, DefaultSnapshotPrefix)
	if err != nil {
		t.Fatalf("LoadSnapshot 失败: %v", err)
	}

	wantIDs := snap.Users.IDs()
	gotIDs := got.Users.IDs()
	if strings.Join(gotIDs, ",") != strings.Join(wantIDs, ",") {
		t.Errorf("用户顺序 = %v, want %v", gotIDs, wantIDs)
	}
	u, _ := got.Users.Get("U2")
	if u.Interests != "Travel, Food" || u.Income != 42000 {
		t.Errorf("U2 = %+v", u)
	}
	row, ok := got.Similarity.Row("U1")
	if !ok || row.Scores[2] != 0.7 {
		t.Errorf("U1 行 = %+v", row)
	}
	if !got.LoadedAt.Equal(snap.LoadedAt) {
		t.Errorf("LoadedAt = %v, want %v", got.LoadedAt, snap.LoadedAt)
	}
}

func TestLoadSnapshot_NotFound(t *testing.T) {
	s := store.NewMemoryStore()
	defer s.Close()

	_, err := LoadSnapshot(context.Background(), s, "catrec:none")
	if !core.IsNotFound(err) {
		t.Errorf("期望 NOT_FOUND，实际 %v", err)
	}
}

func TestLoadSnapshot_Corrupt(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	defer s.Close()

	_, usersKey, simKey := SnapshotKeys("x")
	_ = s.Set(ctx, usersKey, []byte(`[{"user_id":"U1","age":500}]`))
	_ = s.Set(ctx, simKey, []byte(`{"labels":["U1"],"columns":["U1"],"scores":[[1]]}`))

	_, err := LoadSnapshot(ctx, s, "x")
	if !core.IsInvalidInput(err) {
		t.Errorf("期望 INVALID_INPUT，实际 %v", err)
	}
}

type staticSource struct {
	users []core.User
	err   error
}

func (s *staticSource) Name() string { return "static" }

func (s *staticSource) GetUsers(_ context.Context, ids []string) ([]core.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []core.User
	for _, u := range s.users {
		if want[u.UserID] {
			out = append(out, u)
		}
	}
	return out, nil
}

func TestBuildSnapshot(t *testing.T) {
	snap := fixtureSnapshot(t)
	src := &staticSource{users: []core.User{
		{UserID: "U2", Age: 30, ProductCategoryPreference: "Books"},
		{UserID: "U9", Age: 30, ProductCategoryPreference: "Toys"},
	}}
	got, err := BuildSnapshot(context.Background(), src, snap.Similarity)
	if err != nil {
		t.Fatalf("BuildSnapshot 失败: %v", err)
	}
	if got.Users.Len() != 1 || !got.Users.Has("U2") {
		t.Errorf("users = %v", got.Users.IDs())
	}

	boom := errors.New("feast down")
	if _, err := BuildSnapshot(context.Background(), &staticSource{err: boom}, snap.Similarity); !errors.Is(err, boom) {
		t.Errorf("期望包装来源错误，实际 %v", err)
	}
}
