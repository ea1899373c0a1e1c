package recall

import (
	"context"
	"reflect"
	"testing"

	"github.com/rushteam/catrec/core"
)

func testMatrix(t *testing.T) *core.SimilarityMatrix {
	t.Helper()
	cols := []string{"U2", "U3", "U4", "U1"}
	m, err := core.NewSimilarityMatrix(cols, cols, [][]float64{
		{1.0, 0.5, 0.2, 0.9},
		{0.5, 1.0, 0.4, 0.7},
		{0.2, 0.4, 1.0, 0.7},
		{0.9, 0.7, 0.7, 1.0},
	})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestSelectNeighbors(t *testing.T) {
	m := testMatrix(t)
	tests := []struct {
		name   string
		userID string
		k      int
		want   []core.Neighbor
	}{
		{
			name:   "tie broken by column order",
			userID: "U1",
			k:      2,
			want:   []core.Neighbor{{UserID: "U2", Score: 0.9}, {UserID: "U3", Score: 0.7}},
		},
		{
			name:   "k larger than other users",
			userID: "U1",
			k:      10,
			want: []core.Neighbor{
				{UserID: "U2", Score: 0.9},
				{UserID: "U3", Score: 0.7},
				{UserID: "U4", Score: 0.7},
			},
		},
		{
			name:   "self excluded",
			userID: "U4",
			k:      3,
			want: []core.Neighbor{
				{UserID: "U1", Score: 0.7},
				{UserID: "U3", Score: 0.4},
				{UserID: "U2", Score: 0.2},
			},
		},
		{name: "unknown user", userID: "UNKNOWN", k: 5, want: []core.Neighbor{}},
		{name: "zero k", userID: "U1", k: 0, want: []core.Neighbor{}},
		{name: "negative k", userID: "U1", k: -1, want: []core.Neighbor{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectNeighbors(tt.userID, m, tt.k)
			if !reflect.DeepEqual(got.Neighbors(), tt.want) {
				t.Errorf("SelectNeighbors() = %v, want %v", got.Neighbors(), tt.want)
			}
			if got.Has(tt.userID) {
				t.Errorf("queried user %s returned as its own neighbor", tt.userID)
			}
		})
	}
}

func TestSelectNeighbors_NilMatrix(t *testing.T) {
	got := SelectNeighbors("U1", nil, 3)
	if !got.Empty() {
		t.Errorf("expected empty set for nil matrix, got %v", got.IDs())
	}
}

func TestSelectNeighbors_Idempotent(t *testing.T) {
	m := testMatrix(t)
	a := SelectNeighbors("U1", m, 3)
	b := SelectNeighbors("U1", m, 3)
	if !reflect.DeepEqual(a.Neighbors(), b.Neighbors()) {
		t.Errorf("results differ: %v vs %v", a.Neighbors(), b.Neighbors())
	}
}

func TestU2UNeighbors_Recall(t *testing.T) {
	r := &U2UNeighbors{Similarity: testMatrix(t), TopK: 1}
	var _ Source = r

	items, err := r.Recall(context.Background(), &core.RecommendContext{UserID: "U1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].ID != "U2" || items[0].Score != 0.9 {
		t.Fatalf("unexpected items with default TopK: %+v", items)
	}

	items, err = r.Process(context.Background(), &core.RecommendContext{UserID: "U1", TopK: 3}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for i, it := range items {
		if rank, _ := it.MetaInt("rank"); rank != i {
			t.Errorf("item %s rank = %d, want %d", it.ID, rank, i)
		}
		if lbl := it.Labels["recall_source"]; lbl.Value != "u2u" {
			t.Errorf("item %s recall_source = %q", it.ID, lbl.Value)
		}
	}

	items, err = r.Recall(context.Background(), &core.RecommendContext{})
	if err != nil || items != nil {
		t.Errorf("empty user id should recall nothing, got %v, %v", items, err)
	}
}

func TestNeighborSetFromItems(t *testing.T) {
	want := SelectNeighbors("U1", testMatrix(t), 3)
	items := NeighborItems(want)
	items = append(items, nil)
	got := NeighborSetFromItems(items)
	if !reflect.DeepEqual(got.Neighbors(), want.Neighbors()) {
		t.Errorf("round trip = %v, want %v", got.Neighbors(), want.Neighbors())
	}
	if NeighborSetFromItems(nil).Len() != 0 {
		t.Error("nil items should give an empty set")
	}
}
