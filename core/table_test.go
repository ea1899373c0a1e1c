package core

import (
	"reflect"
	"testing"
)

func TestNewUserTable(t *testing.T) {
	tbl, err := NewUserTable([]User{
		{UserID: "U1", ProductCategoryPreference: "Books"},
		{UserID: "U2"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Len() != 2 {
		t.Errorf("Len() = %d, want 2", tbl.Len())
	}
	if u, ok := tbl.Get("U1"); !ok || u.ProductCategoryPreference != "Books" {
		t.Errorf("Get(U1) = %+v, %v", u, ok)
	}
	if _, ok := tbl.Get("U9"); ok {
		t.Error("Get(U9) should miss")
	}
	if !reflect.DeepEqual(tbl.IDs(), []string{"U1", "U2"}) {
		t.Errorf("IDs() = %v", tbl.IDs())
	}

	tests := []struct {
		name  string
		users []User
	}{
		{name: "duplicate id", users: []User{{UserID: "U1"}, {UserID: "U1"}}},
		{name: "empty id", users: []User{{UserID: ""}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewUserTable(tt.users); !IsInvalidInput(err) {
				t.Errorf("expected INVALID_INPUT, got %v", err)
			}
		})
	}

	var nilTable *UserTable
	if nilTable.Len() != 0 || nilTable.Has("U1") {
		t.Error("nil table should be empty")
	}
}

func TestNewSimilarityMatrix(t *testing.T) {
	ids := []string{"U1", "U2"}
	m, err := NewSimilarityMatrix(ids, ids, [][]float64{{1, 0.5}, {0.5, 1}})
	if err != nil {
		t.Fatal(err)
	}
	row, ok := m.Row("U2")
	if !ok || row.Len() != 2 || row.Scores[0] != 0.5 {
		t.Errorf("Row(U2) = %+v, %v", row, ok)
	}
	if _, ok := m.Row("U3"); ok {
		t.Error("Row(U3) should miss")
	}

	tests := []struct {
		name    string
		labels  []string
		columns []string
		scores  [][]float64
	}{
		{name: "not square", labels: []string{"U1"}, columns: ids, scores: [][]float64{{1, 0.5}}},
		{name: "short row", labels: ids, columns: ids, scores: [][]float64{{1, 0.5}, {0.5}}},
		{name: "missing score row", labels: ids, columns: ids, scores: [][]float64{{1, 0.5}}},
		{name: "duplicate column", labels: ids, columns: []string{"U1", "U1"}, scores: [][]float64{{1, 0.5}, {0.5, 1}}},
		{name: "duplicate row", labels: []string{"U1", "U1"}, columns: ids, scores: [][]float64{{1, 0.5}, {0.5, 1}}},
		{name: "row without column", labels: []string{"U1", "U3"}, columns: ids, scores: [][]float64{{1, 0.5}, {0.5, 1}}},
		{name: "empty label", labels: []string{"U1", ""}, columns: ids, scores: [][]float64{{1, 0.5}, {0.5, 1}}},
		{name: "nan", labels: ids, columns: ids, scores: [][]float64{{1, nan()}, {0.5, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSimilarityMatrix(tt.labels, tt.columns, tt.scores); !IsInvalidInput(err) {
				t.Errorf("expected INVALID_INPUT, got %v", err)
			}
		})
	}
}

func nan() float64 {
	var zero float64
	return zero / zero
}

func TestSimilarityMatrix_CopiesInput(t *testing.T) {
	ids := []string{"U1", "U2"}
	scores := [][]float64{{1, 0.5}, {0.5, 1}}
	m, err := NewSimilarityMatrix(ids, ids, scores)
	if err != nil {
		t.Fatal(err)
	}
	scores[0][1] = 0.9
	ids[0] = "X"
	row, _ := m.Row("U1")
	if row.Scores[1] != 0.5 {
		t.Errorf("matrix shares caller's score slice")
	}
	if m.Labels()[0] != "U1" {
		t.Errorf("matrix shares caller's label slice")
	}
}

func TestNeighborSet(t *testing.T) {
	s := NewNeighborSet([]Neighbor{
		{UserID: "U2", Score: 0.9},
		{UserID: "U3", Score: 0.7},
		{UserID: "U2", Score: 0.1},
	})
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if score, ok := s.Score("U2"); !ok || score != 0.9 {
		t.Errorf("Score(U2) = %v, %v; first occurrence should win", score, ok)
	}
	if rank, ok := s.Rank("U3"); !ok || rank != 1 {
		t.Errorf("Rank(U3) = %d, %v", rank, ok)
	}
	if !reflect.DeepEqual(s.IDs(), []string{"U2", "U3"}) {
		t.Errorf("IDs() = %v", s.IDs())
	}

	var zero NeighborSet
	if !zero.Empty() || zero.Has("U2") {
		t.Error("zero NeighborSet should be empty")
	}
}

func TestUserValue(t *testing.T) {
	u := User{UserID: "U1", Age: 30, Income: 52000.5, PagesViewed: 12, ProductCategoryPreference: "Books"}
	tests := []struct {
		field Field
		want  string
	}{
		{FieldUserID, "U1"},
		{FieldAge, "30"},
		{FieldIncome, "52000.5"},
		{FieldPagesViewed, "12"},
		{FieldProductCategoryPreference, "Books"},
		{Field("Unknown"), ""},
	}
	for _, tt := range tests {
		if got := u.Value(tt.field); got != tt.want {
			t.Errorf("Value(%s) = %q, want %q", tt.field, got, tt.want)
		}
	}
	if (User{ProductCategoryPreference: "  "}).HasPreference() {
		t.Error("blank preference should not count")
	}
}

func TestNewSnapshot(t *testing.T) {
	if _, err := NewSnapshot(nil, nil); !IsInvalidInput(err) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}
