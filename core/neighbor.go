package core

// Neighbor 是一个相似用户及其相似度。
type Neighbor struct {
	UserID string  `json:"user_id"`
	Score  float64 `json:"similarity"`
}

// NeighborSet 是有序映射 UserID → 相似度，按排名（相似度降序）排列。
// 每次查询临时产生，不持久化。零值是合法的空集合。
type NeighborSet struct {
	items []Neighbor
	index map[string]int
}

// NewNeighborSet 按给定顺序创建邻居集合；重复的 UserID 只保留第一次出现。
func NewNeighborSet(neighbors []Neighbor) NeighborSet {
	s := NeighborSet{
		items: make([]Neighbor, 0, len(neighbors)),
		index: make(map[string]int, len(neighbors)),
	}
	for _, n := range neighbors {
		if _, ok := s.index[n.UserID]; ok {
			continue
		}
		s.index[n.UserID] = len(s.items)
		s.items = append(s.items, n)
	}
	return s
}

// Len 返回邻居数量。
func (s NeighborSet) Len() int { return len(s.items) }

// Empty 判断集合是否为空。
func (s NeighborSet) Empty() bool { return len(s.items) == 0 }

// Has 判断用户是否在集合中。
func (s NeighborSet) Has(userID string) bool {
	_, ok := s.index[userID]
	return ok
}

// Score 返回用户的相似度。
func (s NeighborSet) Score(userID string) (float64, bool) {
	i, ok := s.index[userID]
	if !ok {
		return 0, false
	}
	return s.items[i].Score, true
}

// Rank 返回用户的排名（从 0 开始）。
func (s NeighborSet) Rank(userID string) (int, bool) {
	i, ok := s.index[userID]
	return i, ok
}

// At 返回第 i 名邻居。
func (s NeighborSet) At(i int) Neighbor { return s.items[i] }

// IDs 按排名返回邻居 UserID。
func (s NeighborSet) IDs() []string {
	out := make([]string, len(s.items))
	for i, n := range s.items {
		out[i] = n.UserID
	}
	return out
}

// Neighbors 按排名返回邻居的拷贝。
func (s NeighborSet) Neighbors() []Neighbor {
	return append(make([]Neighbor, 0, len(s.items)), s.items...)
}
