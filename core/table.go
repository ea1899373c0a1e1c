package core

// UserTable 是只读的用户表：保留加载顺序，并按 User_ID 建立索引。
//
// 行顺序有语义：类别聚合按行顺序遍历，平票时先出现的类别优先。
type UserTable struct {
	rows  []User
	index map[string]int
}

// NewUserTable 创建用户表。User_ID 为空或重复时返回 INVALID_INPUT 错误。
func NewUserTable(users []User) (*UserTable, error) {
	t := &UserTable{
		rows:  make([]User, len(users)),
		index: make(map[string]int, len(users)),
	}
	for i, u := range users {
		if u.UserID == "" {
			return nil, InvalidInputf(ModuleDataset, "user row %d has empty User_ID", i)
		}
		if prev, ok := t.index[u.UserID]; ok {
			return nil, InvalidInputf(ModuleDataset, "duplicate User_ID %q (rows %d and %d)", u.UserID, prev, i)
		}
		t.index[u.UserID] = i
		t.rows[i] = u
	}
	return t, nil
}

// Len 返回行数。
func (t *UserTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Get 按 User_ID 查找用户。
func (t *UserTable) Get(userID string) (User, bool) {
	if t == nil {
		return User{}, false
	}
	i, ok := t.index[userID]
	if !ok {
		return User{}, false
	}
	return t.rows[i], true
}

// Has 判断 User_ID 是否存在。
func (t *UserTable) Has(userID string) bool {
	if t == nil {
		return false
	}
	_, ok := t.index[userID]
	return ok
}

// At 返回第 i 行。
func (t *UserTable) At(i int) User {
	return t.rows[i]
}

// IDs 按行顺序返回全部 User_ID。
func (t *UserTable) IDs() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.rows))
	for i, u := range t.rows {
		out[i] = u.UserID
	}
	return out
}

// Users 返回行的拷贝。
func (t *UserTable) Users() []User {
	if t == nil {
		return nil
	}
	out := make([]User, len(t.rows))
	copy(out, t.rows)
	return out
}
