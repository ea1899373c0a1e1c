// Package dataset 负责把外部数据（CSV 文件、Store 快照、外部用户来源）加载为校验过的 core.Snapshot。
//
// 所有格式错误都在这里以 INVALID_INPUT 拦截，核心算法只处理合法数据。
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/rushteam/catrec/core"
	"github.com/rushteam/catrec/pkg/validation"
)

// RequiredUserFields 是用户 CSV 必须包含的列：主键、偏好类别与解释表默认展示列。
var RequiredUserFields = []core.Field{
	core.FieldUserID,
	core.FieldAge,
	core.FieldGender,
	core.FieldLocation,
	core.FieldInterests,
	core.FieldProductCategoryPreference,
}

// ReadUsersCSV 按表头列名读取用户表，列顺序任意，未知列忽略。
// 数值类可选列（Income 等）缺失或为空时取 0。
func ReadUsersCSV(r io.Reader) ([]core.User, error) {
	cr := newCSVReader(r)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, core.InvalidInputf(core.ModuleDataset, "users csv is empty")
	}
	if err != nil {
		return nil, core.InvalidInputf(core.ModuleDataset, "users csv header: %v", err)
	}

	cols := make(map[core.Field]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if f, err := core.ParseField(name); err == nil {
			cols[f] = i
		}
	}
	for _, f := range RequiredUserFields {
		if _, ok := cols[f]; !ok {
			return nil, core.InvalidInputf(core.ModuleDataset, "users csv missing column %q", f)
		}
	}

	var users []core.User
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, core.InvalidInputf(core.ModuleDataset, "users csv: %v", err)
		}
		u, err := parseUser(rec, cols)
		if err != nil {
			return nil, core.InvalidInputf(core.ModuleDataset, "users csv line %d: %v", line, err)
		}
		if err := validation.Struct(u); err != nil {
			return nil, core.InvalidInputf(core.ModuleDataset, "users csv line %d (%s): %v", line, u.UserID, err)
		}
		users = append(users, u)
	}
	return users, nil
}

func parseUser(rec []string, cols map[core.Field]int) (core.User, error) {
	get := func(f core.Field) string {
		i, ok := cols[f]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	u := core.User{
		UserID:                    get(core.FieldUserID),
		Gender:                    get(core.FieldGender),
		Location:                  get(core.FieldLocation),
		Interests:                 get(core.FieldInterests),
		ProductCategoryPreference: get(core.FieldProductCategoryPreference),
	}

	age, err := parseFloat(get(core.FieldAge))
	if err != nil {
		return u, fmt.Errorf("Age: %w", err)
	}
	if age != math.Trunc(age) {
		return u, fmt.Errorf("Age: %v is not a whole number", age)
	}
	u.Age = int(age)

	numbers := []struct {
		field core.Field
		dst   *float64
	}{
		{core.FieldIncome, &u.Income},
		{core.FieldPurchaseFrequency, &u.PurchaseFrequency},
		{core.FieldTotalSpending, &u.TotalSpending},
		{core.FieldPagesViewed, &u.PagesViewed},
	}
	for _, n := range numbers {
		v, err := parseFloat(get(n.field))
		if err != nil {
			return u, fmt.Errorf("%s: %w", n.field, err)
		}
		*n.dst = v
	}
	return u, nil
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not finite", s)
	}
	return v, nil
}

// ReadSimilarityCSV 读取相似度矩阵：首列为行标签（User_ID），表头其余列为列标签。
// 表头首格（索引名）内容忽略。
func ReadSimilarityCSV(r io.Reader) (*core.SimilarityMatrix, error) {
	cr := newCSVReader(r)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, core.InvalidInputf(core.ModuleDataset, "similarity csv is empty")
	}
	if err != nil {
		return nil, core.InvalidInputf(core.ModuleDataset, "similarity csv header: %v", err)
	}
	if len(header) < 2 {
		return nil, core.InvalidInputf(core.ModuleDataset, "similarity csv has no user columns")
	}
	columns := make([]string, len(header)-1)
	for i, h := range header[1:] {
		columns[i] = strings.TrimSpace(h)
	}

	var (
		labels []string
		scores [][]float64
	)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, core.InvalidInputf(core.ModuleDataset, "similarity csv: %v", err)
		}
		row := make([]float64, len(rec)-1)
		for j, cell := range rec[1:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, core.InvalidInputf(core.ModuleDataset, "similarity csv line %d column %q: invalid number %q", line, columns[j], cell)
			}
			row[j] = v
		}
		labels = append(labels, strings.TrimSpace(rec[0]))
		scores = append(scores, row)
	}
	return core.NewSimilarityMatrix(labels, columns, scores)
}

// LoadFiles 读取用户 CSV 与相似度 CSV 并组装快照。
func LoadFiles(usersPath, similarityPath string) (*core.Snapshot, error) {
	users, err := readFile(usersPath, ReadUsersCSV)
	if err != nil {
		return nil, err
	}
	sim, err := readFile(similarityPath, ReadSimilarityCSV)
	if err != nil {
		return nil, err
	}
	table, err := core.NewUserTable(users)
	if err != nil {
		return nil, err
	}
	return core.NewSnapshot(table, sim)
}

func readFile[T any](path string, read func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	v, err := read(f)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

func newCSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = false
	return cr
}
