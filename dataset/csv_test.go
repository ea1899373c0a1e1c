package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rushteam/catrec/core"
)

const usersCSV = `User_ID,Age,Gender,Location,Income,Interests,Last_Login_Days_Ago,Purchase_Frequency,Average_Order_Value,Total_Spending,Product_Category_Preference,Time_Spent_on_Site_Minutes,Pages_Viewed,Newsletter_Subscription
U1,25,Female,Urban,50000,Sports,3,5,20,400,Books,30,12,True
U2,34,Male,Rural,42000,"Travel, Food",10,2,35,150,Electronics,12,4,False
U3,41,Female,Suburban,61000,Technology,1,9,50,900,Electronics,45,20,True
U4,29,Male,Urban,,Fashion,5,,,,Apparel,,,False
`

const similarityCSV = `,U1,U2,U3,U4
U1,1.0,0.9,0.7,0.7
U2,0.9,1.0,0.5,0.2
U3,0.7,0.5,1.0,0.4
U4,0.7,0.2,0.4,1.0
`

func TestReadUsersCSV(t *testing.T) {
	users, err := ReadUsersCSV(strings.NewReader(usersCSV))
	if err != nil {
		t.Fatalf("读取用户 CSV 失败: %v", err)
	}
	if len(users) != 4 {
		t.Fatalf("len = %d, want 4", len(users))
	}
	u2 := users[1]
	if u2.UserID != "U2" || u2.Age != 34 || u2.Interests != "Travel, Food" || u2.ProductCategoryPreference != "Electronics" {
		t.Errorf("U2 = %+v", u2)
	}
	if u2.Income != 42000 || u2.TotalSpending != 150 || u2.PagesViewed != 4 {
		t.Errorf("U2 数值列 = %+v", u2)
	}
	// 可选数值列为空时取 0
	if users[3].Income != 0 || users[3].PurchaseFrequency != 0 {
		t.Errorf("U4 数值列应为 0: %+v", users[3])
	}
}

func TestReadUsersCSV_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"空文件", ""},
		{"缺少必需列", "User_ID,Age,Gender,Location,Interests\nU1,20,F,Urban,Books\n"},
		{"年龄非数字", "User_ID,Age,Gender,Location,Interests,Product_Category_Preference\nU1,abc,F,Urban,x,Books\n"},
		{"年龄超出范围", "User_ID,Age,Gender,Location,Interests,Product_Category_Preference\nU1,200,F,Urban,x,Books\n"},
		{"年龄非整数", "User_ID,Age,Gender,Location,Interests,Product_Category_Preference\nU1,20.5,F,Urban,x,Books\n"},
		{"User_ID 为空", "User_ID,Age,Gender,Location,Interests,Product_Category_Preference\n,20,F,Urban,x,Books\n"},
		{"列数不一致", "User_ID,Age,Gender,Location,Interests,Product_Category_Preference\nU1,20,F\n"},
		{"收入为负", "User_ID,Age,Gender,Location,Income,Interests,Product_Category_Preference\nU1,20,F,Urban,-1,x,Books\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadUsersCSV(strings.NewReader(tt.data))
			if !core.IsInvalidInput(err) {
				t.Errorf("期望 INVALID_INPUT，实际 %v", err)
			}
		})
	}
}

func TestReadUsersCSV_BOMAndColumnOrder(t *testing.T) {
	data := "\ufeffProduct_Category_Preference,Interests,Location,Gender,Age,User_ID\nBooks,x,Urban,F,20,U9\n"
	users, err := ReadUsersCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("读取失败: %v", err)
	}
	if len(users) != 1 || users[0].UserID != "U9" || users[0].ProductCategoryPreference != "Books" {
		t.Errorf("users = %+v", users)
	}
}

func TestReadSimilarityCSV(t *testing.T) {
	m, err := ReadSimilarityCSV(strings.NewReader(similarityCSV))
	if err != nil {
		t.Fatalf("读取相似度 CSV 失败: %v", err)
	}
	if m.Len() != 4 {
		t.Fatalf("Len = %d, want 4", m.Len())
	}
	row, ok := m.Row("U1")
	if !ok {
		t.Fatal("缺少 U1 行")
	}
	if row.Columns[3] != "U4" || row.Scores[1] != 0.9 {
		t.Errorf("U1 行 = %+v", row)
	}
}

func TestReadSimilarityCSV_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"空文件", ""},
		{"只有索引列", "User_ID\nU1\n"},
		{"非数字", ",U1,U2\nU1,1,x\nU2,0.5,1\n"},
		{"非方阵", ",U1,U2\nU1,1,0.5\n"},
		{"NaN", ",U1,U2\nU1,1,NaN\nU2,0.5,1\n"},
		{"重复行", ",U1,U2\nU1,1,0.5\nU1,0.5,1\n"},
		{"行列数不一致", ",U1,U2\nU1,1\nU2,0.5,1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadSimilarityCSV(strings.NewReader(tt.data))
			if !core.IsInvalidInput(err) {
				t.Errorf("期望 INVALID_INPUT，实际 %v", err)
			}
		})
	}
}

func writeFixtures(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	usersPath := filepath.Join(dir, "users_clean.csv")
	simPath := filepath.Join(dir, "user_similarity.csv")
	if err := os.WriteFile(usersPath, []byte(usersCSV), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(simPath, []byte(similarityCSV), 0o600); err != nil {
		t.Fatal(err)
	}
	return usersPath, simPath
}

func TestLoadFiles(t *testing.T) {
	usersPath, simPath := writeFixtures(t)
	snap, err := LoadFiles(usersPath, simPath)
	if err != nil {
		t.Fatalf("LoadFiles 失败: %v", err)
	}
	if snap.Users.Len() != 4 || snap.Similarity.Len() != 4 {
		t.Errorf("snapshot = %d users, %d similarity rows", snap.Users.Len(), snap.Similarity.Len())
	}

	if _, err := LoadFiles(filepath.Join(t.TempDir(), "missing.csv"), simPath); err == nil {
		t.Error("文件不存在时期望返回错误")
	}
}
