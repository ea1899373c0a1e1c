package core

import (
	"strconv"
	"strings"
)

// User 是用户表中的一行：人口属性 + 行为统计 + 兴趣 + 唯一的偏好类别。
//
// 数据一经加载即只读；核心逻辑从不修改 User。
// ProductCategoryPreference 为空表示该用户没有记录偏好类别，聚合时不计入。
type User struct {
	UserID string `json:"user_id" validate:"required"`

	// 人口属性
	Age      int     `json:"age" validate:"gte=0,lte=150"`
	Gender   string  `json:"gender"`
	Location string  `json:"location"`
	Income   float64 `json:"income" validate:"gte=0"`

	// 行为统计
	PurchaseFrequency float64 `json:"purchase_frequency" validate:"gte=0"`
	TotalSpending     float64 `json:"total_spending" validate:"gte=0"`
	PagesViewed       float64 `json:"pages_viewed" validate:"gte=0"`

	// 兴趣文本
	Interests string `json:"interests"`

	// 偏好类别（每个用户至多一个）
	ProductCategoryPreference string `json:"product_category_preference"`
}

// HasPreference 判断用户是否记录了偏好类别。
func (u User) HasPreference() bool {
	return strings.TrimSpace(u.ProductCategoryPreference) != ""
}

// Field 是用户表中的列名，沿用数据源的列命名。
type Field string

const (
	FieldUserID                    Field = "User_ID"
	FieldAge                       Field = "Age"
	FieldGender                    Field = "Gender"
	FieldLocation                  Field = "Location"
	FieldIncome                    Field = "Income"
	FieldInterests                 Field = "Interests"
	FieldProductCategoryPreference Field = "Product_Category_Preference"
	FieldPurchaseFrequency         Field = "Purchase_Frequency"
	FieldTotalSpending             Field = "Total_Spending"
	FieldPagesViewed               Field = "Pages_Viewed"
)

// AllFields 按数据源列顺序列出全部已知列。
var AllFields = []Field{
	FieldUserID,
	FieldAge,
	FieldGender,
	FieldLocation,
	FieldIncome,
	FieldInterests,
	FieldProductCategoryPreference,
	FieldPurchaseFrequency,
	FieldTotalSpending,
	FieldPagesViewed,
}

// DefaultExplainFields 是解释表默认展示的列。
var DefaultExplainFields = []Field{
	FieldUserID,
	FieldAge,
	FieldGender,
	FieldLocation,
	FieldInterests,
	FieldProductCategoryPreference,
}

// ParseField 将列名解析为 Field，未知列返回 INVALID_INPUT 错误。
func ParseField(name string) (Field, error) {
	for _, f := range AllFields {
		if string(f) == name {
			return f, nil
		}
	}
	return "", InvalidInputf(ModuleDataset, "unknown field %q", name)
}

// Value 以展示用字符串返回用户在某一列上的取值。
func (u User) Value(f Field) string {
	switch f {
	case FieldUserID:
		return u.UserID
	case FieldAge:
		return strconv.Itoa(u.Age)
	case FieldGender:
		return u.Gender
	case FieldLocation:
		return u.Location
	case FieldIncome:
		return formatNumber(u.Income)
	case FieldInterests:
		return u.Interests
	case FieldProductCategoryPreference:
		return u.ProductCategoryPreference
	case FieldPurchaseFrequency:
		return formatNumber(u.PurchaseFrequency)
	case FieldTotalSpending:
		return formatNumber(u.TotalSpending)
	case FieldPagesViewed:
		return formatNumber(u.PagesViewed)
	default:
		return ""
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
