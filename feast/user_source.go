package feast

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rushteam/catrec/core"
	"github.com/rushteam/catrec/pkg/logging"
)

// 默认的特征视图与实体列。
const (
	DefaultFeatureView = "users"
	DefaultEntityKey   = "user_id"
	DefaultBatchSize   = 100
)

// userFeatures 把特征名（不含视图前缀）映射到用户表列。
var userFeatures = []struct {
	name  string
	field core.Field
}{
	{"age", core.FieldAge},
	{"gender", core.FieldGender},
	{"location", core.FieldLocation},
	{"income", core.FieldIncome},
	{"interests", core.FieldInterests},
	{"product_category_preference", core.FieldProductCategoryPreference},
	{"purchase_frequency", core.FieldPurchaseFrequency},
	{"total_spending", core.FieldTotalSpending},
	{"pages_viewed", core.FieldPagesViewed},
}

// UserSource 从 Feast 在线存储按 User_ID 批量读取用户属性，实现 core.UserSource。
// 所有特征均为空的实体视为不存在，直接跳过。
type UserSource struct {
	Client      Client
	FeatureView string
	EntityKey   string
	BatchSize   int
}

var _ core.UserSource = (*UserSource)(nil)

func (s *UserSource) Name() string { return "feast" }

// Features 返回请求的完整特征名列表，例如 users:age。
func (s *UserSource) Features() []string {
	view := s.FeatureView
	if view == "" {
		view = DefaultFeatureView
	}
	out := make([]string, len(userFeatures))
	for i, f := range userFeatures {
		out[i] = view + ":" + f.name
	}
	return out
}

func (s *UserSource) GetUsers(ctx context.Context, userIDs []string) ([]core.User, error) {
	entityKey := s.EntityKey
	if entityKey == "" {
		entityKey = DefaultEntityKey
	}
	batch := s.BatchSize
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	features := s.Features()

	users := make([]core.User, 0, len(userIDs))
	for start := 0; start < len(userIDs); start += batch {
		end := min(start+batch, len(userIDs))
		ids := userIDs[start:end]

		rows := make([]map[string]any, len(ids))
		for i, id := range ids {
			rows[i] = map[string]any{entityKey: id}
		}
		fetched, err := s.Client.GetOnlineFeatures(ctx, OnlineRequest{
			Features: features,
			Entities: rows,
		})
		if err != nil {
			return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeUnavailable, err.Error())
		}
		if len(fetched) != len(ids) {
			return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeInternalError,
				fmt.Sprintf("feast returned %d rows for %d users", len(fetched), len(ids)))
		}

		for i, values := range fetched {
			if len(values) == 0 {
				logging.Ctx(ctx).Debug().Str("user_id", ids[i]).Msg("feast: user has no features")
				continue
			}
			u, err := s.toUser(ids[i], features, values)
			if err != nil {
				return nil, core.InvalidInputf(core.ModuleFeature, "user %q: %v", ids[i], err)
			}
			users = append(users, u)
		}
	}
	return users, nil
}

func (s *UserSource) toUser(id string, features []string, values map[string]any) (core.User, error) {
	u := core.User{UserID: id}
	for i, f := range userFeatures {
		v, ok := values[features[i]]
		if !ok {
			continue
		}
		switch f.field {
		case core.FieldAge:
			n, err := number(v)
			if err != nil {
				return u, fmt.Errorf("%s: %w", f.name, err)
			}
			if n != math.Trunc(n) {
				return u, fmt.Errorf("%s: %v is not a whole number", f.name, n)
			}
			u.Age = int(n)
		case core.FieldIncome, core.FieldPurchaseFrequency, core.FieldTotalSpending, core.FieldPagesViewed:
			n, err := number(v)
			if err != nil {
				return u, fmt.Errorf("%s: %w", f.name, err)
			}
			switch f.field {
			case core.FieldIncome:
				u.Income = n
			case core.FieldPurchaseFrequency:
				u.PurchaseFrequency = n
			case core.FieldTotalSpending:
				u.TotalSpending = n
			default:
				u.PagesViewed = n
			}
		case core.FieldGender:
			u.Gender = text(v)
		case core.FieldLocation:
			u.Location = text(v)
		case core.FieldInterests:
			u.Interests = text(v)
		case core.FieldProductCategoryPreference:
			u.ProductCategoryPreference = text(v)
		}
	}
	return u, nil
}

// text 返回去掉首尾空白的字符串值，与 CSV 加载保持一致。
func text(v any) string {
	return strings.TrimSpace(fmt.Sprint(v))
}

func number(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number %q", n)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}
