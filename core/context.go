package core

// RecommendContext 承载一次查询的用户与参数，贯穿后处理 Pipeline 透传。
type RecommendContext struct {
	UserID string

	// User 是被查询用户自身的画像（不在用户表中时为 nil）
	User *User

	// TopK / TopN 是本次查询的邻居数与类别数
	TopK int
	TopN int

	// Params 请求级参数，规则表达式中以 rctx.params 访问
	Params map[string]any
}

// FavoriteCategory 返回被查询用户当前的偏好类别；没有则返回空串。
func (rctx *RecommendContext) FavoriteCategory() string {
	if rctx == nil || rctx.User == nil {
		return ""
	}
	return rctx.User.ProductCategoryPreference
}
