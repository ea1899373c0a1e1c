// Package feast 把 Feast Feature Store 作为用户表的外部来源。
//
// 相似度矩阵仍来自离线计算；用户属性（年龄、地区、兴趣、偏好类别等）可以从 Feast
// 在线存储按 User_ID 拉取，替代 CSV 用户表。
package feast

import "context"

// Client 读取 Feast 在线特征。GrpcClient 是基于官方 SDK 的实现。
type Client interface {
	// GetOnlineFeatures 返回与 req.Entities 一一对应的特征行
	GetOnlineFeatures(ctx context.Context, req OnlineRequest) ([]FeatureRow, error)
	Close() error
}

// OnlineRequest 是一次在线特征请求。
type OnlineRequest struct {
	// Project 为空时使用客户端配置的项目
	Project string

	// Features 完整特征名，例如 users:age
	Features []string

	// Entities 实体行，例如 {"user_id": "U1"}
	Entities []map[string]any
}

// FeatureRow 是一个实体的特征值，key 为完整特征名；空值不出现。
// 字符串保持字符串，数值统一为 float64。
type FeatureRow map[string]any
