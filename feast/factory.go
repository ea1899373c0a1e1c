package feast

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Config 是 Feast 用户来源的配置（settings 的 feast 段）。
type Config struct {
	Endpoint    string        `koanf:"endpoint"`     // host:port，例如 localhost:6565
	Project     string        `koanf:"project"`      // Feast 项目
	FeatureView string        `koanf:"feature_view"` // 用户特征视图，例如 users
	EntityKey   string        `koanf:"entity_key"`   // 实体列名，例如 user_id
	Token       string        `koanf:"token"`        // 非空时使用带认证的连接
	TLS         bool          `koanf:"tls"`
	Timeout     time.Duration `koanf:"timeout"` // 单次请求超时
	BatchSize   int           `koanf:"batch_size" validate:"gte=0"`
}

// NewUserSourceFromConfig 创建 gRPC 客户端并包装为 UserSource。
func NewUserSourceFromConfig(cfg Config) (*UserSource, error) {
	client, err := NewGrpcClient(cfg)
	if err != nil {
		return nil, err
	}
	return &UserSource{
		Client:      client,
		FeatureView: cfg.FeatureView,
		EntityKey:   cfg.EntityKey,
		BatchSize:   cfg.BatchSize,
	}, nil
}

// parseEndpoint 拆出 host 与 port；未写端口时 port 为 DefaultPort。
func parseEndpoint(endpoint string) (string, int, error) {
	endpoint = strings.TrimPrefix(endpoint, "grpc://")
	if endpoint == "" {
		return "", 0, fmt.Errorf("feast endpoint is required")
	}
	if !strings.Contains(endpoint, ":") {
		return endpoint, DefaultPort, nil
	}
	host, portStr, err := net.SplitHostPort(endpoint)
	if err != nil {
		return "", 0, fmt.Errorf("invalid feast endpoint %q: %w", endpoint, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return "", 0, fmt.Errorf("invalid feast port %q", portStr)
	}
	return host, port, nil
}
