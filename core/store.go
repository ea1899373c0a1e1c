package core

import "context"

// Store 是键值存储，用于查询结果缓存（rec:...）与数据快照（catrec:snapshot:...）。
// 实现见 store 包：MemoryStore、RedisStore，以及包装任意 Store 的 BreakerStore。
type Store interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// Get 读取单个 key 的值，不存在时返回 ErrStoreNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// Set 写入单个 key-value，ttl 单位为秒（可选）
	Set(ctx context.Context, key string, value []byte, ttl ...int) error

	// Delete 删除单个 key
	Delete(ctx context.Context, key string) error

	// BatchGet 批量读取，缺失的 key 不出现在结果中
	BatchGet(ctx context.Context, keys []string) (map[string][]byte, error)

	// BatchSet 批量写入
	BatchSet(ctx context.Context, kvs map[string][]byte, ttl ...int) error

	// Close 关闭连接/释放资源
	Close() error
}

// UserSource 是用户表的外部来源（CSV 之外的特征存储等）。
type UserSource interface {
	// Name 返回来源名称（用于日志/监控）
	Name() string

	// GetUsers 按给定顺序获取用户；来源中不存在的用户直接跳过
	GetUsers(ctx context.Context, userIDs []string) ([]User, error)
}

// Store 的错误。
var (
	ErrStoreNotFound    = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: key not found")
	ErrStoreUnavailable = NewDomainError(ModuleStore, ErrorCodeUnavailable, "store: backend unavailable")
)

// IsStoreNotFound 判断是否为 Store 的 key 不存在。
func IsStoreNotFound(err error) bool { return matches(err, ModuleStore, ErrorCodeNotFound) }

// IsStoreUnavailable 判断是否为 Store 后端不可用（例如熔断打开）。
func IsStoreUnavailable(err error) bool { return matches(err, ModuleStore, ErrorCodeUnavailable) }
