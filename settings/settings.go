// Package settings 加载服务配置：默认值 → 可选 YAML 文件 → CATREC_ 环境变量，后者覆盖前者。
//
// 环境变量用双下划线表示层级，例如：
//
//	CATREC_SERVER__ADDR=:9000
//	CATREC_DATA__SOURCE=store
//	CATREC_RECOMMEND__EXPLAIN_FIELDS=User_ID,Age,Interests
package settings

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/rushteam/catrec/core"
	"github.com/rushteam/catrec/feast"
	"github.com/rushteam/catrec/pkg/logging"
	"github.com/rushteam/catrec/pkg/validation"
	"github.com/rushteam/catrec/store"
)

// EnvPrefix 是环境变量前缀。
const EnvPrefix = "CATREC_"

// ConfigPathEnvVar 指定配置文件路径的环境变量。
const ConfigPathEnvVar = "CATREC_CONFIG"

// 数据来源
const (
	SourceCSV   = "csv"
	SourceStore = "store"
	SourceFeast = "feast"
)

// Settings 是服务的全部配置。
type Settings struct {
	Server    ServerSettings    `koanf:"server"`
	Data      DataSettings      `koanf:"data"`
	Redis     RedisSettings     `koanf:"redis"`
	Cache     CacheSettings     `koanf:"cache"`
	Recommend RecommendSettings `koanf:"recommend"`
	Feast     feast.Config      `koanf:"feast"`
	Log       LogSettings       `koanf:"log"`
	Pipeline  PipelineSettings  `koanf:"pipeline"`
}

type ServerSettings struct {
	Addr            string        `koanf:"addr" validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// DataSettings 决定快照从哪里加载。
//   - csv: UsersPath + SimilarityPath
//   - store: Redis 中由 catrec-import 写入的快照（SnapshotPrefix）
//   - feast: SimilarityPath + Feast 在线存储中的用户属性
type DataSettings struct {
	Source         string `koanf:"source" validate:"oneof=csv store feast"`
	UsersPath      string `koanf:"users_path"`
	SimilarityPath string `koanf:"similarity_path"`
	SnapshotPrefix string `koanf:"snapshot_prefix"`
}

type RedisSettings struct {
	Enabled  bool          `koanf:"enabled"`
	Addr     string        `koanf:"addr"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db" validate:"gte=0"`
	Timeout  time.Duration `koanf:"timeout"`
}

// Config 转换为 store.RedisConfig。
func (r RedisSettings) Config() store.RedisConfig {
	return store.RedisConfig{Addr: r.Addr, Password: r.Password, DB: r.DB, Timeout: r.Timeout}
}

// CacheSettings 查询结果缓存：启用 Redis 时写入 Redis（带熔断），否则使用进程内存。
type CacheSettings struct {
	Enabled bool          `koanf:"enabled"`
	TTL     time.Duration `koanf:"ttl"`

	// Capacity 进程内缓存的最大条目数（未启用 Redis 时生效）
	Capacity int `koanf:"capacity" validate:"gte=0"`

	Breaker store.BreakerConfig `koanf:"breaker"`
}

// TTLSeconds 返回 Store 使用的秒级 TTL。
func (c CacheSettings) TTLSeconds() int {
	return int(c.TTL / time.Second)
}

// RecommendSettings 是查询默认值与上限，实现 core.RecommendConfig。
type RecommendSettings struct {
	DefaultK      int      `koanf:"default_k" validate:"gte=1"`
	DefaultN      int      `koanf:"default_n" validate:"gte=1"`
	MaxK          int      `koanf:"max_k" validate:"gte=1"`
	MaxN          int      `koanf:"max_n" validate:"gte=1"`
	ExplainFields []string `koanf:"explain_fields"`
}

var _ core.RecommendConfig = RecommendSettings{}

func (r RecommendSettings) DefaultTopKNeighbors() int  { return r.DefaultK }
func (r RecommendSettings) DefaultTopNCategories() int { return r.DefaultN }
func (r RecommendSettings) MaxTopKNeighbors() int      { return r.MaxK }
func (r RecommendSettings) MaxTopNCategories() int     { return r.MaxN }

type LogSettings struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error fatal panic disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Config 转换为 logging.Config。
func (l LogSettings) Config() logging.Config {
	return logging.Config{Level: l.Level, Format: l.Format, Caller: l.Caller, Output: os.Stderr}
}

type PipelineSettings struct {
	// Path 后处理 Pipeline 的 YAML 文件，为空表示不做后处理
	Path string `koanf:"path"`
}

// Defaults 返回默认配置。
func Defaults() Settings {
	return Settings{
		Server: ServerSettings{
			Addr:            ":8080",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Data: DataSettings{
			Source:         SourceCSV,
			UsersPath:      "users_clean.csv",
			SimilarityPath: "user_similarity.csv",
			SnapshotPrefix: "catrec:snapshot",
		},
		Redis: RedisSettings{
			Addr:    "localhost:6379",
			Timeout: 3 * time.Second,
		},
		Cache: CacheSettings{
			Enabled:  true,
			TTL:      10 * time.Minute,
			Capacity: store.DefaultMemoryCapacity,
		},
		Recommend: RecommendSettings{
			DefaultK: 10,
			DefaultN: 3,
			MaxK:     30,
			MaxN:     5,
		},
		Feast: feast.Config{
			Endpoint:    "localhost:6565",
			FeatureView: feast.DefaultFeatureView,
			EntityKey:   feast.DefaultEntityKey,
			Timeout:     5 * time.Second,
			BatchSize:   feast.DefaultBatchSize,
		},
		Log: LogSettings{
			Level:  "info",
			Format: "json",
		},
	}
}

// sliceConfigPaths 是可用逗号分隔字符串设置的列表项
var sliceConfigPaths = []string{
	"recommend.explain_fields",
}

// Load 按层加载配置。path 为空时读取 CATREC_CONFIG；两者都为空则只用默认值与环境变量。
func Load(path string) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path == "" {
		path = os.Getenv(ConfigPathEnvVar)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, err
	}

	s := &Settings{}
	if err := k.Unmarshal("", s); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// envTransformFunc: CATREC_DATA__USERS_PATH -> data.users_path；CATREC_CONFIG 不参与映射
func envTransformFunc(key string) string {
	if key == ConfigPathEnvVar {
		return ""
	}
	key = strings.TrimPrefix(key, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(key), "__", ".")
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("set %s: %w", path, err)
		}
	}
	return nil
}

// Validate 校验字段取值与跨字段约束。
func (s *Settings) Validate() error {
	if err := validation.Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	r := s.Recommend
	if r.DefaultK > r.MaxK {
		return fmt.Errorf("invalid settings: recommend.default_k %d exceeds recommend.max_k %d", r.DefaultK, r.MaxK)
	}
	if r.DefaultN > r.MaxN {
		return fmt.Errorf("invalid settings: recommend.default_n %d exceeds recommend.max_n %d", r.DefaultN, r.MaxN)
	}
	for _, name := range r.ExplainFields {
		if _, err := core.ParseField(name); err != nil {
			return fmt.Errorf("invalid settings: recommend.explain_fields: %w", err)
		}
	}

	switch s.Data.Source {
	case SourceCSV:
		if s.Data.UsersPath == "" || s.Data.SimilarityPath == "" {
			return fmt.Errorf("invalid settings: data.source=csv requires data.users_path and data.similarity_path")
		}
	case SourceStore:
		if !s.Redis.Enabled {
			return fmt.Errorf("invalid settings: data.source=store requires redis.enabled")
		}
	case SourceFeast:
		if s.Data.SimilarityPath == "" || s.Feast.Endpoint == "" || s.Feast.Project == "" {
			return fmt.Errorf("invalid settings: data.source=feast requires data.similarity_path, feast.endpoint and feast.project")
		}
	}
	if s.Redis.Enabled && s.Redis.Addr == "" {
		return fmt.Errorf("invalid settings: redis.enabled requires redis.addr")
	}
	return nil
}
