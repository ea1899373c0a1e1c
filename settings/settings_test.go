package settings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatalf("Load 失败: %v", err)
	}
	if s.Server.Addr != ":8080" || s.Data.Source != SourceCSV {
		t.Errorf("settings = %+v", s)
	}
	if s.Recommend.DefaultTopKNeighbors() != 10 || s.Recommend.DefaultTopNCategories() != 3 {
		t.Errorf("recommend = %+v", s.Recommend)
	}
	if s.Recommend.MaxTopKNeighbors() != 30 || s.Recommend.MaxTopNCategories() != 5 {
		t.Errorf("recommend = %+v", s.Recommend)
	}
	if s.Cache.TTLSeconds() != 600 {
		t.Errorf("cache ttl = %d, want 600", s.Cache.TTLSeconds())
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catrec.yaml")
	yaml := `
server:
  addr: ":9000"
data:
  users_path: /data/users.csv
  similarity_path: /data/sim.csv
recommend:
  default_k: 5
  explain_fields: [User_ID, Age]
cache:
  ttl: 30s
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CATREC_SERVER__ADDR", ":9100")
	t.Setenv("CATREC_LOG__LEVEL", "debug")

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load 失败: %v", err)
	}
	if s.Server.Addr != ":9100" {
		t.Errorf("环境变量应覆盖文件: addr = %s", s.Server.Addr)
	}
	if s.Data.UsersPath != "/data/users.csv" || s.Recommend.DefaultK != 5 {
		t.Errorf("文件配置未生效: %+v", s)
	}
	if s.Recommend.MaxK != 30 {
		t.Errorf("未覆盖的字段应保留默认值: max_k = %d", s.Recommend.MaxK)
	}
	if strings.Join(s.Recommend.ExplainFields, ",") != "User_ID,Age" {
		t.Errorf("explain_fields = %v", s.Recommend.ExplainFields)
	}
	if s.Cache.TTL != 30*time.Second {
		t.Errorf("cache ttl = %v", s.Cache.TTL)
	}
	if s.Log.Level != "debug" {
		t.Errorf("log level = %s", s.Log.Level)
	}
}

func TestLoad_EnvSlice(t *testing.T) {
	t.Setenv("CATREC_RECOMMEND__EXPLAIN_FIELDS", "User_ID, Interests")
	s, err := Load("")
	if err != nil {
		t.Fatalf("Load 失败: %v", err)
	}
	if strings.Join(s.Recommend.ExplainFields, ",") != "User_ID,Interests" {
		t.Errorf("explain_fields = %v", s.Recommend.ExplainFields)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"未知数据源", func(s *Settings) { s.Data.Source = "s3" }},
		{"store 需要 redis", func(s *Settings) { s.Data.Source = SourceStore }},
		{"feast 需要 project", func(s *Settings) { s.Data.Source = SourceFeast }},
		{"默认 K 超过上限", func(s *Settings) { s.Recommend.DefaultK = 40 }},
		{"默认 N 超过上限", func(s *Settings) { s.Recommend.DefaultN = 6 }},
		{"未知解释列", func(s *Settings) { s.Recommend.ExplainFields = []string{"Email"} }},
		{"日志级别", func(s *Settings) { s.Log.Level = "verbose" }},
		{"缺少地址", func(s *Settings) { s.Server.Addr = "" }},
		{"csv 缺少路径", func(s *Settings) { s.Data.UsersPath = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Defaults()
			tt.mutate(&s)
			if err := s.Validate(); err == nil {
				t.Error("期望校验失败")
			}
		})
	}

	ok := Defaults()
	if err := ok.Validate(); err != nil {
		t.Errorf("默认配置应通过校验: %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := map[string]string{
		"CATREC_DATA__USERS_PATH": "data.users_path",
		"CATREC_CACHE__BREAKER__FAILURE_THRESHOLD": "cache.breaker.failure_threshold",
		"CATREC_CONFIG": "",
	}
	for in, want := range tests {
		if got := envTransformFunc(in); got != want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", in, got, want)
		}
	}
}
