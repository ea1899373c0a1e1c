package feast

import (
	"context"
	"os"
	"testing"
)

// 需要连接真实的 Feast Serving（CATREC_TEST_FEAST_ENDPOINT）
func TestGrpcClient_GetOnlineFeatures(t *testing.T) {
	endpoint := os.Getenv("CATREC_TEST_FEAST_ENDPOINT")
	if endpoint == "" {
		t.Skip("需要连接真实的 Feast 服务器才能运行")
	}

	src, err := NewUserSourceFromConfig(Config{Endpoint: endpoint, Project: "catrec"})
	if err != nil {
		t.Fatalf("创建客户端失败: %v", err)
	}
	defer src.Client.Close()

	users, err := src.GetUsers(context.Background(), []string{"U1", "U2"})
	if err != nil {
		t.Fatalf("获取用户失败: %v", err)
	}
	t.Logf("users: %+v", users)
}

func TestSDKValueConversion(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  any
	}{
		{"string", "Books", "Books"},
		{"int", 100, float64(100)},
		{"int64", int64(100), float64(100)},
		{"int32", int32(7), float64(7)},
		{"float64", 3.5, 3.5},
		{"float32", float32(1.5), 1.5},
		{"bool", true, float64(1)},
		{"[]byte", []byte("x"), "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fromSDKValue(toSDKValue(tt.input))
			if got != tt.want {
				t.Errorf("转换结果 = %v (%T)，期望 %v (%T)", got, got, tt.want, tt.want)
			}
		})
	}

	if fromSDKValue(nil) != nil {
		t.Error("nil 输入应该返回 nil")
	}
}

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		in      string
		host    string
		port    int
		wantErr bool
	}{
		{"localhost:6565", "localhost", 6565, false},
		{"grpc://feast:7000", "feast", 7000, false},
		{"feast", "feast", DefaultPort, false},
		{"", "", 0, true},
		{"feast:abc", "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			host, port, err := parseEndpoint(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && (host != tt.host || port != tt.port) {
				t.Errorf("got %s:%d, want %s:%d", host, port, tt.host, tt.port)
			}
		})
	}
}
