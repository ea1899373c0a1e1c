package feast

import (
	"context"
	"fmt"

	feastsdk "github.com/feast-dev/feast/sdk/go"
	"github.com/feast-dev/feast/sdk/go/protos/feast/types"
)

// DefaultPort 是 Feast Serving 的默认 gRPC 端口。
const DefaultPort = 6565

// GrpcClient 通过官方 Feast Go SDK 访问 Feast Serving。
type GrpcClient struct {
	sdk     *feastsdk.GrpcClient
	cfg     Config
	address string
}

var _ Client = (*GrpcClient)(nil)

// NewGrpcClient 按配置建立连接。Token 或 TLS 非空时使用安全连接。
func NewGrpcClient(cfg Config) (*GrpcClient, error) {
	host, port, err := parseEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}
	address := fmt.Sprintf("%s:%d", host, port)

	var sdk *feastsdk.GrpcClient
	if cfg.Token == "" && !cfg.TLS {
		sdk, err = feastsdk.NewGrpcClient(host, port)
	} else {
		sec := feastsdk.SecurityConfig{EnableTLS: cfg.TLS}
		if cfg.Token != "" {
			sec.Credential = feastsdk.NewStaticCredential(cfg.Token)
		}
		sdk, err = feastsdk.NewSecureGrpcClient(host, port, sec)
	}
	if err != nil {
		return nil, fmt.Errorf("connect feast %s: %w", address, err)
	}
	return &GrpcClient{sdk: sdk, cfg: cfg, address: address}, nil
}

// Address 返回连接的 host:port。
func (c *GrpcClient) Address() string { return c.address }

func (c *GrpcClient) GetOnlineFeatures(ctx context.Context, req OnlineRequest) ([]FeatureRow, error) {
	if len(req.Features) == 0 {
		return nil, fmt.Errorf("feast: no features requested")
	}
	if len(req.Entities) == 0 {
		return nil, nil
	}
	project := req.Project
	if project == "" {
		project = c.cfg.Project
	}
	if project == "" {
		return nil, fmt.Errorf("feast: project is required")
	}

	entities := make([]feastsdk.Row, 0, len(req.Entities))
	for _, e := range req.Entities {
		row := feastsdk.Row{}
		for k, v := range e {
			row[k] = toSDKValue(v)
		}
		entities = append(entities, row)
	}

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}
	resp, err := c.sdk.GetOnlineFeatures(ctx, &feastsdk.OnlineFeaturesRequest{
		Features: req.Features,
		Entities: entities,
		Project:  project,
	})
	if err != nil {
		return nil, fmt.Errorf("feast %s: get online features: %w", c.address, err)
	}

	sdkRows := resp.Rows()
	if len(sdkRows) != len(req.Entities) {
		return nil, fmt.Errorf("feast: got %d rows for %d entities", len(sdkRows), len(req.Entities))
	}
	out := make([]FeatureRow, len(sdkRows))
	for i, r := range sdkRows {
		fr := FeatureRow{}
		for _, name := range req.Features {
			if v := fromSDKValue(r[name]); v != nil {
				fr[name] = v
			}
		}
		out[i] = fr
	}
	return out, nil
}

// Close 释放客户端。SDK 没有暴露关闭连接的方法，连接随进程结束。
func (c *GrpcClient) Close() error {
	c.sdk = nil
	return nil
}

func toSDKValue(v any) *types.Value {
	switch val := v.(type) {
	case string:
		return feastsdk.StrVal(val)
	case int:
		return feastsdk.Int64Val(int64(val))
	case int32:
		return feastsdk.Int64Val(int64(val))
	case int64:
		return feastsdk.Int64Val(val)
	case float32:
		return feastsdk.FloatVal(val)
	case float64:
		return feastsdk.DoubleVal(val)
	case bool:
		return feastsdk.BoolVal(val)
	case []byte:
		return feastsdk.BytesVal(val)
	}
	return feastsdk.StrVal(fmt.Sprint(v))
}

// fromSDKValue: 字符串与字节转为 string，数值与布尔转为 float64，空值返回 nil。
func fromSDKValue(v *types.Value) any {
	switch val := v.GetVal().(type) {
	case *types.Value_StringVal:
		return val.StringVal
	case *types.Value_BytesVal:
		return string(val.BytesVal)
	case *types.Value_Int32Val:
		return float64(val.Int32Val)
	case *types.Value_Int64Val:
		return float64(val.Int64Val)
	case *types.Value_FloatVal:
		return float64(val.FloatVal)
	case *types.Value_DoubleVal:
		return val.DoubleVal
	case *types.Value_BoolVal:
		if val.BoolVal {
			return 1.0
		}
		return 0.0
	}
	return nil
}
