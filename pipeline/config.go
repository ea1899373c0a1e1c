package pipeline

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Config 是后处理 Pipeline 的声明式配置：
//
//	pipeline:
//	  name: category_postprocess
//	  nodes:
//	    - type: filter.exclude_favorite
//	    - type: rerank.topn
//	      config:
//	        n: 2
type Config struct {
	Pipeline struct {
		Name  string       `yaml:"name" json:"name"`
		Nodes []NodeConfig `yaml:"nodes" json:"nodes"`
	} `yaml:"pipeline" json:"pipeline"`
}

// NodeConfig 是单个 Node 的类型与参数。
type NodeConfig struct {
	Type   string `yaml:"type" json:"type"`
	Config Params `yaml:"config" json:"config"`
}

// Load 读取配置文件，.json 按 JSON 解析，其余按 YAML 解析。
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pipeline config: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ParseJSON(data)
	}
	return ParseYAML(data)
}

// ParseYAML 解析 YAML 配置，未知字段视为错误。
func ParseYAML(data []byte) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse pipeline yaml: %w", err)
	}
	return cfg, nil
}

// ParseJSON 解析 JSON 配置，未知字段视为错误。
func ParseJSON(data []byte) (*Config, error) {
	cfg := &Config{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse pipeline json: %w", err)
	}
	return cfg, nil
}

// Build 按 Node 声明顺序构建 Pipeline。
func (c *Config) Build(factory *NodeFactory) (*Pipeline, error) {
	p := &Pipeline{Nodes: make([]Node, 0, len(c.Pipeline.Nodes))}
	for i, nc := range c.Pipeline.Nodes {
		node, err := factory.Build(nc.Type, nc.Config)
		if err != nil {
			return nil, fmt.Errorf("node %d (%s): %w", i, nc.Type, err)
		}
		p.Nodes = append(p.Nodes, node)
	}
	return p, nil
}

// NodeBuilder 根据参数构建 Node。
type NodeBuilder func(Params) (Node, error)

// NodeFactory 按类型名查找 NodeBuilder。
type NodeFactory struct {
	builders map[string]NodeBuilder
}

func NewNodeFactory() *NodeFactory {
	return &NodeFactory{builders: map[string]NodeBuilder{}}
}

func (f *NodeFactory) Register(nodeType string, builder NodeBuilder) {
	f.builders[nodeType] = builder
}

// Has 判断类型是否已注册。
func (f *NodeFactory) Has(nodeType string) bool {
	_, ok := f.builders[nodeType]
	return ok
}

// Build 构建一个 Node。params 为 nil 时按空参数处理。
func (f *NodeFactory) Build(nodeType string, params Params) (Node, error) {
	builder, ok := f.builders[nodeType]
	if !ok {
		return nil, fmt.Errorf("unknown node type %q", nodeType)
	}
	if params == nil {
		params = Params{}
	}
	return builder(params)
}
