// Package config 把声明式的 Pipeline 配置变成可运行的后处理 Pipeline。
//
// 内置 Node 的构建逻辑在 config/builders 中通过 init 注册，入口处需要：
//
//	import _ "github.com/rushteam/catrec/config/builders"
package config

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rushteam/catrec/core"
	"github.com/rushteam/catrec/pipeline"
)

var registry = struct {
	sync.RWMutex
	builders map[string]pipeline.NodeBuilder
}{builders: map[string]pipeline.NodeBuilder{}}

// Register 注册一种 Node 类型；重复注册时后者覆盖前者。
func Register(nodeType string, builder pipeline.NodeBuilder) {
	if nodeType == "" || builder == nil {
		return
	}
	registry.Lock()
	registry.builders[nodeType] = builder
	registry.Unlock()
}

// SupportedTypes 返回已注册的 Node 类型（按名称排序）。
func SupportedTypes() []string {
	registry.RLock()
	defer registry.RUnlock()
	out := make([]string, 0, len(registry.builders))
	for t := range registry.builders {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// DefaultFactory 返回包含全部已注册类型的 NodeFactory 快照。
func DefaultFactory() *pipeline.NodeFactory {
	registry.RLock()
	defer registry.RUnlock()
	f := pipeline.NewNodeFactory()
	for t, b := range registry.builders {
		f.Register(t, b)
	}
	return f
}

// ValidatePipelineConfig 检查每个 Node 都声明了已注册的类型。
func ValidatePipelineConfig(cfg *pipeline.Config) error {
	if cfg == nil {
		return nil
	}
	f := DefaultFactory()
	for i, nc := range cfg.Pipeline.Nodes {
		switch {
		case nc.Type == "":
			return core.InvalidInputf(core.ModulePipeline, "node %d has empty type", i)
		case !f.Has(nc.Type):
			return core.InvalidInputf(core.ModulePipeline, "node %d: unsupported type %q (supported: %v)", i, nc.Type, SupportedTypes())
		}
	}
	return nil
}

// LoadPipeline 读取配置文件并构建 Pipeline。path 为空时返回 nil，即不做后处理。
func LoadPipeline(path string) (*pipeline.Pipeline, error) {
	if path == "" {
		return nil, nil
	}
	cfg, err := pipeline.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load pipeline %s: %w", path, err)
	}
	p, err := BuildPipeline(cfg)
	if err != nil {
		return nil, fmt.Errorf("build pipeline %s: %w", path, err)
	}
	return p, nil
}

// BuildPipeline 校验并构建 Pipeline。
func BuildPipeline(cfg *pipeline.Config) (*pipeline.Pipeline, error) {
	if err := ValidatePipelineConfig(cfg); err != nil {
		return nil, err
	}
	return cfg.Build(DefaultFactory())
}
