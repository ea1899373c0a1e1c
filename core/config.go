package core

// RecommendConfig 是查询相关的配置接口，用于提供默认值与上限。
type RecommendConfig interface {
	// DefaultTopKNeighbors 返回默认的邻居数 K
	DefaultTopKNeighbors() int

	// DefaultTopNCategories 返回默认的推荐类别数 N
	DefaultTopNCategories() int

	// MaxTopKNeighbors 返回对外接口允许的最大 K
	MaxTopKNeighbors() int

	// MaxTopNCategories 返回对外接口允许的最大 N
	MaxTopNCategories() int
}

// DefaultRecommendConfig 是默认的查询配置实现。
type DefaultRecommendConfig struct{}

func (c *DefaultRecommendConfig) DefaultTopKNeighbors() int { return 10 }

func (c *DefaultRecommendConfig) DefaultTopNCategories() int { return 3 }

func (c *DefaultRecommendConfig) MaxTopKNeighbors() int { return 30 }

func (c *DefaultRecommendConfig) MaxTopNCategories() int { return 5 }
