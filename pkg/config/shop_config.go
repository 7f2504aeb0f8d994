package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ShopItemConfig 商店中的全局强化
type ShopItemConfig struct {
	ID                     string  `yaml:"id"`
	Name                   string  `yaml:"name"`
	Description            string  `yaml:"description"`
	Cost                   int     `yaml:"cost"`     // 第1级价格
	MaxLevel               int     `yaml:"maxLevel"` // 最多购买次数
	DamageMultiplier       float64 `yaml:"damageMultiplier"`
	RangeMultiplier        float64 `yaml:"rangeMultiplier"`
	FireIntervalMultiplier float64 `yaml:"fireIntervalMultiplier"`
	CritChance             float64 `yaml:"critChance"`
	ChainChance            float64 `yaml:"chainChance"`
}

// ShopConfig shop.yaml 文件结构
type ShopConfig struct {
	PriceGrowth float64          `yaml:"priceGrowth"` // 每级价格倍率
	Discount    float64          `yaml:"discount"`    // Power-Up Master 折扣比例
	Items       []ShopItemConfig `yaml:"items"`
}

// LoadShop 从 YAML 文件加载商店配置
func LoadShop(filepath string) (*ShopConfig, error) {
	data, err := readConfigFile(filepath)
	if err != nil {
		return nil, err
	}
	cfg, err := ParseShop(data)
	if err != nil {
		return nil, fmt.Errorf("invalid shop config in %s: %w", filepath, err)
	}
	return cfg, nil
}

// ParseShop 解析 shop.yaml 内容
func ParseShop(data []byte) (*ShopConfig, error) {
	var cfg ShopConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse shop config YAML: %w", err)
	}
	if cfg.PriceGrowth == 0 {
		cfg.PriceGrowth = 1.5
	}
	if err := validateShopConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validateShopConfig(cfg *ShopConfig) error {
	if cfg.PriceGrowth < 1 {
		return fmt.Errorf("priceGrowth must be at least 1, got %v", cfg.PriceGrowth)
	}
	if cfg.Discount < 0 || cfg.Discount >= 1 {
		return fmt.Errorf("discount must be in [0,1), got %v", cfg.Discount)
	}
	seen := make(map[string]bool, len(cfg.Items))
	for i, item := range cfg.Items {
		if item.ID == "" {
			return fmt.Errorf("item %d: id is required", i)
		}
		if seen[item.ID] {
			return fmt.Errorf("item %d: duplicate id %q", i, item.ID)
		}
		seen[item.ID] = true
		if item.Cost <= 0 {
			return fmt.Errorf("item %s: cost must be positive, got %d", item.ID, item.Cost)
		}
		if item.MaxLevel < 1 {
			return fmt.Errorf("item %s: maxLevel must be at least 1, got %d", item.ID, item.MaxLevel)
		}
		if item.DamageMultiplier < 0 || item.RangeMultiplier < 0 || item.FireIntervalMultiplier < 0 {
			return fmt.Errorf("item %s: multipliers cannot be negative", item.ID)
		}
		if item.CritChance < 0 || item.CritChance > 1 || item.ChainChance < 0 || item.ChainChance > 1 {
			return fmt.Errorf("item %s: chances must be in [0,1]", item.ID)
		}
	}
	return nil
}

// Item 按ID查找商品
func (c *ShopConfig) Item(id string) (*ShopItemConfig, bool) {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return &c.Items[i], true
		}
	}
	return nil, false
}
