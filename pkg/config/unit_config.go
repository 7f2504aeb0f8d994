package config

import (
	"fmt"

	"github.com/decker502/vibedefense/pkg/entities"
	"github.com/decker502/vibedefense/pkg/types"
	"gopkg.in/yaml.v3"
)

// EnemyStatsConfig 单个敌人类型的基础属性
type EnemyStatsConfig struct {
	Health        float64 `yaml:"health"`        // 基础生命值
	Speed         float64 `yaml:"speed"`         // 每帧移动距离
	Value         int     `yaml:"value"`         // 基础击杀奖励
	Size          float64 `yaml:"size"`          // 渲染尺寸
	Armor         float64 `yaml:"armor"`         // 减伤比例，仅 armored
	Layers        int     `yaml:"layers"`        // 层数，仅 layered
	TrailLength   int     `yaml:"trailLength"`   // 拖尾长度，仅 speed
	TrailFade     float64 `yaml:"trailFade"`     // 拖尾衰减，仅 speed
	RotationSpeed float64 `yaml:"rotationSpeed"` // 每帧旋转弧度，仅 boss
}

// TowerStatsConfig 单个防御塔类型的 1 级属性
type TowerStatsConfig struct {
	Name                  string  `yaml:"name"`
	Damage                float64 `yaml:"damage"`
	Range                 float64 `yaml:"range"`
	FireInterval          float64 `yaml:"fireInterval"` // 秒
	Cost                  int     `yaml:"cost"`
	MaxLevel              int     `yaml:"maxLevel"`
	SpecialShotInterval   int     `yaml:"specialShotInterval"`
	ChainCount            int     `yaml:"chainCount"`
	ChainRange            float64 `yaml:"chainRange"`
	ChainDamageMultiplier float64 `yaml:"chainDamageMultiplier"`
	Target                string  `yaml:"target"` // first | nearest | furthest | strongest，默认 first
}

// ProjectileConfig 投射物参数
type ProjectileConfig struct {
	Speed            float64 `yaml:"speed"`
	ChainSpeed       float64 `yaml:"chainSpeed"`
	PiercingSpeed    float64 `yaml:"piercingSpeed"`
	PiercingLifetime int     `yaml:"piercingLifetime"` // 帧
	PiercingRadius   float64 `yaml:"piercingRadius"`
	BurstCount       int     `yaml:"burstCount"`
	BurstSpeed       float64 `yaml:"burstSpeed"`
	BurstLifetime    int     `yaml:"burstLifetime"` // 帧
	BurstRadius      float64 `yaml:"burstRadius"`
}

// UnitConfig units.yaml 文件结构
type UnitConfig struct {
	Enemies     map[string]EnemyStatsConfig `yaml:"enemies"`
	Towers      map[string]TowerStatsConfig `yaml:"towers"`
	Projectiles ProjectileConfig            `yaml:"projectiles"`
}

// LoadUnits 从 YAML 文件加载单位属性
func LoadUnits(filepath string) (*UnitConfig, error) {
	data, err := readConfigFile(filepath)
	if err != nil {
		return nil, err
	}
	cfg, err := ParseUnits(data)
	if err != nil {
		return nil, fmt.Errorf("invalid unit config in %s: %w", filepath, err)
	}
	return cfg, nil
}

// ParseUnits 解析 units.yaml 内容
func ParseUnits(data []byte) (*UnitConfig, error) {
	var cfg UnitConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse unit config YAML: %w", err)
	}
	applyProjectileDefaults(&cfg.Projectiles)
	if err := validateUnitConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyProjectileDefaults(p *ProjectileConfig) {
	def := entities.DefaultProjectileParams()
	if p.Speed == 0 {
		p.Speed = def.Speed
	}
	if p.ChainSpeed == 0 {
		p.ChainSpeed = def.ChainSpeed
	}
	if p.PiercingSpeed == 0 {
		p.PiercingSpeed = def.PiercingSpeed
	}
	if p.PiercingLifetime == 0 {
		p.PiercingLifetime = def.PiercingLifetime
	}
	if p.PiercingRadius == 0 {
		p.PiercingRadius = def.PiercingRadius
	}
	if p.BurstCount == 0 {
		p.BurstCount = def.BurstCount
	}
	if p.BurstSpeed == 0 {
		p.BurstSpeed = def.BurstSpeed
	}
	if p.BurstLifetime == 0 {
		p.BurstLifetime = def.BurstLifetime
	}
	if p.BurstRadius == 0 {
		p.BurstRadius = def.BurstRadius
	}
}

// validateUnitConfig 每种敌人和防御塔都必须配置且属性合法
func validateUnitConfig(cfg *UnitConfig) error {
	for _, t := range types.AllEnemyTypes() {
		stats, ok := cfg.Enemies[t.String()]
		if !ok {
			return fmt.Errorf("enemy %s: stats are required", t)
		}
		if stats.Health <= 0 || stats.Speed <= 0 {
			return fmt.Errorf("enemy %s: health and speed must be positive", t)
		}
		if stats.Value < 0 {
			return fmt.Errorf("enemy %s: value cannot be negative, got %d", t, stats.Value)
		}
		switch t {
		case types.EnemyArmored:
			if stats.Armor <= 0 || stats.Armor >= 1 {
				return fmt.Errorf("enemy %s: armor must be in (0,1), got %v", t, stats.Armor)
			}
		case types.EnemyLayered:
			if stats.Layers < 1 {
				return fmt.Errorf("enemy %s: layers must be at least 1, got %d", t, stats.Layers)
			}
		}
	}
	for name := range cfg.Enemies {
		if _, err := types.ParseEnemyType(name); err != nil {
			return fmt.Errorf("enemies: %w", err)
		}
	}

	for _, t := range types.AllTowerTypes() {
		tc, ok := cfg.Towers[t.String()]
		if !ok {
			return fmt.Errorf("tower %s: stats are required", t)
		}
		if err := tc.TowerStats().Validate(); err != nil {
			return fmt.Errorf("tower %s: %w", t, err)
		}
		if tc.Cost <= 0 {
			return fmt.Errorf("tower %s: cost must be positive, got %d", t, tc.Cost)
		}
		if tc.Target != "" {
			if _, err := entities.ParseTargetPolicy(tc.Target); err != nil {
				return fmt.Errorf("tower %s: %w", t, err)
			}
		}
		if t == types.TowerChain && (tc.ChainCount < 0 || tc.ChainRange <= 0 || tc.ChainDamageMultiplier <= 0) {
			return fmt.Errorf("tower %s: chainCount, chainRange and chainDamageMultiplier are required", t)
		}
	}
	for name := range cfg.Towers {
		if _, err := types.ParseTowerType(name); err != nil {
			return fmt.Errorf("towers: %w", err)
		}
	}

	p := cfg.Projectiles
	if p.Speed <= 0 || p.ChainSpeed <= 0 || p.PiercingSpeed <= 0 || p.BurstSpeed <= 0 {
		return fmt.Errorf("projectile speeds must be positive")
	}
	if p.PiercingLifetime < 1 || p.BurstLifetime < 1 || p.BurstCount < 1 {
		return fmt.Errorf("projectile lifetimes and burst count must be at least 1")
	}
	return nil
}

// EnemyStats 返回实体层使用的敌人属性（未缩放）
func (c *UnitConfig) EnemyStats(t types.EnemyType) entities.EnemyStats {
	s := c.Enemies[t.String()]
	return entities.EnemyStats{
		Health:        s.Health,
		Speed:         s.Speed,
		Value:         s.Value,
		Size:          s.Size,
		Armor:         s.Armor,
		Layers:        s.Layers,
		TrailLength:   s.TrailLength,
		TrailFade:     s.TrailFade,
		RotationSpeed: s.RotationSpeed,
	}
}

// TowerStats 返回实体层使用的防御塔属性
func (c *UnitConfig) TowerStats(t types.TowerType) entities.TowerStats {
	return c.Towers[t.String()].TowerStats()
}

// TargetPolicy 返回防御塔的目标策略，未配置时为 first
func (c *UnitConfig) TargetPolicy(t types.TowerType) entities.TargetPolicy {
	p, err := entities.ParseTargetPolicy(c.Towers[t.String()].Target)
	if err != nil {
		return entities.TargetFirst
	}
	return p
}

// TowerStats 转换为实体层结构
func (tc TowerStatsConfig) TowerStats() entities.TowerStats {
	return entities.TowerStats{
		Damage:                tc.Damage,
		Range:                 tc.Range,
		FireInterval:          tc.FireInterval,
		Cost:                  tc.Cost,
		MaxLevel:              tc.MaxLevel,
		SpecialShotInterval:   tc.SpecialShotInterval,
		ChainCount:            tc.ChainCount,
		ChainRange:            tc.ChainRange,
		ChainDamageMultiplier: tc.ChainDamageMultiplier,
	}
}

// ProjectileParams 转换为实体层结构
func (c *UnitConfig) ProjectileParams() entities.ProjectileParams {
	p := c.Projectiles
	return entities.ProjectileParams{
		Speed:            p.Speed,
		ChainSpeed:       p.ChainSpeed,
		PiercingSpeed:    p.PiercingSpeed,
		PiercingLifetime: p.PiercingLifetime,
		PiercingRadius:   p.PiercingRadius,
		BurstCount:       p.BurstCount,
		BurstSpeed:       p.BurstSpeed,
		BurstLifetime:    p.BurstLifetime,
		BurstRadius:      p.BurstRadius,
	}
}
