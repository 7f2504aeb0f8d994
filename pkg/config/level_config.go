package config

import (
	"fmt"
	"sort"

	"github.com/decker502/vibedefense/pkg/types"
	"gopkg.in/yaml.v3"
)

// DifficultyConfig 难度预设
// 定义了波次生成公式的输入参数
type DifficultyConfig struct {
	InitialEnemyCount  int     `yaml:"initialEnemyCount"`  // 第1波普通敌人数量
	EnemyCountIncrease int     `yaml:"enemyCountIncrease"` // 每波增加的数量（至少为1，保证数量严格递增）
	SpawnInterval      float64 `yaml:"spawnInterval"`      // 第1波出怪间隔（秒）
	EnemyHealth        float64 `yaml:"enemyHealth"`        // 敌人生命基准，100 表示不缩放
	EnemySpeed         float64 `yaml:"enemySpeed"`         // 敌人速度倍率
	BossFrequency      int     `yaml:"bossFrequency"`      // 每 K 波出现一次 Boss
}

// WaveScalingConfig 随波次增长的缩放参数
type WaveScalingConfig struct {
	SpawnIntervalDecrement float64 `yaml:"spawnIntervalDecrement"` // 每波出怪间隔减少量（秒）
	MinSpawnInterval       float64 `yaml:"minSpawnInterval"`       // 出怪间隔下限（秒），必须大于0
	HealthGrowth           float64 `yaml:"healthGrowth"`           // 每波生命倍率增量
	ValueGrowth            float64 `yaml:"valueGrowth"`            // 每波奖励倍率增量
	BossHealthMultiplier   float64 `yaml:"bossHealthMultiplier"`   // Boss 额外生命倍率
	BossValueMultiplier    float64 `yaml:"bossValueMultiplier"`    // Boss 额外奖励倍率
	BossSpeedMultiplier    float64 `yaml:"bossSpeedMultiplier"`    // Boss 额外速度倍率（小于1）
	BossDelay              float64 `yaml:"bossDelay"`              // Boss 释放后的延迟出场时间（秒）
	Shuffle                bool    `yaml:"shuffle"`                // 是否打乱出怪队列
}

// EnemyMixEntry 敌人类型的解锁与占比规则
// 第 N 波（N >= UnlockWave）的数量为 floor(N / PerWaves)
type EnemyMixEntry struct {
	Type       string  `yaml:"type"`       // 敌人类型：speed, armored, layered
	UnlockWave int     `yaml:"unlockWave"` // 最早出现的波次
	PerWaves   int     `yaml:"perWaves"`   // 每多少波增加一个
	Delay      float64 `yaml:"delay"`      // 释放后的延迟出场时间（秒）
}

// LevelConfig 单个关卡配置
type LevelConfig struct {
	ID            string   `yaml:"id"`            // 关卡ID，如 "beginners-path"
	Name          string   `yaml:"name"`          // 关卡名称
	Description   string   `yaml:"description"`   // 关卡描述（可选）
	Difficulty    string   `yaml:"difficulty"`    // 难度预设名：easy, medium, hard, expert
	Path          string   `yaml:"path"`          // 路径形状：simple, zigzag, spiral, maze
	EnemyTypes    []string `yaml:"enemyTypes"`    // 允许出现的敌人类型
	Reward        float64  `yaml:"reward"`        // 奖励倍率，默认1.0
	StartingMoney int      `yaml:"startingMoney"` // 初始金钱，默认 DefaultStartingMoney
	Lives         int      `yaml:"lives"`         // 初始生命，默认 DefaultStartingLives
	MaxWaves      int      `yaml:"maxWaves"`      // 通关所需波数，0 表示无尽模式
}

// LevelsConfig levels.yaml 文件结构
type LevelsConfig struct {
	Difficulties map[string]DifficultyConfig `yaml:"difficulties"`
	WaveScaling  WaveScalingConfig           `yaml:"waveScaling"`
	EnemyMix     []EnemyMixEntry             `yaml:"enemyMix"`
	Levels       []LevelConfig               `yaml:"levels"`
}

// LoadLevels 从 YAML 文件加载关卡配置
// 参数：
//
//	filepath - 配置文件路径，"data/" 开头时优先从嵌入资源读取
//
// 返回：
//
//	*LevelsConfig - 解析并校验后的配置
//	error - 读取、解析或校验失败时返回错误
func LoadLevels(filepath string) (*LevelsConfig, error) {
	data, err := readConfigFile(filepath)
	if err != nil {
		return nil, err
	}
	cfg, err := ParseLevels(data)
	if err != nil {
		return nil, fmt.Errorf("invalid level config in %s: %w", filepath, err)
	}
	return cfg, nil
}

// ParseLevels 解析 levels.yaml 内容
func ParseLevels(data []byte) (*LevelsConfig, error) {
	var cfg LevelsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse level config YAML: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateLevelsConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults 为缺失的可选字段设置默认值
func applyDefaults(cfg *LevelsConfig) {
	ws := &cfg.WaveScaling
	if ws.MinSpawnInterval == 0 {
		ws.MinSpawnInterval = 0.4
	}
	if ws.BossHealthMultiplier == 0 {
		ws.BossHealthMultiplier = 1
	}
	if ws.BossValueMultiplier == 0 {
		ws.BossValueMultiplier = 1
	}
	if ws.BossSpeedMultiplier == 0 {
		ws.BossSpeedMultiplier = 1
	}

	for i := range cfg.Levels {
		lvl := &cfg.Levels[i]
		if lvl.Reward == 0 {
			lvl.Reward = 1
		}
		if lvl.StartingMoney == 0 {
			lvl.StartingMoney = DefaultStartingMoney
		}
		if lvl.Lives == 0 {
			lvl.Lives = DefaultStartingLives
		}
		if lvl.Path == "" {
			lvl.Path = "simple"
		}
		if len(lvl.EnemyTypes) == 0 {
			lvl.EnemyTypes = []string{types.EnemyBasic.String()}
		}
	}
}

// validateLevelsConfig 验证关卡配置的完整性和合法性
func validateLevelsConfig(cfg *LevelsConfig) error {
	if len(cfg.Difficulties) == 0 {
		return fmt.Errorf("at least one difficulty preset is required")
	}

	names := make([]string, 0, len(cfg.Difficulties))
	for name := range cfg.Difficulties {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := cfg.Difficulties[name].Validate(); err != nil {
			return fmt.Errorf("difficulty %s: %w", name, err)
		}
	}

	if err := cfg.WaveScaling.Validate(); err != nil {
		return fmt.Errorf("waveScaling: %w", err)
	}

	for i, entry := range cfg.EnemyMix {
		t, err := types.ParseEnemyType(entry.Type)
		if err != nil {
			return fmt.Errorf("enemyMix[%d]: %w", i, err)
		}
		if t == types.EnemyBasic || t == types.EnemyBoss {
			return fmt.Errorf("enemyMix[%d]: %s is not a mix type (basic fills the remainder, boss follows bossFrequency)", i, t)
		}
		if entry.UnlockWave < 1 {
			return fmt.Errorf("enemyMix[%d]: unlockWave must be at least 1, got %d", i, entry.UnlockWave)
		}
		if entry.PerWaves < 1 {
			return fmt.Errorf("enemyMix[%d]: perWaves must be at least 1, got %d", i, entry.PerWaves)
		}
		if entry.Delay < 0 {
			return fmt.Errorf("enemyMix[%d]: delay cannot be negative", i)
		}
	}

	if len(cfg.Levels) == 0 {
		return fmt.Errorf("at least one level is required")
	}
	seen := make(map[string]bool, len(cfg.Levels))
	for i, lvl := range cfg.Levels {
		if lvl.ID == "" {
			return fmt.Errorf("level %d: id is required", i)
		}
		if seen[lvl.ID] {
			return fmt.Errorf("level %d: duplicate id %q", i, lvl.ID)
		}
		seen[lvl.ID] = true
		if lvl.Name == "" {
			return fmt.Errorf("level %s: name is required", lvl.ID)
		}
		if _, ok := cfg.Difficulties[lvl.Difficulty]; !ok {
			return fmt.Errorf("level %s: unknown difficulty %q", lvl.ID, lvl.Difficulty)
		}
		if err := validatePathShape(lvl.Path); err != nil {
			return fmt.Errorf("level %s: %w", lvl.ID, err)
		}
		hasBasic := false
		for _, name := range lvl.EnemyTypes {
			t, err := types.ParseEnemyType(name)
			if err != nil {
				return fmt.Errorf("level %s: %w", lvl.ID, err)
			}
			if t == types.EnemyBasic {
				hasBasic = true
			}
		}
		if !hasBasic {
			return fmt.Errorf("level %s: enemyTypes must include basic", lvl.ID)
		}
		if lvl.Reward <= 0 {
			return fmt.Errorf("level %s: reward must be positive, got %v", lvl.ID, lvl.Reward)
		}
		if lvl.StartingMoney < 0 || lvl.Lives < 0 || lvl.MaxWaves < 0 {
			return fmt.Errorf("level %s: startingMoney, lives and maxWaves cannot be negative", lvl.ID)
		}
	}
	return nil
}

func validatePathShape(shape string) error {
	switch shape {
	case "simple", "zigzag", "spiral", "maze":
		return nil
	default:
		return fmt.Errorf("path must be one of: simple, zigzag, spiral, maze, got %q", shape)
	}
}

// Validate 检查难度预设
func (d DifficultyConfig) Validate() error {
	if d.InitialEnemyCount < 1 {
		return fmt.Errorf("initialEnemyCount must be at least 1, got %d", d.InitialEnemyCount)
	}
	if d.EnemyCountIncrease < 1 {
		return fmt.Errorf("enemyCountIncrease must be at least 1, got %d", d.EnemyCountIncrease)
	}
	if d.SpawnInterval <= 0 {
		return fmt.Errorf("spawnInterval must be positive, got %v", d.SpawnInterval)
	}
	if d.EnemyHealth <= 0 {
		return fmt.Errorf("enemyHealth must be positive, got %v", d.EnemyHealth)
	}
	if d.EnemySpeed <= 0 {
		return fmt.Errorf("enemySpeed must be positive, got %v", d.EnemySpeed)
	}
	if d.BossFrequency < 1 {
		return fmt.Errorf("bossFrequency must be at least 1, got %d", d.BossFrequency)
	}
	return nil
}

// Validate 检查波次缩放参数
func (w WaveScalingConfig) Validate() error {
	if w.SpawnIntervalDecrement <= 0 {
		return fmt.Errorf("spawnIntervalDecrement must be positive, got %v", w.SpawnIntervalDecrement)
	}
	if w.MinSpawnInterval <= 0 {
		return fmt.Errorf("minSpawnInterval must be positive, got %v", w.MinSpawnInterval)
	}
	if w.HealthGrowth < 0 || w.ValueGrowth < 0 {
		return fmt.Errorf("healthGrowth and valueGrowth cannot be negative")
	}
	if w.BossHealthMultiplier < 1 || w.BossValueMultiplier < 1 {
		return fmt.Errorf("boss health and value multipliers must be at least 1")
	}
	if w.BossSpeedMultiplier <= 0 || w.BossSpeedMultiplier > 1 {
		return fmt.Errorf("bossSpeedMultiplier must be in (0,1], got %v", w.BossSpeedMultiplier)
	}
	if w.BossDelay < 0 {
		return fmt.Errorf("bossDelay cannot be negative")
	}
	return nil
}

// Level 按ID查找关卡
func (c *LevelsConfig) Level(id string) (*LevelConfig, bool) {
	for i := range c.Levels {
		if c.Levels[i].ID == id {
			return &c.Levels[i], true
		}
	}
	return nil, false
}

// Difficulty 返回关卡使用的难度预设
func (c *LevelsConfig) Difficulty(level *LevelConfig) DifficultyConfig {
	return c.Difficulties[level.Difficulty]
}

// AllowedEnemyTypes 返回关卡允许的敌人类型（已校验，不会出错）
func (l *LevelConfig) AllowedEnemyTypes() []types.EnemyType {
	out := make([]types.EnemyType, 0, len(l.EnemyTypes))
	for _, name := range l.EnemyTypes {
		if t, err := types.ParseEnemyType(name); err == nil {
			out = append(out, t)
		}
	}
	return out
}
