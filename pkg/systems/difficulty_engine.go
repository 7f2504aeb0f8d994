package systems

import (
	"math"
	"math/rand"

	"github.com/decker502/vibedefense/pkg/config"
	"github.com/decker502/vibedefense/pkg/entities"
	"github.com/decker502/vibedefense/pkg/types"
)

// WaveEntry 出怪队列中的一项
type WaveEntry struct {
	Type  types.EnemyType
	Delay float64 // 释放后延迟出场时间（秒）
}

// WavePlan 某一波的完整生成计划
type WavePlan struct {
	Wave          int
	RegularCount  int // 普通敌人数量
	BossCount     int
	IsBossWave    bool
	Counts        map[types.EnemyType]int
	SpawnInterval float64 // 出怪间隔（秒）

	HealthMultiplier float64
	ValueMultiplier  float64
	SpeedMultiplier  float64

	// Entries 普通敌人在前、Boss 在后
	Entries []WaveEntry
}

// EnemyCount 本波入队的敌人总数
func (p WavePlan) EnemyCount() int {
	return len(p.Entries)
}

// DifficultyEngine 难度引擎
// 负责根据波次号计算敌人数量、类型组成、属性倍率和出怪间隔
// 所有公式都是波次号的确定性单调函数
type DifficultyEngine struct {
	difficulty config.DifficultyConfig
	scaling    config.WaveScalingConfig
	mix        []config.EnemyMixEntry
	allowed    map[types.EnemyType]bool
	reward     float64
}

// NewDifficultyEngine 创建新的难度引擎实例
// 参数:
//
//	levels - 已校验的关卡配置文件（提供缩放参数和类型占比）
//	level - 当前关卡（提供难度预设、允许的敌人类型和奖励倍率）
func NewDifficultyEngine(levels *config.LevelsConfig, level *config.LevelConfig) *DifficultyEngine {
	allowed := make(map[types.EnemyType]bool)
	for _, t := range level.AllowedEnemyTypes() {
		allowed[t] = true
	}
	return &DifficultyEngine{
		difficulty: levels.Difficulty(level),
		scaling:    levels.WaveScaling,
		mix:        levels.EnemyMix,
		allowed:    allowed,
		reward:     level.Reward,
	}
}

// CalculateEnemyCount 计算普通敌人数量
// 公式: Count = InitialEnemyCount + (wave - 1) * EnemyCountIncrease
func (d *DifficultyEngine) CalculateEnemyCount(wave int) int {
	return d.difficulty.InitialEnemyCount + (wave-1)*d.difficulty.EnemyCountIncrease
}

// CalculateSpawnInterval 计算出怪间隔
// 公式: Interval = max(SpawnInterval - (wave - 1) * SpawnIntervalDecrement, MinSpawnInterval)
func (d *DifficultyEngine) CalculateSpawnInterval(wave int) float64 {
	interval := d.difficulty.SpawnInterval - float64(wave-1)*d.scaling.SpawnIntervalDecrement
	return math.Max(interval, d.scaling.MinSpawnInterval)
}

// CalculateHealthMultiplier 计算生命倍率
// 公式: (EnemyHealth / 100) * (1 + (wave - 1) * HealthGrowth)
func (d *DifficultyEngine) CalculateHealthMultiplier(wave int) float64 {
	return d.difficulty.EnemyHealth / 100 * (1 + float64(wave-1)*d.scaling.HealthGrowth)
}

// CalculateValueMultiplier 计算奖励倍率（含关卡奖励倍率）
// 公式: Reward * (1 + (wave - 1) * ValueGrowth)
func (d *DifficultyEngine) CalculateValueMultiplier(wave int) float64 {
	return d.reward * (1 + float64(wave-1)*d.scaling.ValueGrowth)
}

// IsBossWave 每 BossFrequency 波出现一次 Boss（关卡必须允许 Boss）
func (d *DifficultyEngine) IsBossWave(wave int) bool {
	return d.allowed[types.EnemyBoss] && wave > 0 && wave%d.difficulty.BossFrequency == 0
}

// CalculateBossCount 计算 Boss 数量
// 公式: min(floor(wave / (2 * BossFrequency)) + 1, EnemyCountIncrease)
// 上限保证 Boss 波的总数不超过下一波的普通敌人数量，总数随波次单调不减
func (d *DifficultyEngine) CalculateBossCount(wave int) int {
	if !d.IsBossWave(wave) {
		return 0
	}
	n := wave/(2*d.difficulty.BossFrequency) + 1
	if n > d.difficulty.EnemyCountIncrease {
		n = d.difficulty.EnemyCountIncrease
	}
	return n
}

// calculateMix 按解锁规则分配普通敌人的类型，basic 补足剩余
func (d *DifficultyEngine) calculateMix(wave, total int) (map[types.EnemyType]int, []WaveEntry) {
	counts := make(map[types.EnemyType]int)
	var special []WaveEntry
	remaining := total

	for _, entry := range d.mix {
		t, err := types.ParseEnemyType(entry.Type)
		if err != nil || !d.allowed[t] || wave < entry.UnlockWave {
			continue
		}
		n := wave / entry.PerWaves
		if n > remaining {
			n = remaining
		}
		if n <= 0 {
			continue
		}
		counts[t] += n
		remaining -= n
		for i := 0; i < n; i++ {
			special = append(special, WaveEntry{Type: t, Delay: entry.Delay})
		}
	}

	counts[types.EnemyBasic] = remaining
	entries := make([]WaveEntry, 0, total)
	for i := 0; i < remaining; i++ {
		entries = append(entries, WaveEntry{Type: types.EnemyBasic})
	}
	return counts, append(entries, special...)
}

// PlanWave 生成某一波的计划
// rng 不为 nil 且配置开启 shuffle 时打乱普通敌人的顺序，Boss 总在队尾
func (d *DifficultyEngine) PlanWave(wave int, rng *rand.Rand) WavePlan {
	regular := d.CalculateEnemyCount(wave)
	counts, entries := d.calculateMix(wave, regular)

	if d.scaling.Shuffle && rng != nil {
		rng.Shuffle(len(entries), func(i, j int) {
			entries[i], entries[j] = entries[j], entries[i]
		})
	}

	bosses := d.CalculateBossCount(wave)
	for i := 0; i < bosses; i++ {
		entries = append(entries, WaveEntry{Type: types.EnemyBoss, Delay: d.scaling.BossDelay})
	}
	if bosses > 0 {
		counts[types.EnemyBoss] = bosses
	}

	return WavePlan{
		Wave:             wave,
		RegularCount:     regular,
		BossCount:        bosses,
		IsBossWave:       d.IsBossWave(wave),
		Counts:           counts,
		SpawnInterval:    d.CalculateSpawnInterval(wave),
		HealthMultiplier: d.CalculateHealthMultiplier(wave),
		ValueMultiplier:  d.CalculateValueMultiplier(wave),
		SpeedMultiplier:  d.difficulty.EnemySpeed,
		Entries:          entries,
	}
}

// ScaleStats 按波次计划缩放基础属性，Boss 额外叠加 Boss 倍率
func (d *DifficultyEngine) ScaleStats(t types.EnemyType, base entities.EnemyStats, plan WavePlan) entities.EnemyStats {
	health := plan.HealthMultiplier
	value := plan.ValueMultiplier
	speed := plan.SpeedMultiplier
	if t == types.EnemyBoss {
		health *= d.scaling.BossHealthMultiplier
		value *= d.scaling.BossValueMultiplier
		speed *= d.scaling.BossSpeedMultiplier
	}

	scaled := base
	scaled.Health = base.Health * health
	scaled.Speed = base.Speed * speed
	scaled.Value = int(math.Round(float64(base.Value) * value))
	return scaled
}
