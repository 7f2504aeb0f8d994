package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/decker502/vibedefense/pkg/config"
	"github.com/decker502/vibedefense/pkg/entities"
	"github.com/decker502/vibedefense/pkg/types"
)

// newTestLevels 创建测试用的关卡配置（单一难度 "test"）
func newTestLevels(diff config.DifficultyConfig, enemyTypes ...string) (*config.LevelsConfig, *config.LevelConfig) {
	levels := &config.LevelsConfig{
		Difficulties: map[string]config.DifficultyConfig{"test": diff},
		WaveScaling: config.WaveScalingConfig{
			SpawnIntervalDecrement: 0.05,
			MinSpawnInterval:       0.4,
			HealthGrowth:           0.1,
			ValueGrowth:            0.05,
			BossHealthMultiplier:   1.5,
			BossValueMultiplier:    2.0,
			BossSpeedMultiplier:    0.8,
			BossDelay:              2.0,
			Shuffle:                true,
		},
		EnemyMix: []config.EnemyMixEntry{
			{Type: "speed", UnlockWave: 3, PerWaves: 2},
			{Type: "armored", UnlockWave: 4, PerWaves: 3, Delay: 0.5},
			{Type: "layered", UnlockWave: 5, PerWaves: 4, Delay: 1.0},
		},
		Levels: []config.LevelConfig{{
			ID:         "test-level",
			Name:       "Test Level",
			Difficulty: "test",
			Path:       "simple",
			EnemyTypes: enemyTypes,
			Reward:     1,
		}},
	}
	return levels, &levels.Levels[0]
}

func mediumDifficulty() config.DifficultyConfig {
	return config.DifficultyConfig{
		InitialEnemyCount:  8,
		EnemyCountIncrease: 2,
		SpawnInterval:      1.0,
		EnemyHealth:        100,
		EnemySpeed:         1.0,
		BossFrequency:      5,
	}
}

func newTestEngine(enemyTypes ...string) *DifficultyEngine {
	return NewDifficultyEngine(newTestLevels(mediumDifficulty(), enemyTypes...))
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCalculateEnemyCount(t *testing.T) {
	engine := newTestEngine("basic")

	tests := []struct {
		name     string
		wave     int
		expected int
	}{
		{"第1波", 1, 8},
		{"第2波", 2, 10},
		{"第3波", 3, 12},
		{"第10波", 10, 26},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := engine.CalculateEnemyCount(tt.wave); got != tt.expected {
				t.Errorf("CalculateEnemyCount(%d): expected %d, got %d", tt.wave, tt.expected, got)
			}
			plan := engine.PlanWave(tt.wave, nil)
			if plan.EnemyCount() != tt.expected {
				t.Errorf("PlanWave(%d).EnemyCount(): expected %d, got %d", tt.wave, tt.expected, plan.EnemyCount())
			}
		})
	}
}

func TestCalculateSpawnInterval(t *testing.T) {
	engine := newTestEngine("basic")

	tests := []struct {
		name     string
		wave     int
		expected float64
	}{
		{"第1波使用基础间隔", 1, 1.0},
		{"第5波", 5, 0.8},
		{"第13波到达下限", 13, 0.4},
		{"下限之后不再减少", 30, 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := engine.CalculateSpawnInterval(tt.wave); !almostEqual(got, tt.expected) {
				t.Errorf("CalculateSpawnInterval(%d): expected %.3f, got %.3f", tt.wave, tt.expected, got)
			}
		})
	}
}

func TestMultipliers(t *testing.T) {
	levels, level := newTestLevels(mediumDifficulty(), "basic")
	level.Reward = 1.5
	engine := NewDifficultyEngine(levels, level)

	if got := engine.CalculateHealthMultiplier(1); !almostEqual(got, 1.0) {
		t.Errorf("health multiplier wave 1: expected 1.0, got %v", got)
	}
	if got := engine.CalculateHealthMultiplier(11); !almostEqual(got, 2.0) {
		t.Errorf("health multiplier wave 11: expected 2.0, got %v", got)
	}
	if got := engine.CalculateValueMultiplier(1); !almostEqual(got, 1.5) {
		t.Errorf("value multiplier wave 1: expected 1.5, got %v", got)
	}
	if got := engine.CalculateValueMultiplier(21); !almostEqual(got, 3.0) {
		t.Errorf("value multiplier wave 21: expected 3.0, got %v", got)
	}
}

func TestWaveGenerationIsMonotonic(t *testing.T) {
	diffs := map[string]config.DifficultyConfig{
		"easy":   {InitialEnemyCount: 8, EnemyCountIncrease: 1, SpawnInterval: 1.2, EnemyHealth: 80, EnemySpeed: 0.8, BossFrequency: 7},
		"medium": mediumDifficulty(),
		"expert": {InitialEnemyCount: 15, EnemyCountIncrease: 4, SpawnInterval: 0.6, EnemyHealth: 200, EnemySpeed: 1.5, BossFrequency: 1},
	}

	for name, diff := range diffs {
		t.Run(name, func(t *testing.T) {
			engine := NewDifficultyEngine(newTestLevels(diff, "basic", "speed", "armored", "layered", "boss"))
			prev := engine.PlanWave(1, nil)
			for wave := 2; wave <= 60; wave++ {
				plan := engine.PlanWave(wave, nil)
				if plan.EnemyCount() < prev.EnemyCount() {
					t.Fatalf("wave %d: enemy count decreased from %d to %d", wave, prev.EnemyCount(), plan.EnemyCount())
				}
				if plan.RegularCount <= prev.RegularCount {
					t.Fatalf("wave %d: regular count must strictly increase, %d -> %d", wave, prev.RegularCount, plan.RegularCount)
				}
				if plan.SpawnInterval > prev.SpawnInterval {
					t.Fatalf("wave %d: spawn interval increased from %v to %v", wave, prev.SpawnInterval, plan.SpawnInterval)
				}
				if plan.HealthMultiplier < prev.HealthMultiplier || plan.ValueMultiplier < prev.ValueMultiplier {
					t.Fatalf("wave %d: multipliers decreased", wave)
				}
				prev = plan
			}
		})
	}
}

func TestBossWaves(t *testing.T) {
	tests := []struct {
		name       string
		enemyTypes []string
		wave       int
		expected   int
	}{
		{"非Boss波", []string{"basic", "boss"}, 4, 0},
		{"第5波1个Boss", []string{"basic", "boss"}, 5, 1},
		{"第10波2个Boss", []string{"basic", "boss"}, 10, 2},
		{"数量受每波增量限制", []string{"basic", "boss"}, 20, 2},
		{"关卡不允许Boss", []string{"basic"}, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine(tt.enemyTypes...)
			plan := engine.PlanWave(tt.wave, nil)
			if plan.BossCount != tt.expected {
				t.Errorf("wave %d: expected %d bosses, got %d", tt.wave, tt.expected, plan.BossCount)
			}
			if plan.EnemyCount() != plan.RegularCount+plan.BossCount {
				t.Errorf("wave %d: entries %d != regular %d + bosses %d",
					tt.wave, plan.EnemyCount(), plan.RegularCount, plan.BossCount)
			}
		})
	}
}

func TestEnemyMix(t *testing.T) {
	tests := []struct {
		name       string
		enemyTypes []string
		wave       int
		expected   map[types.EnemyType]int
	}{
		{
			name:       "第2波只有基础敌人",
			enemyTypes: []string{"basic", "speed", "armored", "layered"},
			wave:       2,
			expected:   map[types.EnemyType]int{types.EnemyBasic: 10},
		},
		{
			name:       "第3波解锁快速敌人",
			enemyTypes: []string{"basic", "speed", "armored", "layered"},
			wave:       3,
			expected:   map[types.EnemyType]int{types.EnemyBasic: 11, types.EnemySpeed: 1},
		},
		{
			name:       "第6波三种类型",
			enemyTypes: []string{"basic", "speed", "armored", "layered"},
			wave:       6,
			expected: map[types.EnemyType]int{
				types.EnemyBasic: 12, types.EnemySpeed: 3, types.EnemyArmored: 2, types.EnemyLayered: 1,
			},
		},
		{
			name:       "未允许的类型不出现",
			enemyTypes: []string{"basic", "speed", "armored"},
			wave:       6,
			expected:   map[types.EnemyType]int{types.EnemyBasic: 13, types.EnemySpeed: 3, types.EnemyArmored: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := newTestEngine(tt.enemyTypes...).PlanWave(tt.wave, nil)

			actual := make(map[types.EnemyType]int)
			for _, e := range plan.Entries {
				actual[e.Type]++
			}
			for typ, want := range tt.expected {
				if actual[typ] != want {
					t.Errorf("%s: expected %d, got %d", typ, want, actual[typ])
				}
				if plan.Counts[typ] != want {
					t.Errorf("Counts[%s]: expected %d, got %d", typ, want, plan.Counts[typ])
				}
			}
			for typ, n := range actual {
				if _, ok := tt.expected[typ]; !ok {
					t.Errorf("unexpected %d enemies of type %s", n, typ)
				}
			}
		})
	}
}

func TestMixDelays(t *testing.T) {
	plan := newTestEngine("basic", "armored", "layered", "boss").PlanWave(10, nil)
	for _, e := range plan.Entries {
		var want float64
		switch e.Type {
		case types.EnemyArmored:
			want = 0.5
		case types.EnemyLayered:
			want = 1.0
		case types.EnemyBoss:
			want = 2.0
		}
		if !almostEqual(e.Delay, want) {
			t.Errorf("%s: expected delay %v, got %v", e.Type, want, e.Delay)
		}
	}
}

func TestShuffleKeepsBossesLast(t *testing.T) {
	engine := newTestEngine("basic", "speed", "armored", "layered", "boss")

	first := engine.PlanWave(10, rand.New(rand.NewSource(42)))
	second := engine.PlanWave(10, rand.New(rand.NewSource(42)))

	if first.BossCount == 0 {
		t.Fatal("expected bosses on wave 10")
	}
	for i, e := range first.Entries {
		isTail := i >= first.EnemyCount()-first.BossCount
		if isTail != (e.Type == types.EnemyBoss) {
			t.Errorf("entry %d: type %s, boss tail=%v", i, e.Type, isTail)
		}
	}

	for i := range first.Entries {
		if first.Entries[i] != second.Entries[i] {
			t.Fatalf("same seed produced different order at %d", i)
		}
	}
}

func TestScaleStats(t *testing.T) {
	engine := newTestEngine("basic", "boss")
	plan := engine.PlanWave(1, nil)

	base := entities.EnemyStats{Health: 500, Speed: 0.5, Value: 100, Size: 40}

	t.Run("Boss叠加额外倍率", func(t *testing.T) {
		got := engine.ScaleStats(types.EnemyBoss, base, plan)
		if !almostEqual(got.Health, 750) {
			t.Errorf("health: expected 750, got %v", got.Health)
		}
		if !almostEqual(got.Speed, 0.4) {
			t.Errorf("speed: expected 0.4, got %v", got.Speed)
		}
		if got.Value != 200 {
			t.Errorf("value: expected 200, got %d", got.Value)
		}
		if got.Size != 40 {
			t.Errorf("size should be unchanged, got %v", got.Size)
		}
	})

	t.Run("普通敌人按波次倍率", func(t *testing.T) {
		plan := engine.PlanWave(11, nil)
		got := engine.ScaleStats(types.EnemyBasic, entities.EnemyStats{Health: 50, Speed: 1.5, Value: 10}, plan)
		if !almostEqual(got.Health, 100) {
			t.Errorf("health: expected 100, got %v", got.Health)
		}
		if got.Value != 15 {
			t.Errorf("value: expected 15, got %d", got.Value)
		}
	})
}

func TestCalculateBossCount(t *testing.T) {
	engine := newTestEngine("basic", "boss")

	tests := []struct {
		name     string
		wave     int
		expected int
	}{
		{"非Boss波", 4, 0},
		{"第5波", 5, 1},
		{"第10波", 10, 2},
		{"第20波受增量限制", 20, 2},
		{"第50波受增量限制", 50, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := engine.CalculateBossCount(tt.wave); got != tt.expected {
				t.Errorf("CalculateBossCount(%d): expected %d, got %d", tt.wave, tt.expected, got)
			}
		})
	}

	t.Run("Boss波总数不超过下一波", func(t *testing.T) {
		for wave := 1; wave < 60; wave++ {
			cur := engine.PlanWave(wave, nil).EnemyCount()
			next := engine.PlanWave(wave+1, nil).EnemyCount()
			if next < cur {
				t.Fatalf("wave %d has %d enemies, wave %d only %d", wave, cur, wave+1, next)
			}
		}
	})
}
