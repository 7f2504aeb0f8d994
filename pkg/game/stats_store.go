package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// PlayerStats 跨局累计的玩家统计
type PlayerStats struct {
	TimePlayed     float64 `yaml:"timePlayed"` // 秒
	EnemiesKilled  int     `yaml:"enemiesKilled"`
	WavesCompleted int     `yaml:"wavesCompleted"`
	PowerUpsUsed   int     `yaml:"powerUpsUsed"`
	TotalMoney     int     `yaml:"totalMoney"`
	HighestWave    int     `yaml:"highestWave"`

	// Unlocked 已解锁的奖励
	Unlocked map[RewardID]bool `yaml:"unlocked"`
}

// NewPlayerStats 返回空统计
func NewPlayerStats() *PlayerStats {
	return &PlayerStats{Unlocked: make(map[RewardID]bool)}
}

// StatsStore 统计数据存储
// 负责统计数据的加载、保存和内存管理
type StatsStore struct {
	gdataManager *gdata.Manager // 可为 nil（降级模式，仅内存）
	stats        *PlayerStats
}

// 存储路径常量
const (
	statsObject   = "progress"
	statsProperty = "stats"
)

// NewStatsStore 创建统计存储并尝试加载已保存的数据
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存统计）
//
// 加载失败不是致命错误，使用空统计
func NewStatsStore(gdataManager *gdata.Manager) *StatsStore {
	ss := &StatsStore{
		gdataManager: gdataManager,
		stats:        NewPlayerStats(),
	}
	if err := ss.Load(); err != nil {
		log.Printf("[StatsStore] Warning: Failed to load stats: %v (starting fresh)", err)
	}
	return ss
}

// OpenStatsStore 打开 appName 的 gdata 存档并加载统计
// gdata 不可用时返回仅内存的存储
func OpenStatsStore(appName string) *StatsStore {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[StatsStore] Save data unavailable, progress will not persist: %v", err)
		return NewStatsStore(nil)
	}
	return NewStatsStore(m)
}

// Load 从 gdata 加载统计
//
// 返回：
//   - error: 数据存在但读取或反序列化失败
func (ss *StatsStore) Load() error {
	if ss.gdataManager == nil {
		return nil
	}
	if !ss.gdataManager.ObjectPropExists(statsObject, statsProperty) {
		return nil
	}

	data, err := ss.gdataManager.LoadObjectProp(statsObject, statsProperty)
	if err != nil {
		ss.stats = NewPlayerStats()
		return fmt.Errorf("failed to load stats: %w", err)
	}

	loaded := NewPlayerStats()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		ss.stats = NewPlayerStats()
		return fmt.Errorf("failed to unmarshal stats: %w", err)
	}
	if loaded.Unlocked == nil {
		loaded.Unlocked = make(map[RewardID]bool)
	}

	ss.stats = loaded
	log.Printf("[StatsStore] Stats loaded: %d kills, %d waves", loaded.EnemiesKilled, loaded.WavesCompleted)
	return nil
}

// Save 保存统计到 gdata，降级模式下直接返回 nil
func (ss *StatsStore) Save() error {
	if ss.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(ss.stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}
	if err := ss.gdataManager.SaveObjectProp(statsObject, statsProperty, data); err != nil {
		return fmt.Errorf("failed to save stats: %w", err)
	}
	return nil
}

// Stats 返回当前统计（可修改，需调用 Save 持久化）
func (ss *StatsStore) Stats() *PlayerStats {
	return ss.stats
}

// IsPersistent 是否可以持久化
func (ss *StatsStore) IsPersistent() bool {
	return ss.gdataManager != nil
}
