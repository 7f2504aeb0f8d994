package game

import (
	"fmt"
	"log"
	"math"

	"github.com/decker502/vibedefense/pkg/config"
	"github.com/decker502/vibedefense/pkg/event"
)

// RewardID 奖励标识
type RewardID string

const (
	RewardDoubleIncome  RewardID = "doubleIncome"
	RewardWaveRush      RewardID = "waveRush"
	RewardVeteranBonus  RewardID = "veteranBonus"
	RewardPowerUpMaster RewardID = "powerUpMaster"
)

// VeteranBonusMoney Veteran Bonus 奖励的额外初始金钱
const VeteranBonusMoney = 500

// Reward 奖励定义，统计量达到 Requirement 时解锁
type Reward struct {
	ID          RewardID
	Name        string
	Description string
	Stat        string
	Requirement float64
}

var rewards = []Reward{
	{RewardDoubleIncome, "Double Income", "Earn twice as much money from kills", "enemiesKilled", 1000},
	{RewardWaveRush, "Wave Rush", "Reduce time between waves by 50%", "wavesCompleted", 20},
	{RewardVeteranBonus, "Veteran Bonus", "Start with 500 extra money", "timePlayed", 3600},
	{RewardPowerUpMaster, "Power-Up Master", "25% discount on all power-ups", "powerUpsUsed", 50},
}

// Rewards 返回所有奖励定义
func Rewards() []Reward {
	out := make([]Reward, len(rewards))
	copy(out, rewards)
	return out
}

// Value 按名称读取统计量
func (s *PlayerStats) Value(stat string) float64 {
	switch stat {
	case "timePlayed":
		return s.TimePlayed
	case "enemiesKilled":
		return float64(s.EnemiesKilled)
	case "wavesCompleted":
		return float64(s.WavesCompleted)
	case "powerUpsUsed":
		return float64(s.PowerUpsUsed)
	case "totalMoney":
		return float64(s.TotalMoney)
	case "highestWave":
		return float64(s.HighestWave)
	}
	return 0
}

// FormattedTime 格式化游戏时长，如 "1h 2m 3s"
func (s *PlayerStats) FormattedTime() string {
	total := int(s.TimePlayed)
	return fmt.Sprintf("%dh %dm %ds", total/3600, total%3600/60, total%60)
}

// Achievements 成就追踪
//
// 订阅击杀、波次完成和强化购买事件更新统计，达到要求时解锁奖励并发布 AchievementUnlocked。
// 统计每 config.AchievementSaveInterval 秒自动保存一次，解锁时立即保存。
type Achievements struct {
	bus       *event.Bus
	store     *StatsStore
	sinceSave float64
}

// NewAchievements 创建成就追踪并订阅事件
func NewAchievements(bus *event.Bus, store *StatsStore) *Achievements {
	a := &Achievements{bus: bus, store: store}
	bus.Subscribe(event.EnemyKilled, a)
	bus.Subscribe(event.WaveCompleted, a)
	bus.Subscribe(event.PowerUpBought, a)
	return a
}

// Stats 返回当前统计
func (a *Achievements) Stats() *PlayerStats {
	return a.store.Stats()
}

// IsUnlocked 奖励是否已解锁
func (a *Achievements) IsUnlocked(id RewardID) bool {
	return a.store.Stats().Unlocked[id]
}

// Progress 返回奖励进度百分比（0-100）
func (a *Achievements) Progress(id RewardID) int {
	for _, r := range rewards {
		if r.ID == id {
			p := a.store.Stats().Value(r.Stat) / r.Requirement * 100
			return int(math.Min(100, math.Floor(p)))
		}
	}
	return 0
}

// OnEvent 实现 event.Listener
func (a *Achievements) OnEvent(e event.Event) {
	stats := a.store.Stats()
	switch e.Type {
	case event.EnemyKilled:
		stats.EnemiesKilled++
		income := e.Value
		if stats.Unlocked[RewardDoubleIncome] {
			income *= 2
		}
		stats.TotalMoney += income
	case event.WaveCompleted:
		stats.WavesCompleted++
		if e.Wave > stats.HighestWave {
			stats.HighestWave = e.Wave
		}
	case event.PowerUpBought:
		stats.PowerUpsUsed++
	default:
		return
	}
	a.checkRewards()
}

// AddPlayTime 累计游戏时长并按间隔自动保存
func (a *Achievements) AddPlayTime(seconds float64) {
	if seconds <= 0 {
		return
	}
	a.store.Stats().TimePlayed += seconds
	a.sinceSave += seconds
	a.checkRewards()

	if a.sinceSave >= config.AchievementSaveInterval {
		a.Save()
	}
}

// Save 立即保存，失败只记录日志
func (a *Achievements) Save() {
	a.sinceSave = 0
	if err := a.store.Save(); err != nil {
		log.Printf("[Achievements] Warning: Failed to save progress: %v", err)
	}
}

func (a *Achievements) checkRewards() {
	stats := a.store.Stats()
	unlocked := false
	for _, r := range rewards {
		if stats.Unlocked[r.ID] || stats.Value(r.Stat) < r.Requirement {
			continue
		}
		stats.Unlocked[r.ID] = true
		unlocked = true
		a.bus.Publish(event.Event{Type: event.AchievementUnlocked, Name: string(r.ID)})
		log.Printf("[Achievements] Unlocked: %s", r.Name)
	}
	if unlocked {
		a.Save()
	}
}
