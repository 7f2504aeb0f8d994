package systems

import (
	"log"
	"math/rand"

	"github.com/decker502/vibedefense/pkg/ecs"
	"github.com/decker502/vibedefense/pkg/entities"
	"github.com/decker502/vibedefense/pkg/event"
	"github.com/decker502/vibedefense/pkg/types"
)

// EnemyStatsFunc 返回某类敌人的未缩放基础属性
type EnemyStatsFunc func(t types.EnemyType) entities.EnemyStats

// pendingSpawn 已从队列释放、等待延迟结束的敌人
type pendingSpawn struct {
	entry     WaveEntry
	releaseAt float64
}

// WaveSystem 波次系统
//
// 拥有活跃敌人集合，负责生成波次计划、按间隔释放出怪队列、推进敌人并清理终止的敌人。
// 状态机：Idle → Active（GenerateWave）→ Idle（队列、延迟列表和活跃集合全部为空）。
// 每次 Active → Idle 恰好发布一次 WaveCompleted。
type WaveSystem struct {
	bus    *event.Bus
	engine *DifficultyEngine
	stats  EnemyStatsFunc
	path   *entities.Path
	rng    *rand.Rand

	enemies *ecs.EntityManager[*entities.Enemy]

	wave         int
	plan         WavePlan
	queue        []WaveEntry
	pending      []pendingSpawn
	active       bool
	cancelled    bool
	clock        float64 // 本波已经过的时间（秒）
	sinceRelease float64
}

// NewWaveSystem 创建波次系统
// rng 用于打乱出怪顺序，为 nil 时不打乱
func NewWaveSystem(bus *event.Bus, engine *DifficultyEngine, stats EnemyStatsFunc, path *entities.Path, rng *rand.Rand) *WaveSystem {
	return &WaveSystem{
		bus:     bus,
		engine:  engine,
		stats:   stats,
		path:    path,
		rng:     rng,
		enemies: ecs.NewEntityManager[*entities.Enemy](),
	}
}

// Wave 返回当前（最近一次生成的）波次号
func (s *WaveSystem) Wave() int {
	return s.wave
}

// Plan 返回当前波次计划
func (s *WaveSystem) Plan() WavePlan {
	return s.plan
}

// IsActive 波次是否进行中
func (s *WaveSystem) IsActive() bool {
	return s.active
}

// IsCancelled 是否已被取消（游戏结束）
func (s *WaveSystem) IsCancelled() bool {
	return s.cancelled
}

// QueueLength 尚未出场的敌人数量（含延迟中的）
func (s *WaveSystem) QueueLength() int {
	return len(s.queue) + len(s.pending)
}

// ActiveCount 活跃集合中的敌人数量
func (s *WaveSystem) ActiveCount() int {
	return s.enemies.Len()
}

// Enemy 实现 entities.EnemyLookup
func (s *WaveSystem) Enemy(id ecs.EntityID) (*entities.Enemy, bool) {
	return s.enemies.GetEntity(id)
}

// EachEnemy 实现 entities.EnemyLookup，按出场顺序遍历
func (s *WaveSystem) EachEnemy(fn func(e *entities.Enemy) bool) {
	s.enemies.Each(func(_ ecs.EntityID, e *entities.Enemy) bool {
		return fn(e)
	})
}

// GenerateWave 开始下一波，波次进行中或已取消时不做任何事并返回 false
func (s *WaveSystem) GenerateWave() bool {
	if s.active || s.cancelled {
		return false
	}

	s.wave++
	s.plan = s.engine.PlanWave(s.wave, s.rng)
	s.queue = append(s.queue[:0], s.plan.Entries...)
	s.pending = s.pending[:0]
	s.clock = 0
	// 第一个敌人在下一次 Update 立即释放
	s.sinceRelease = s.plan.SpawnInterval
	s.active = true

	s.bus.Publish(event.Event{Type: event.WaveStarted, Wave: s.wave, Value: s.plan.EnemyCount()})
	log.Printf("[WaveSystem] Wave %d started: %d enemies (%d bosses), interval %.2fs, health x%.2f",
		s.wave, s.plan.EnemyCount(), s.plan.BossCount, s.plan.SpawnInterval, s.plan.HealthMultiplier)
	return true
}

// Cancel 停止后续释放（游戏结束），不排空在场实体，也不发布 WaveCompleted
func (s *WaveSystem) Cancel() {
	if s.cancelled {
		return
	}
	s.cancelled = true
	s.active = false
	s.queue = nil
	s.pending = nil
	log.Printf("[WaveSystem] Cancelled during wave %d", s.wave)
}

// Update 推进一帧
// 顺序：释放队首 → 延迟到期的敌人出场 → 推进敌人 → 清理终止的敌人 → 判定波次完成
// 防御塔在本帧之后击杀的敌人留到下一帧清理
func (s *WaveSystem) Update(dt float64) {
	if s.cancelled || !s.active {
		return
	}

	s.clock += dt

	if len(s.queue) > 0 {
		s.sinceRelease += dt
		if s.sinceRelease >= s.plan.SpawnInterval {
			head := s.queue[0]
			s.queue = s.queue[1:]
			s.pending = append(s.pending, pendingSpawn{entry: head, releaseAt: s.clock + head.Delay})
			s.sinceRelease = 0
		}
	}

	s.promoteDue()

	s.enemies.Each(func(_ ecs.EntityID, e *entities.Enemy) bool {
		e.Update()
		return true
	})

	s.sweep()

	if len(s.queue) == 0 && len(s.pending) == 0 && s.enemies.Len() == 0 {
		s.active = false
		s.bus.Publish(event.Event{Type: event.WaveCompleted, Wave: s.wave})
		log.Printf("[WaveSystem] Wave %d completed", s.wave)
	}
}

// promoteDue 延迟到期的敌人加入活跃集合，保持释放顺序
func (s *WaveSystem) promoteDue() {
	kept := s.pending[:0]
	for _, p := range s.pending {
		if p.releaseAt > s.clock {
			kept = append(kept, p)
			continue
		}
		s.spawn(p.entry)
	}
	s.pending = kept
}

func (s *WaveSystem) spawn(entry WaveEntry) {
	stats := s.engine.ScaleStats(entry.Type, s.stats(entry.Type), s.plan)
	id := s.enemies.CreateEntity()
	enemy, err := entities.NewEnemy(id, entry.Type, s.path, stats)
	if err != nil {
		log.Printf("[WaveSystem] ERROR: Failed to spawn %s enemy: %v", entry.Type, err)
		return
	}
	s.enemies.AddEntity(id, enemy)
	s.bus.Publish(event.Event{Type: event.EnemySpawned, Wave: s.wave, EnemyID: id, EnemyType: entry.Type, X: enemy.X, Y: enemy.Y})
}

// sweep 移除已终止的敌人，每个敌人只报告一次
func (s *WaveSystem) sweep() {
	s.enemies.Each(func(id ecs.EntityID, e *entities.Enemy) bool {
		switch e.State {
		case entities.EnemyDead:
			s.bus.Publish(event.Event{Type: event.EnemyKilled, Wave: s.wave, EnemyID: id, EnemyType: e.Type, Value: e.Value, X: e.X, Y: e.Y})
			s.enemies.DestroyEntity(id)
		case entities.EnemyReachedEnd:
			s.bus.Publish(event.Event{Type: event.EnemyReachedEnd, Wave: s.wave, EnemyID: id, EnemyType: e.Type, X: e.X, Y: e.Y})
			s.enemies.DestroyEntity(id)
		}
		return true
	})
	s.enemies.RemoveMarkedEntities()
}
