package game

import (
	"fmt"
	"log"
	"math"
	"math/rand"

	"github.com/decker502/vibedefense/pkg/config"
	"github.com/decker502/vibedefense/pkg/ecs"
	"github.com/decker502/vibedefense/pkg/entities"
	"github.com/decker502/vibedefense/pkg/event"
	"github.com/decker502/vibedefense/pkg/systems"
	"github.com/decker502/vibedefense/pkg/types"
	"github.com/decker502/vibedefense/pkg/utils"
)

// Options 创建模拟所需的配置
type Options struct {
	Levels  *config.LevelsConfig
	Units   *config.UnitConfig
	Shop    *config.ShopConfig
	LevelID string

	// Stats 跨局统计存储，为 nil 时使用仅内存的存储
	Stats *StatsStore

	// Seed 随机种子（出怪顺序、暴击、连锁）
	Seed int64

	// AutoWaveDelay 波次结束后自动开始下一波的等待时间（秒），0 表示手动
	AutoWaveDelay float64
}

// Simulation 一局游戏
//
// 固定步长推进：Update 累积真实时间，每满 config.TickDuration 执行一帧。
// 每帧顺序：波次系统 → 防御塔（含投射物）→ 排空事件队列。
// 生命归零后不再推进。
type Simulation struct {
	level *config.LevelConfig
	units *config.UnitConfig

	bus          *event.Bus
	path         *entities.Path
	waves        *systems.WaveSystem
	towers       *ecs.EntityManager[*entities.Tower]
	economy      *Economy
	shop         *Shop
	achievements *Achievements
	rng          *rand.Rand

	tick          uint64
	accumulator   float64
	autoWaveDelay float64
	nextWaveIn    float64
	victory       bool
}

// NewSimulation 创建一局游戏
//
// 返回：
//   - *Simulation: 初始状态（第0波，未开始）
//   - error: 关卡不存在或路径无法构建
func NewSimulation(opts Options) (*Simulation, error) {
	level, ok := opts.Levels.Level(opts.LevelID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLevel, opts.LevelID)
	}

	path, err := entities.BuildPath(entities.PathShape(level.Path), config.GameWindowWidth, config.GameWindowHeight)
	if err != nil {
		return nil, fmt.Errorf("failed to build path for level %s: %w", level.ID, err)
	}

	store := opts.Stats
	if store == nil {
		store = NewStatsStore(nil)
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	bus := event.NewBus()
	engine := systems.NewDifficultyEngine(opts.Levels, level)

	s := &Simulation{
		level:         level,
		units:         opts.Units,
		bus:           bus,
		path:          path,
		waves:         systems.NewWaveSystem(bus, engine, opts.Units.EnemyStats, path, rng),
		towers:        ecs.NewEntityManager[*entities.Tower](),
		shop:          NewShop(opts.Shop),
		achievements:  NewAchievements(bus, store),
		rng:           rng,
		autoWaveDelay: opts.AutoWaveDelay,
	}

	money := level.StartingMoney
	if s.achievements.IsUnlocked(RewardVeteranBonus) {
		money += VeteranBonusMoney
	}
	s.economy = NewEconomy(bus, money, level.Lives)
	for _, r := range Rewards() {
		if s.achievements.IsUnlocked(r.ID) {
			s.applyReward(r.ID)
		}
	}

	bus.Subscribe(event.WaveCompleted, event.ListenerFunc(s.onWaveCompleted))
	bus.Subscribe(event.AchievementUnlocked, event.ListenerFunc(func(e event.Event) {
		s.applyReward(RewardID(e.Name))
	}))

	log.Printf("[Simulation] Level %s (%s): path %s, %d waves, money %d, lives %d",
		level.ID, level.Difficulty, level.Path, level.MaxWaves, money, level.Lives)
	return s, nil
}

// applyReward 把已解锁奖励作用到本局
// Veteran Bonus 只影响初始金钱，Wave Rush 在计算自动波次间隔时读取
func (s *Simulation) applyReward(id RewardID) {
	switch id {
	case RewardDoubleIncome:
		s.economy.SetDoubleIncome(true)
	case RewardPowerUpMaster:
		s.shop.SetDiscount(true)
	}
}

// effectiveWaveDelay 自动波次间隔，Wave Rush 减半
func (s *Simulation) effectiveWaveDelay() float64 {
	if s.achievements.IsUnlocked(RewardWaveRush) {
		return s.autoWaveDelay * 0.5
	}
	return s.autoWaveDelay
}

func (s *Simulation) onWaveCompleted(e event.Event) {
	if s.level.MaxWaves > 0 && e.Wave >= s.level.MaxWaves {
		s.victory = true
		s.nextWaveIn = 0
		s.bus.Publish(event.Event{Type: event.LevelComplete, Wave: e.Wave, Value: s.economy.Score()})
		log.Printf("[Simulation] Level %s complete after wave %d", s.level.ID, e.Wave)
		return
	}
	if s.autoWaveDelay > 0 {
		s.nextWaveIn = s.effectiveWaveDelay()
	}
}

// Update 推进真实时间 dt（秒）
// dt 超过 config.MaxDeltaTime 时被截断
func (s *Simulation) Update(dt float64) {
	if s.economy.IsGameOver() || dt <= 0 {
		return
	}
	dt = math.Min(dt, config.MaxDeltaTime)
	s.achievements.AddPlayTime(dt)

	s.accumulator += dt
	for s.accumulator >= config.TickDuration {
		s.accumulator -= config.TickDuration
		s.Step()
		if s.economy.IsGameOver() {
			s.accumulator = 0
			return
		}
	}
}

// Step 执行一帧
func (s *Simulation) Step() {
	if s.economy.IsGameOver() {
		return
	}

	s.tick++
	s.bus.SetTick(s.tick)

	s.waves.Update(config.TickDuration)

	s.towers.Each(func(_ ecs.EntityID, t *entities.Tower) bool {
		t.Update(config.TickDuration, s.waves)
		return true
	})

	if s.nextWaveIn > 0 && !s.waves.IsActive() {
		s.nextWaveIn -= config.TickDuration
		if s.nextWaveIn <= 0 {
			s.nextWaveIn = 0
			if err := s.StartWave(); err != nil {
				log.Printf("[Simulation] Auto wave skipped: %v", err)
			}
		}
	}

	s.bus.Drain()

	if s.economy.IsGameOver() {
		s.waves.Cancel()
		s.towers.Each(func(_ ecs.EntityID, t *entities.Tower) bool {
			t.ClearProjectiles()
			return true
		})
		s.nextWaveIn = 0
		// 投递 GameOver
		s.bus.Drain()
		s.achievements.Save()
		return
	}

	if s.victory && s.bus.Pending() > 0 {
		// 投递 LevelComplete
		s.bus.Drain()
	}
}

// StartWave 手动开始下一波
func (s *Simulation) StartWave() error {
	switch {
	case s.economy.IsGameOver():
		return ErrGameOver
	case s.victory:
		return ErrLevelComplete
	case !s.waves.GenerateWave():
		return ErrWaveInProgress
	}
	s.nextWaveIn = 0
	return nil
}

// PlaceTower 在 (x, y) 放置防御塔
// 位置不合法返回 ErrPlacementBlocked，金钱不足返回 ErrInsufficientFunds
func (s *Simulation) PlaceTower(t types.TowerType, x, y float64) (*entities.Tower, error) {
	if err := s.CanPlace(t, x, y); err != nil {
		return nil, err
	}

	stats := s.units.TowerStats(t)
	id := s.towers.CreateEntity()
	tower, err := entities.NewTower(id, t, x, y, stats,
		entities.WithRand(rand.New(rand.NewSource(s.rng.Int63()))),
		entities.WithProjectileParams(s.units.ProjectileParams()),
		entities.WithEffects(s.shop.Effects()...),
		entities.WithTargetPolicy(s.units.TargetPolicy(t)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s tower: %w", t, err)
	}
	if err := s.economy.Spend(stats.Cost); err != nil {
		return nil, err
	}
	s.towers.AddEntity(id, tower)

	s.bus.Publish(event.Event{Type: event.TowerPlaced, TowerID: id, TowerType: t, Value: stats.Cost, Level: tower.Level, X: x, Y: y})
	log.Printf("[Simulation] Placed %s tower %d at (%.0f, %.0f)", t, id, x, y)
	return tower, nil
}

// UpgradeTower 升级防御塔
// 满级返回 ErrMaxLevelReached，金钱不足返回 ErrInsufficientFunds
func (s *Simulation) UpgradeTower(id ecs.EntityID) error {
	tower, ok := s.towers.GetEntity(id)
	if !ok {
		return fmt.Errorf("%w: id %d", ErrUnknownTower, id)
	}
	cost, ok := tower.UpgradeCost()
	if !ok {
		return fmt.Errorf("tower %d: %w", id, ErrMaxLevelReached)
	}
	if err := s.economy.Spend(cost); err != nil {
		return err
	}
	tower.Upgrade()

	s.bus.Publish(event.Event{Type: event.TowerUpgraded, TowerID: id, TowerType: tower.Type, Value: cost, Level: tower.Level, X: tower.X, Y: tower.Y})
	log.Printf("[Simulation] Upgraded tower %d to level %d", id, tower.Level)
	return nil
}

// BuyPowerUp 购买商店强化并应用到所有现有防御塔
func (s *Simulation) BuyPowerUp(itemID string) error {
	if s.economy.IsGameOver() {
		return ErrGameOver
	}
	effect, price, err := s.shop.Buy(itemID, s.economy)
	if err != nil {
		return err
	}
	s.towers.Each(func(_ ecs.EntityID, t *entities.Tower) bool {
		t.ApplyEffect(effect)
		return true
	})

	s.bus.Publish(event.Event{Type: event.PowerUpBought, Name: itemID, Level: s.shop.Level(itemID), Value: price})
	log.Printf("[Simulation] Bought %s level %d for %d", itemID, s.shop.Level(itemID), price)
	return nil
}

// TowerAt 返回占据 (x, y) 的防御塔
func (s *Simulation) TowerAt(x, y float64) (*entities.Tower, bool) {
	var found *entities.Tower
	s.towers.Each(func(_ ecs.EntityID, t *entities.Tower) bool {
		if utils.WithinRange(t.X, t.Y, x, y, config.TowerSize/2) {
			found = t
			return false
		}
		return true
	})
	return found, found != nil
}

// Tower 按ID查找防御塔
func (s *Simulation) Tower(id ecs.EntityID) (*entities.Tower, bool) {
	return s.towers.GetEntity(id)
}

// Towers 按放置顺序返回所有防御塔
func (s *Simulation) Towers() []*entities.Tower {
	out := make([]*entities.Tower, 0, s.towers.Len())
	s.towers.Each(func(_ ecs.EntityID, t *entities.Tower) bool {
		out = append(out, t)
		return true
	})
	return out
}

// Bus 事件队列
func (s *Simulation) Bus() *event.Bus { return s.bus }

// Path 关卡路径
func (s *Simulation) Path() *entities.Path { return s.path }

// Waves 波次系统
func (s *Simulation) Waves() *systems.WaveSystem { return s.waves }

func (s *Simulation) Economy() *Economy { return s.economy }

func (s *Simulation) Shop() *Shop { return s.shop }

func (s *Simulation) Achievements() *Achievements { return s.achievements }

// Level 当前关卡配置
func (s *Simulation) Level() *config.LevelConfig { return s.level }

func (s *Simulation) Units() *config.UnitConfig { return s.units }

// Tick 已执行的帧数
func (s *Simulation) Tick() uint64 { return s.tick }

// NextWaveIn 自动开始下一波的倒计时（秒），0 表示没有
func (s *Simulation) NextWaveIn() float64 { return s.nextWaveIn }

func (s *Simulation) IsGameOver() bool { return s.economy.IsGameOver() }

// IsVictory 是否已完成关卡的全部波次
func (s *Simulation) IsVictory() bool { return s.victory }
