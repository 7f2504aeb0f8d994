package entities

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/decker502/vibedefense/pkg/ecs"
	"github.com/decker502/vibedefense/pkg/types"
	"github.com/decker502/vibedefense/pkg/utils"
)

// 每级属性增益（相对于基础属性，不复利）
const (
	levelDamageGain     = 0.5
	levelRangeGain      = 0.2
	levelFireRateGain   = 0.15
	levelChainRangeGain = 0.1
	upgradeCostGrowth   = 0.5

	// 射击间隔下限（相对于基础间隔）
	minFireIntervalRatio = 0.1

	specialShotMultiplier = 2.0
	critMultiplier        = 2.0
	piercingMultiplier    = 1.5
	specialChainBonus     = 2

	// 非连锁塔触发连锁时的附加目标数和伤害比例
	extraChainTargets = 2
	extraChainDamage  = 0.75
)

// TargetPolicy 目标选择策略
type TargetPolicy int

const (
	// TargetFirst 集合顺序中第一个在射程内的敌人
	TargetFirst TargetPolicy = iota
	// TargetNearest 距离最近的敌人
	TargetNearest
	// TargetFurthest 沿路径走得最远的敌人
	TargetFurthest
	// TargetStrongest 剩余生命最高的敌人
	TargetStrongest
)

// String 返回策略名称
func (p TargetPolicy) String() string {
	switch p {
	case TargetFirst:
		return "first"
	case TargetNearest:
		return "nearest"
	case TargetFurthest:
		return "furthest"
	case TargetStrongest:
		return "strongest"
	default:
		return "unknown"
	}
}

// ParseTargetPolicy 解析策略名称
func ParseTargetPolicy(s string) (TargetPolicy, error) {
	for _, p := range []TargetPolicy{TargetFirst, TargetNearest, TargetFurthest, TargetStrongest} {
		if p.String() == s {
			return p, nil
		}
	}
	return TargetFirst, fmt.Errorf("unknown target policy %q", s)
}

// TowerStats 防御塔 1 级基础属性
type TowerStats struct {
	Damage              float64
	Range               float64
	FireInterval        float64 // 秒
	Cost                int
	MaxLevel            int
	SpecialShotInterval int

	// 仅 Chain 使用
	ChainCount            int
	ChainRange            float64
	ChainDamageMultiplier float64
}

// Validate 检查基础属性
func (s TowerStats) Validate() error {
	if !(s.Damage > 0) || !(s.Range > 0) || !(s.FireInterval > 0) {
		return fmt.Errorf("%w: damage, range and fire interval must be positive, got damage=%v range=%v interval=%v",
			ErrInvalidTowerStats, s.Damage, s.Range, s.FireInterval)
	}
	if s.MaxLevel < 1 {
		return fmt.Errorf("%w: max level must be at least 1, got %d", ErrInvalidTowerStats, s.MaxLevel)
	}
	if s.SpecialShotInterval < 0 {
		return fmt.Errorf("%w: special shot interval cannot be negative", ErrInvalidTowerStats)
	}
	return nil
}

// ProjectileParams 投射物的速度、寿命和判定半径
type ProjectileParams struct {
	Speed            float64
	ChainSpeed       float64
	PiercingSpeed    float64
	PiercingLifetime int
	PiercingRadius   float64
	BurstCount       int
	BurstSpeed       float64
	BurstLifetime    int
	BurstRadius      float64
}

// DefaultProjectileParams 默认投射物参数
func DefaultProjectileParams() ProjectileParams {
	return ProjectileParams{
		Speed:            5,
		ChainSpeed:       8,
		PiercingSpeed:    10,
		PiercingLifetime: 20,
		PiercingRadius:   10,
		BurstCount:       5,
		BurstSpeed:       5,
		BurstLifetime:    20,
		BurstRadius:      8,
	}
}

// Effect 经济层施加的全局效果
// 乘数为 0 表示不修改
type Effect struct {
	Source                 string
	DamageMultiplier       float64
	RangeMultiplier        float64
	FireIntervalMultiplier float64
	CritChance             float64
	ChainChance            float64
}

// TowerOption 构造选项
type TowerOption func(*Tower)

// WithLevel 以指定等级构造（超出范围会被限制到 [1, MaxLevel]）
func WithLevel(level int) TowerOption {
	return func(t *Tower) { t.Level = level }
}

// WithTargetPolicy 设置目标策略
func WithTargetPolicy(p TargetPolicy) TowerOption {
	return func(t *Tower) { t.Policy = p }
}

// WithRand 注入随机源（暴击、连锁概率）
func WithRand(r *rand.Rand) TowerOption {
	return func(t *Tower) { t.rng = r }
}

// WithProjectileParams 覆盖投射物参数
func WithProjectileParams(p ProjectileParams) TowerOption {
	return func(t *Tower) { t.params = p }
}

// WithEffects 构造时应用已购买的全局效果
func WithEffects(effects ...Effect) TowerOption {
	return func(t *Tower) { t.effects = append(t.effects, effects...) }
}

// Tower 防御塔
//
// 状态机：Idle（TargetID 为 InvalidEntity）⇄ Engaging。
// 当前属性总是由基础属性、等级和已应用效果重新计算得到。
type Tower struct {
	ID     ecs.EntityID
	Type   types.TowerType
	X, Y   float64
	Angle  float64
	Policy TargetPolicy

	Level    int
	MaxLevel int

	Damage              float64
	Range               float64
	FireInterval        float64
	SpecialShotInterval int
	ChainCount          int
	ChainRange          float64
	ChainMultiplier     float64

	// 经济层挂钩
	CritChance  float64
	ChainChance float64

	ShotCount int
	TargetID  ecs.EntityID

	// 统计
	DamageDealt float64
	Kills       int

	base          TowerStats
	params        ProjectileParams
	effects       []Effect
	projectiles   []*Projectile
	sinceLastShot float64
	rng           *rand.Rand
}

// NewTower 创建防御塔，基础属性非法时返回 ErrInvalidTowerStats
func NewTower(id ecs.EntityID, towerType types.TowerType, x, y float64, stats TowerStats, opts ...TowerOption) (*Tower, error) {
	if err := stats.Validate(); err != nil {
		return nil, err
	}
	if towerType == types.TowerChain && stats.ChainDamageMultiplier <= 0 {
		return nil, fmt.Errorf("%w: chain damage multiplier must be positive", ErrInvalidTowerStats)
	}

	t := &Tower{
		ID:       id,
		Type:     towerType,
		X:        x,
		Y:        y,
		Level:    1,
		MaxLevel: stats.MaxLevel,
		base:     stats,
		params:   DefaultProjectileParams(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.Level < 1 {
		t.Level = 1
	}
	if t.Level > t.MaxLevel {
		t.Level = t.MaxLevel
	}
	if t.rng == nil {
		t.rng = rand.New(rand.NewSource(int64(id)))
	}

	t.recompute()
	// 首次锁定目标即可开火
	t.sinceLastShot = t.FireInterval
	return t, nil
}

// BaseStats 返回 1 级基础属性
func (t *Tower) BaseStats() TowerStats {
	return t.base
}

// Effects 返回已应用的效果副本
func (t *Tower) Effects() []Effect {
	out := make([]Effect, len(t.effects))
	copy(out, t.effects)
	return out
}

// Projectiles 返回当前在飞的投射物（只读）
func (t *Tower) Projectiles() []*Projectile {
	return t.projectiles
}

// IsMaxLevel 是否已满级
func (t *Tower) IsMaxLevel() bool {
	return t.Level >= t.MaxLevel
}

// recompute 从基础属性重新计算当前属性，再叠加全局效果
func (t *Tower) recompute() {
	lvl := float64(t.Level - 1)

	t.Damage = t.base.Damage * (1 + lvl*levelDamageGain)
	t.Range = t.base.Range * (1 + lvl*levelRangeGain)
	t.FireInterval = t.base.FireInterval * math.Max(1-lvl*levelFireRateGain, minFireIntervalRatio)
	t.SpecialShotInterval = t.base.SpecialShotInterval
	t.ChainCount = 0
	t.ChainRange = 0
	t.ChainMultiplier = 0
	if t.Type == types.TowerChain {
		t.ChainCount = t.base.ChainCount + t.Level - 1
		t.ChainRange = t.base.ChainRange * (1 + lvl*levelChainRangeGain)
		t.ChainMultiplier = t.base.ChainDamageMultiplier
	}

	t.CritChance = 0
	t.ChainChance = 0
	for _, e := range t.effects {
		if e.DamageMultiplier > 0 {
			t.Damage *= e.DamageMultiplier
		}
		if e.RangeMultiplier > 0 {
			t.Range *= e.RangeMultiplier
		}
		if e.FireIntervalMultiplier > 0 {
			t.FireInterval *= e.FireIntervalMultiplier
		}
		t.CritChance += e.CritChance
		t.ChainChance += e.ChainChance
	}
	t.CritChance = math.Min(t.CritChance, 1)
	t.ChainChance = math.Min(t.ChainChance, 1)
}

// Upgrade 升一级，满级时返回 false
func (t *Tower) Upgrade() bool {
	if t.IsMaxLevel() {
		return false
	}
	t.Level++
	t.recompute()
	return true
}

// UpgradeCost 返回升到下一级的费用，满级时第二个返回值为 false
func (t *Tower) UpgradeCost() (int, bool) {
	if t.IsMaxLevel() {
		return 0, false
	}
	return int(math.Floor(float64(t.base.Cost) * (1 + float64(t.Level)*upgradeCostGrowth))), true
}

// ApplyEffect 追加全局效果并重新计算属性
func (t *Tower) ApplyEffect(e Effect) {
	t.effects = append(t.effects, e)
	t.recompute()
}

// SetEffects 用给定列表替换全部效果
func (t *Tower) SetEffects(effects []Effect) {
	t.effects = append(t.effects[:0], effects...)
	t.recompute()
}

// InRange 判断点是否在射程内（含边界）
func (t *Tower) InRange(x, y float64) bool {
	return utils.WithinRange(t.X, t.Y, x, y, t.Range)
}

// Update 推进一帧：校验/选择目标 → 开火 → 更新投射物
// 返回本帧投射物造成的伤害结果
func (t *Tower) Update(dt float64, enemies EnemyLookup) HitReport {
	t.validateTarget(enemies)
	if t.TargetID == ecs.InvalidEntity {
		t.TargetID = t.selectTarget(enemies)
	}

	t.sinceLastShot += dt
	if t.TargetID != ecs.InvalidEntity && t.sinceLastShot >= t.FireInterval {
		if target, ok := enemies.Enemy(t.TargetID); ok {
			t.fire(target, enemies)
			t.sinceLastShot = 0
		}
	}

	return t.updateProjectiles(enemies)
}

// validateTarget 目标死亡、到达终点、被移除或离开射程时丢弃引用
func (t *Tower) validateTarget(enemies EnemyLookup) {
	if t.TargetID == ecs.InvalidEntity {
		return
	}
	target, ok := enemies.Enemy(t.TargetID)
	if !ok || !target.IsAlive() || !t.InRange(target.X, target.Y) {
		t.TargetID = ecs.InvalidEntity
	}
}

// selectTarget 按策略在射程内选择目标
func (t *Tower) selectTarget(enemies EnemyLookup) ecs.EntityID {
	var best *Enemy
	bestScore := math.Inf(-1)

	enemies.EachEnemy(func(e *Enemy) bool {
		if !e.IsAlive() || !t.InRange(e.X, e.Y) {
			return true
		}
		var score float64
		switch t.Policy {
		case TargetNearest:
			score = -utils.DistanceSquared(t.X, t.Y, e.X, e.Y)
		case TargetFurthest:
			score = e.Progress()
		case TargetStrongest:
			score = e.Health.CurrentHealth
		default:
			best = e
			return false
		}
		// 严格大于：分数相同时保留集合顺序靠前者
		if score > bestScore {
			best = e
			bestScore = score
		}
		return true
	})

	if best == nil {
		return ecs.InvalidEntity
	}
	return best.ID
}

// isSpecialShot 满级时每 SpecialShotInterval 发为强化射击
func (t *Tower) isSpecialShot() bool {
	return t.IsMaxLevel() && t.SpecialShotInterval > 0 && t.ShotCount%t.SpecialShotInterval == 0
}

func (t *Tower) roll(chance float64) bool {
	return chance > 0 && t.rng.Float64() < chance
}

// fire 向目标发射一次
func (t *Tower) fire(target *Enemy, enemies EnemyLookup) {
	t.ShotCount++
	t.Angle = utils.Angle(t.X, t.Y, target.X, target.Y)

	special := t.isSpecialShot()
	damage := t.Damage
	if special {
		damage *= specialShotMultiplier
	}
	if t.roll(t.CritChance) {
		damage *= critMultiplier
	}
	chained := t.roll(t.ChainChance)

	switch {
	case t.Type == types.TowerChain:
		bounces := t.ChainCount
		if special {
			bounces += specialChainBonus
		}
		if chained {
			bounces++
		}
		t.projectiles = append(t.projectiles, NewChainProjectile(t.X, t.Y, target.ID, damage,
			t.params.ChainSpeed, bounces, t.ChainRange, t.ChainMultiplier, nil))
		return

	case t.Type == types.TowerSniper && special:
		t.projectiles = append(t.projectiles, NewPiercingProjectile(t.X, t.Y, t.Angle,
			damage*piercingMultiplier, t.params.PiercingSpeed, t.params.PiercingLifetime, t.params.PiercingRadius))

	case t.Type == types.TowerRapid && special:
		t.projectiles = append(t.projectiles, NewDirectProjectile(t.X, t.Y, target.ID, damage, t.params.Speed))
		t.projectiles = append(t.projectiles, NewMultiShotBurst(t.X, t.Y, t.params.BurstCount, damage,
			t.params.BurstSpeed, t.params.BurstLifetime, t.params.BurstRadius)...)

	default:
		t.projectiles = append(t.projectiles, NewDirectProjectile(t.X, t.Y, target.ID, damage, t.params.Speed))
	}

	if chained {
		t.fireExtraChain(target, damage*extraChainDamage, enemies)
	}
}

// fireExtraChain 向射程内其他存活敌人追加发射
func (t *Tower) fireExtraChain(primary *Enemy, damage float64, enemies EnemyLookup) {
	extra := 0
	enemies.EachEnemy(func(e *Enemy) bool {
		if e.ID == primary.ID || !e.IsAlive() || !t.InRange(e.X, e.Y) {
			return true
		}
		t.projectiles = append(t.projectiles, NewDirectProjectile(t.X, t.Y, e.ID, damage, t.params.Speed))
		extra++
		return extra < extraChainTargets
	})
}

// updateProjectiles 更新在飞投射物，收集弹跳生成的新投射物，移除已结算的
func (t *Tower) updateProjectiles(enemies EnemyLookup) HitReport {
	var report HitReport
	var spawned []*Projectile

	for _, p := range t.projectiles {
		children, r := p.Update(enemies)
		report.add(r)
		spawned = append(spawned, children...)
	}

	alive := t.projectiles[:0]
	for _, p := range t.projectiles {
		if !p.Resolved {
			alive = append(alive, p)
		}
	}
	for i := len(alive); i < len(t.projectiles); i++ {
		t.projectiles[i] = nil
	}
	t.projectiles = append(alive, spawned...)

	t.DamageDealt += report.Damage
	t.Kills += report.Kills
	return report
}

// ClearProjectiles 丢弃所有在飞投射物
func (t *Tower) ClearProjectiles() {
	t.projectiles = nil
}
