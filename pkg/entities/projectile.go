package entities

import (
	"log"
	"math"

	"github.com/decker502/vibedefense/pkg/components"
	"github.com/decker502/vibedefense/pkg/ecs"
	"github.com/decker502/vibedefense/pkg/types"
	"github.com/decker502/vibedefense/pkg/utils"
)

// EnemyLookup 活跃敌人集合的只读视图
// 防御塔和投射物只保存 EntityID，每帧通过它查找目标
type EnemyLookup interface {
	// Enemy 按ID查找，敌人已被移除时返回 false
	Enemy(id ecs.EntityID) (*Enemy, bool)
	// EachEnemy 按集合顺序遍历，fn 返回 false 时停止
	EachEnemy(fn func(e *Enemy) bool)
}

// HitReport 一帧内投射物造成的结果
type HitReport struct {
	Damage float64 // 实际造成的名义伤害
	Hits   int
	Kills  int
}

func (r *HitReport) add(other HitReport) {
	r.Damage += other.Damage
	r.Hits += other.Hits
	r.Kills += other.Kills
}

// Projectile 防御塔发射的投射物
//
// 一个结构体承载四种变体，Update 按 Type 分派。
// 投射物只结算一次：Resolved 置位后不再移动也不再造成伤害。
type Projectile struct {
	Type     types.ProjectileType
	X, Y     float64
	Angle    float64
	TargetID ecs.EntityID
	Damage   float64
	Speed    float64
	Resolved bool

	// Piercing / MultiShot 沿固定方向飞行
	VX, VY   float64
	Radius   float64
	Lifetime components.LifetimeComponent
	Trail    *components.TrailComponent

	// Chain
	ChainLeft        int
	ChainRange       float64
	DamageMultiplier float64
	hit              map[ecs.EntityID]struct{}
}

// NewDirectProjectile 创建追踪弹
func NewDirectProjectile(x, y float64, target ecs.EntityID, damage, speed float64) *Projectile {
	return &Projectile{
		Type:     types.ProjectileDirect,
		X:        x,
		Y:        y,
		TargetID: target,
		Damage:   damage,
		Speed:    speed,
	}
}

// NewPiercingProjectile 创建沿 angle 方向直线飞行的穿透弹
// radius 为命中判定半径，lifetime 为存在帧数
func NewPiercingProjectile(x, y, angle, damage, speed float64, lifetime int, radius float64) *Projectile {
	return &Projectile{
		Type:     types.ProjectilePiercing,
		X:        x,
		Y:        y,
		Angle:    angle,
		Damage:   damage,
		Speed:    speed,
		VX:       math.Cos(angle) * speed,
		VY:       math.Sin(angle) * speed,
		Radius:   radius,
		Lifetime: components.NewLifetime(lifetime),
		Trail:    components.NewTrail(5, 0.8),
		hit:      make(map[ecs.EntityID]struct{}),
	}
}

// NewMultiShotBurst 创建 count 个径向均匀分布的散射粒子
// totalDamage 平分到每个粒子
func NewMultiShotBurst(x, y float64, count int, totalDamage, speed float64, lifetime int, radius float64) []*Projectile {
	if count <= 0 {
		return nil
	}
	perParticle := totalDamage / float64(count)
	burst := make([]*Projectile, 0, count)
	for i := 0; i < count; i++ {
		angle := float64(i) / float64(count) * 2 * math.Pi
		burst = append(burst, &Projectile{
			Type:     types.ProjectileMultiShot,
			X:        x,
			Y:        y,
			Angle:    angle,
			Damage:   perParticle,
			Speed:    speed,
			VX:       math.Cos(angle) * speed,
			VY:       math.Sin(angle) * speed,
			Radius:   radius,
			Lifetime: components.NewLifetime(lifetime),
		})
	}
	return burst
}

// NewChainProjectile 创建弹跳弹
// alreadyHit 为已命中的敌人集合（会被复制，调用方可继续持有）
func NewChainProjectile(x, y float64, target ecs.EntityID, damage, speed float64,
	chainLeft int, chainRange, multiplier float64, alreadyHit map[ecs.EntityID]struct{}) *Projectile {
	hit := make(map[ecs.EntityID]struct{}, len(alreadyHit)+1)
	for id := range alreadyHit {
		hit[id] = struct{}{}
	}
	return &Projectile{
		Type:             types.ProjectileChain,
		X:                x,
		Y:                y,
		TargetID:         target,
		Damage:           damage,
		Speed:            speed,
		ChainLeft:        chainLeft,
		ChainRange:       chainRange,
		DamageMultiplier: multiplier,
		hit:              hit,
	}
}

// HasHit 判断投射物是否已命中过该敌人（穿透弹和弹跳弹使用）
func (p *Projectile) HasHit(id ecs.EntityID) bool {
	_, ok := p.hit[id]
	return ok
}

// LifeFraction 返回剩余生命比例，追踪弹恒为 1
func (p *Projectile) LifeFraction() float64 {
	if p.Lifetime.MaxTicks == 0 {
		return 1
	}
	return p.Lifetime.Fraction()
}

// Update 推进一帧
// 返回本帧新生成的投射物（弹跳）和伤害结果
func (p *Projectile) Update(enemies EnemyLookup) ([]*Projectile, HitReport) {
	if p.Resolved {
		return nil, HitReport{}
	}

	switch p.Type {
	case types.ProjectilePiercing:
		return nil, p.updatePiercing(enemies)
	case types.ProjectileMultiShot:
		return nil, p.updateParticle(enemies)
	default:
		return p.updateHoming(enemies)
	}
}

// updateHoming 追踪弹和弹跳弹：每帧重新瞄准目标当前位置
func (p *Projectile) updateHoming(enemies EnemyLookup) ([]*Projectile, HitReport) {
	target, ok := enemies.Enemy(p.TargetID)
	if !ok || !target.IsAlive() {
		// 目标失效：静默过期，不造成伤害
		p.Resolved = true
		return nil, HitReport{}
	}

	ux, uy, dist := utils.Direction(p.X, p.Y, target.X, target.Y)
	if dist >= p.Speed {
		p.X += ux * p.Speed
		p.Y += uy * p.Speed
		p.Angle = math.Atan2(uy, ux)
		return nil, HitReport{}
	}

	p.X, p.Y = target.X, target.Y
	p.Resolved = true
	report := applyDamage(target, p.Damage)

	if p.Type != types.ProjectileChain {
		return nil, report
	}

	p.hit[target.ID] = struct{}{}
	if p.ChainLeft <= 0 {
		return nil, report
	}
	next := p.nearestUnhit(enemies)
	if next == nil {
		return nil, report
	}
	bounce := NewChainProjectile(p.X, p.Y, next.ID, p.Damage*p.DamageMultiplier, p.Speed,
		p.ChainLeft-1, p.ChainRange, p.DamageMultiplier, p.hit)
	return []*Projectile{bounce}, report
}

// nearestUnhit 在弹跳范围内寻找最近的未命中存活敌人
func (p *Projectile) nearestUnhit(enemies EnemyLookup) *Enemy {
	var best *Enemy
	bestDist := math.Inf(1)
	enemies.EachEnemy(func(e *Enemy) bool {
		if !e.IsAlive() || p.HasHit(e.ID) {
			return true
		}
		d := utils.Distance(p.X, p.Y, e.X, e.Y)
		if d <= p.ChainRange && d < bestDist {
			best = e
			bestDist = d
		}
		return true
	})
	return best
}

// updatePiercing 穿透弹：对本帧扫过的线段附近的每个敌人各造成一次伤害
func (p *Projectile) updatePiercing(enemies EnemyLookup) HitReport {
	prevX, prevY := p.X, p.Y
	p.X += p.VX
	p.Y += p.VY
	if p.Trail != nil {
		p.Trail.Push(p.X, p.Y)
	}

	var report HitReport
	enemies.EachEnemy(func(e *Enemy) bool {
		if !e.IsAlive() || p.HasHit(e.ID) {
			return true
		}
		if utils.PointToSegmentDistance(e.X, e.Y, prevX, prevY, p.X, p.Y) <= p.Radius+e.Size/2 {
			p.hit[e.ID] = struct{}{}
			report.add(applyDamage(e, p.Damage))
		}
		return true
	})

	if p.Lifetime.Tick() {
		p.Resolved = true
	}
	return report
}

// updateParticle 散射粒子：命中第一个接触到的敌人后结算
func (p *Projectile) updateParticle(enemies EnemyLookup) HitReport {
	p.X += p.VX
	p.Y += p.VY

	var report HitReport
	enemies.EachEnemy(func(e *Enemy) bool {
		if !e.IsAlive() {
			return true
		}
		if utils.WithinRange(p.X, p.Y, e.X, e.Y, p.Radius+e.Size/2) {
			report = applyDamage(e, p.Damage)
			p.Resolved = true
			return false
		}
		return true
	})

	if !p.Resolved && p.Lifetime.Tick() {
		p.Resolved = true
	}
	return report
}

func applyDamage(e *Enemy, damage float64) HitReport {
	killed, err := e.TakeDamage(damage)
	if err != nil {
		log.Printf("[Projectile] rejected damage %v on enemy %d: %v", damage, e.ID, err)
		return HitReport{}
	}
	report := HitReport{Damage: damage, Hits: 1}
	if killed {
		report.Kills = 1
	}
	return report
}
