package entities

import (
	"fmt"
	"math"

	"github.com/decker502/vibedefense/pkg/components"
	"github.com/decker502/vibedefense/pkg/ecs"
	"github.com/decker502/vibedefense/pkg/types"
	"github.com/decker502/vibedefense/pkg/utils"
)

// EnemyState 敌人状态机
// Traveling → Dead 或 Traveling → ReachedEnd，两个终止状态都不可离开
type EnemyState int

const (
	EnemyTraveling EnemyState = iota
	EnemyDead
	EnemyReachedEnd
)

// String 返回状态名称
func (s EnemyState) String() string {
	switch s {
	case EnemyTraveling:
		return "traveling"
	case EnemyDead:
		return "dead"
	case EnemyReachedEnd:
		return "reached_end"
	default:
		return "unknown"
	}
}

// EnemyStats 敌人的数值参数（已经过波次倍率缩放）
type EnemyStats struct {
	Health float64 // 最大生命值
	Speed  float64 // 每帧移动距离
	Value  int     // 击杀奖励
	Size   float64 // 渲染半径

	Armor         float64 // 装甲减伤比例 (0,1)，仅 Armored 使用
	Layers        int     // 层数，仅 Layered 使用
	TrailLength   int     // 拖尾长度，仅 Speed 使用
	TrailFade     float64 // 拖尾每帧透明度衰减
	RotationSpeed float64 // 每帧旋转弧度，仅 Boss 使用
}

// Enemy 沿路径移动的敌人
//
// 速度以“每帧单位”计量，Update 每调用一次推进一帧。
type Enemy struct {
	ID    ecs.EntityID
	Type  types.EnemyType
	State EnemyState

	X, Y  float64
	Angle float64 // 朝向（弧度）

	Health components.HealthComponent
	Speed  float64
	Value  int
	Size   float64
	Armor  float64

	// 外观状态，不影响玩法
	Layers        int
	CurrentLayer  int
	Trail         *components.TrailComponent
	Rotation      float64
	rotationSpeed float64

	path        *Path
	targetIndex int
}

// NewEnemy 在路径起点创建敌人
func NewEnemy(id ecs.EntityID, enemyType types.EnemyType, path *Path, stats EnemyStats) (*Enemy, error) {
	if path == nil || path.Len() < 2 {
		return nil, ErrInvalidPath
	}
	if !(stats.Health > 0) || !(stats.Speed > 0) {
		return nil, fmt.Errorf("%w: %s requires positive health and speed, got health=%v speed=%v",
			ErrInvalidEnemyStats, enemyType, stats.Health, stats.Speed)
	}

	start := path.Waypoint(0)
	e := &Enemy{
		ID:     id,
		Type:   enemyType,
		State:  EnemyTraveling,
		X:      start.X,
		Y:      start.Y,
		Health: components.HealthComponent{CurrentHealth: stats.Health, MaxHealth: stats.Health},
		Speed:  stats.Speed,
		Value:  stats.Value,
		Size:   stats.Size,

		path:        path,
		targetIndex: 1,
	}
	next := path.Waypoint(1)
	e.Angle = utils.Angle(e.X, e.Y, next.X, next.Y)

	switch enemyType {
	case types.EnemyArmored:
		if !(stats.Armor > 0 && stats.Armor < 1) {
			return nil, fmt.Errorf("%w: armor must be in (0,1), got %v", ErrInvalidEnemyStats, stats.Armor)
		}
		e.Armor = stats.Armor
	case types.EnemyLayered:
		if stats.Layers < 1 {
			return nil, fmt.Errorf("%w: layered enemy needs at least one layer, got %d", ErrInvalidEnemyStats, stats.Layers)
		}
		e.Layers = stats.Layers
		e.CurrentLayer = stats.Layers
	case types.EnemySpeed:
		e.Trail = components.NewTrail(stats.TrailLength, stats.TrailFade)
	case types.EnemyBoss:
		e.rotationSpeed = stats.RotationSpeed
	}

	return e, nil
}

// IsAlive 敌人仍在行进
func (e *Enemy) IsAlive() bool {
	return e.State == EnemyTraveling
}

// IsDead 敌人已被击杀
func (e *Enemy) IsDead() bool {
	return e.State == EnemyDead
}

// HasReachedEnd 敌人已到达终点
func (e *Enemy) HasReachedEnd() bool {
	return e.State == EnemyReachedEnd
}

// HealthFraction 返回生命比例 [0,1]
func (e *Enemy) HealthFraction() float64 {
	return e.Health.Fraction()
}

// TargetIndex 返回正在前往的路点索引
func (e *Enemy) TargetIndex() int {
	return e.targetIndex
}

// Progress 返回沿路径已走过的距离
func (e *Enemy) Progress() float64 {
	return e.path.DistanceAlong(e.targetIndex, e.X, e.Y)
}

// Update 推进一帧
//
// 与下一路点距离小于速度时直接吸附并前进到下一路点，吸附的是最后一个路点时进入 ReachedEnd。
func (e *Enemy) Update() {
	if e.State != EnemyTraveling {
		return
	}

	target := e.path.Waypoint(e.targetIndex)
	ux, uy, dist := utils.Direction(e.X, e.Y, target.X, target.Y)

	if dist < e.Speed {
		e.X, e.Y = target.X, target.Y
		e.targetIndex++
		if e.targetIndex >= e.path.Len() {
			e.State = EnemyReachedEnd
			return
		}
		next := e.path.Waypoint(e.targetIndex)
		e.Angle = utils.Angle(e.X, e.Y, next.X, next.Y)
	} else {
		e.X += ux * e.Speed
		e.Y += uy * e.Speed
		e.Angle = math.Atan2(uy, ux)
	}

	e.updateCosmetics()
}

func (e *Enemy) updateCosmetics() {
	switch e.Type {
	case types.EnemySpeed:
		if e.Trail != nil {
			e.Trail.Push(e.X, e.Y)
		}
	case types.EnemyBoss:
		e.Rotation = math.Mod(e.Rotation+e.rotationSpeed, 2*math.Pi)
	}
}

// TakeDamage 承受伤害，返回本次是否击杀
//
// 负数或 NaN 伤害返回 ErrInvalidDamage；已终止的敌人忽略伤害。
// 装甲敌人的实际伤害为 amount * (1 - Armor)。
func (e *Enemy) TakeDamage(amount float64) (bool, error) {
	if math.IsNaN(amount) || amount < 0 {
		return false, fmt.Errorf("%w: got %v", ErrInvalidDamage, amount)
	}
	if e.State != EnemyTraveling {
		return false, nil
	}

	effective := amount
	if e.Type == types.EnemyArmored {
		effective = amount * (1 - e.Armor)
	}

	e.Health.CurrentHealth -= effective
	if e.Health.CurrentHealth <= 0 {
		e.Health.CurrentHealth = 0
		e.State = EnemyDead
	}

	if e.Type == types.EnemyLayered {
		e.CurrentLayer = int(math.Ceil(e.Health.CurrentHealth / e.Health.MaxHealth * float64(e.Layers)))
	}

	return e.State == EnemyDead, nil
}
