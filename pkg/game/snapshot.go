package game

import (
	"github.com/decker502/vibedefense/pkg/components"
	"github.com/decker502/vibedefense/pkg/ecs"
	"github.com/decker502/vibedefense/pkg/entities"
	"github.com/decker502/vibedefense/pkg/types"
)

// EnemySnapshot 渲染用的敌人状态
type EnemySnapshot struct {
	ID           ecs.EntityID            `json:"id"`
	Type         types.EnemyType         `json:"type"`
	X            float64                 `json:"x"`
	Y            float64                 `json:"y"`
	Angle        float64                 `json:"angle"`
	Size         float64                 `json:"size"`
	Health       float64                 `json:"health"` // 生命比例 [0,1]
	Layers       int                     `json:"layers,omitempty"`
	CurrentLayer int                     `json:"currentLayer,omitempty"`
	Rotation     float64                 `json:"rotation,omitempty"`
	Trail        []components.TrailPoint `json:"trail,omitempty"`
}

// TowerSnapshot 渲染用的防御塔状态
type TowerSnapshot struct {
	ID       ecs.EntityID    `json:"id"`
	Type     types.TowerType `json:"type"`
	X        float64         `json:"x"`
	Y        float64         `json:"y"`
	Angle    float64         `json:"angle"`
	Level    int             `json:"level"`
	MaxLevel int             `json:"maxLevel"`
	Range    float64         `json:"range"`
	TargetID ecs.EntityID    `json:"targetId,omitempty"`
	Kills    int             `json:"kills"`
}

// ProjectileSnapshot 渲染用的投射物状态
type ProjectileSnapshot struct {
	Type   types.ProjectileType    `json:"type"`
	X      float64                 `json:"x"`
	Y      float64                 `json:"y"`
	Angle  float64                 `json:"angle"`
	Radius float64                 `json:"radius,omitempty"`
	Trail  []components.TrailPoint `json:"trail,omitempty"`
}

// Snapshot 某一帧的只读快照，渲染层和 API 只读取快照
type Snapshot struct {
	Tick       uint64  `json:"tick"`
	Level      string  `json:"level"`
	Wave       int     `json:"wave"`
	MaxWaves   int     `json:"maxWaves"`
	WaveActive bool    `json:"waveActive"`
	Queued     int     `json:"queued"`
	NextWaveIn float64 `json:"nextWaveIn"` // 自动开始下一波的倒计时，0 表示没有
	BossWave   bool    `json:"bossWave"`   // 当前进行中的波次包含 Boss

	Money    int  `json:"money"`
	Lives    int  `json:"lives"`
	Score    int  `json:"score"`
	GameOver bool `json:"gameOver"`
	Victory  bool `json:"victory"`

	Path        []entities.Point     `json:"path"`
	Enemies     []EnemySnapshot      `json:"enemies"`
	Towers      []TowerSnapshot      `json:"towers"`
	Projectiles []ProjectileSnapshot `json:"projectiles"`
}

// Snapshot 生成当前帧的快照（深拷贝，可跨 goroutine 传递）
func (s *Simulation) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:       s.tick,
		Level:      s.level.ID,
		Wave:       s.waves.Wave(),
		MaxWaves:   s.level.MaxWaves,
		WaveActive: s.waves.IsActive(),
		Queued:     s.waves.QueueLength(),
		NextWaveIn: s.nextWaveIn,
		BossWave:   s.waves.IsActive() && s.waves.Plan().IsBossWave,
		Money:      s.economy.Money(),
		Lives:      s.economy.Lives(),
		Score:      s.economy.Score(),
		GameOver:   s.economy.IsGameOver(),
		Victory:    s.victory,
		Path:       s.path.Waypoints(),
	}

	s.waves.EachEnemy(func(e *entities.Enemy) bool {
		if !e.IsAlive() {
			return true
		}
		es := EnemySnapshot{
			ID:           e.ID,
			Type:         e.Type,
			X:            e.X,
			Y:            e.Y,
			Angle:        e.Angle,
			Size:         e.Size,
			Health:       e.HealthFraction(),
			Layers:       e.Layers,
			CurrentLayer: e.CurrentLayer,
			Rotation:     e.Rotation,
		}
		if e.Trail != nil {
			es.Trail = append([]components.TrailPoint(nil), e.Trail.Points...)
		}
		snap.Enemies = append(snap.Enemies, es)
		return true
	})

	s.towers.Each(func(_ ecs.EntityID, t *entities.Tower) bool {
		snap.Towers = append(snap.Towers, TowerSnapshot{
			ID:       t.ID,
			Type:     t.Type,
			X:        t.X,
			Y:        t.Y,
			Angle:    t.Angle,
			Level:    t.Level,
			MaxLevel: t.MaxLevel,
			Range:    t.Range,
			TargetID: t.TargetID,
			Kills:    t.Kills,
		})
		for _, p := range t.Projectiles() {
			if p.Resolved {
				continue
			}
			ps := ProjectileSnapshot{Type: p.Type, X: p.X, Y: p.Y, Angle: p.Angle, Radius: p.Radius}
			if p.Trail != nil {
				ps.Trail = append([]components.TrailPoint(nil), p.Trail.Points...)
			}
			snap.Projectiles = append(snap.Projectiles, ps)
		}
		return true
	})

	return snap
}
