package game

import (
	"fmt"

	"github.com/decker502/vibedefense/pkg/config"
	"github.com/decker502/vibedefense/pkg/ecs"
	"github.com/decker502/vibedefense/pkg/entities"
	"github.com/decker502/vibedefense/pkg/types"
	"github.com/decker502/vibedefense/pkg/utils"
)

// PlacementSession 放置模式状态
//
// 进入放置模式时由 Simulation.BeginPlacement 创建，放置成功或取消后丢弃。
// 每次光标移动通过 Simulation.MovePlacement 重新校验。
type PlacementSession struct {
	towerType types.TowerType
	cost      int
	x, y      float64
	err       error
}

// TowerType 待放置的防御塔类型
func (p *PlacementSession) TowerType() types.TowerType { return p.towerType }

// Cost 放置费用
func (p *PlacementSession) Cost() int { return p.cost }

// Position 当前光标位置
func (p *PlacementSession) Position() (float64, float64) { return p.x, p.y }

// Valid 当前位置是否可以放置
func (p *PlacementSession) Valid() bool { return p.err == nil }

// Err 当前位置不可放置的原因
func (p *PlacementSession) Err() error { return p.err }

// BeginPlacement 进入放置模式
func (s *Simulation) BeginPlacement(t types.TowerType) (*PlacementSession, error) {
	if _, ok := s.units.Towers[t.String()]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTower, t)
	}
	p := &PlacementSession{
		towerType: t,
		cost:      s.units.TowerStats(t).Cost,
		x:         -1,
		y:         -1,
	}
	p.err = s.CanPlace(t, p.x, p.y)
	return p, nil
}

// MovePlacement 更新光标位置并重新校验
func (s *Simulation) MovePlacement(p *PlacementSession, x, y float64) {
	p.x, p.y = x, y
	p.err = s.CanPlace(p.towerType, x, y)
}

// CommitPlacement 在光标位置放置防御塔
func (s *Simulation) CommitPlacement(p *PlacementSession) error {
	_, err := s.PlaceTower(p.towerType, p.x, p.y)
	p.err = err
	return err
}

// CanPlace 校验放置位置
//
// 规则：塔必须完整位于场地内，中心到路径的距离不小于 config.MinPathDistance，
// 与已有塔的中心距离不小于 config.MinTowerSpacing，且付得起。
func (s *Simulation) CanPlace(t types.TowerType, x, y float64) error {
	if s.economy.IsGameOver() {
		return ErrGameOver
	}
	stats, ok := s.units.Towers[t.String()]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTower, t)
	}

	half := config.TowerSize / 2
	if x < half || x > config.GameWindowWidth-half || y < config.HUDHeight+half || y > config.GameWindowHeight-half {
		return fmt.Errorf("%w: outside the playfield", ErrPlacementBlocked)
	}
	if s.path.IsPointTooClose(x, y, config.MinPathDistance) {
		return fmt.Errorf("%w: too close to the path", ErrPlacementBlocked)
	}

	blocked := false
	s.towers.Each(func(_ ecs.EntityID, tower *entities.Tower) bool {
		if utils.Distance(x, y, tower.X, tower.Y) < config.MinTowerSpacing {
			blocked = true
			return false
		}
		return true
	})
	if blocked {
		return fmt.Errorf("%w: overlaps another tower", ErrPlacementBlocked)
	}

	if !s.economy.CanAfford(stats.Cost) {
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientFunds, stats.Cost, s.economy.Money())
	}
	return nil
}
