package entities

import (
	"testing"

	"github.com/decker502/vibedefense/pkg/ecs"
	"github.com/decker502/vibedefense/pkg/types"
)

// enemyList 以切片实现 EnemyLookup，保持插入顺序
type enemyList struct {
	enemies []*Enemy
}

func (l *enemyList) Enemy(id ecs.EntityID) (*Enemy, bool) {
	for _, e := range l.enemies {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

func (l *enemyList) EachEnemy(fn func(e *Enemy) bool) {
	for _, e := range l.enemies {
		if !fn(e) {
			return
		}
	}
}

func (l *enemyList) remove(id ecs.EntityID) {
	for i, e := range l.enemies {
		if e.ID == id {
			l.enemies = append(l.enemies[:i], l.enemies[i+1:]...)
			return
		}
	}
}

func basicStats() EnemyStats {
	return EnemyStats{Health: 50, Speed: 1.5, Value: 10, Size: 20}
}

// newEnemyAt 创建静止在 (x,y) 的敌人（路径从该点出发向右延伸）
func newEnemyAt(t *testing.T, id ecs.EntityID, enemyType types.EnemyType, x, y float64, stats EnemyStats) *Enemy {
	t.Helper()
	p := mustPath(t, Point{x, y}, Point{x + 1000, y})
	e, err := NewEnemy(id, enemyType, p, stats)
	if err != nil {
		t.Fatalf("NewEnemy failed: %v", err)
	}
	return e
}

func basicTowerStats() TowerStats {
	return TowerStats{Damage: 20, Range: 120, FireInterval: 1, Cost: 100, MaxLevel: 3, SpecialShotInterval: 5}
}

func mustTower(t *testing.T, towerType types.TowerType, x, y float64, stats TowerStats, opts ...TowerOption) *Tower {
	t.Helper()
	tw, err := NewTower(1, towerType, x, y, stats, opts...)
	if err != nil {
		t.Fatalf("NewTower failed: %v", err)
	}
	return tw
}
