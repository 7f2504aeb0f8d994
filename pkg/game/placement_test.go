package game

import (
	"errors"
	"testing"

	"github.com/decker502/vibedefense/pkg/config"
	"github.com/decker502/vibedefense/pkg/types"
)

func TestCanPlace(t *testing.T) {
	sim := newTestSimulation(t, nil)
	if _, err := sim.PlaceTower(types.TowerBasic, 400, 200); err != nil {
		t.Fatalf("PlaceTower failed: %v", err)
	}

	tests := []struct {
		name      string
		towerType types.TowerType
		x, y      float64
		expected  error
	}{
		{"空地可以放置", types.TowerBasic, 100, 200, nil},
		{"路径上", types.TowerBasic, 400, 300, ErrPlacementBlocked},
		{"离路径太近", types.TowerBasic, 400, 140, ErrPlacementBlocked},
		{"场地外", types.TowerBasic, 5, 200, ErrPlacementBlocked},
		{"状态栏内", types.TowerBasic, 100, config.HUDHeight, ErrPlacementBlocked},
		{"与已有塔重叠", types.TowerBasic, 410, 200, ErrPlacementBlocked},
		{"间距刚好足够", types.TowerBasic, 400 + config.MinTowerSpacing, 200, nil},
		{"未知类型", types.TowerUnknown, 100, 200, ErrUnknownTower},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sim.CanPlace(tt.towerType, tt.x, tt.y)
			if tt.expected == nil {
				if err != nil {
					t.Errorf("expected placement at (%v,%v) to be valid, got %v", tt.x, tt.y, err)
				}
				return
			}
			if !errors.Is(err, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestCanPlaceInsufficientFunds(t *testing.T) {
	sim := newTestSimulation(t, func(level *config.LevelConfig) {
		level.StartingMoney = 120
	})

	if err := sim.CanPlace(types.TowerSniper, 100, 200); !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("expected ErrInsufficientFunds for sniper, got %v", err)
	}
	if err := sim.CanPlace(types.TowerBasic, 100, 200); err != nil {
		t.Errorf("basic tower should be affordable, got %v", err)
	}
}

func TestPlacementSession(t *testing.T) {
	sim := newTestSimulation(t, nil)

	session, err := sim.BeginPlacement(types.TowerRapid)
	if err != nil {
		t.Fatalf("BeginPlacement failed: %v", err)
	}
	if session.Valid() {
		t.Error("new session has no cursor yet and should be invalid")
	}
	if session.Cost() != 150 {
		t.Errorf("expected rapid tower cost 150, got %d", session.Cost())
	}

	sim.MovePlacement(session, 400, 300)
	if session.Valid() || !errors.Is(session.Err(), ErrPlacementBlocked) {
		t.Errorf("cursor on the path should be blocked, got %v", session.Err())
	}

	sim.MovePlacement(session, 400, 200)
	if !session.Valid() {
		t.Fatalf("expected valid placement, got %v", session.Err())
	}
	if err := sim.CommitPlacement(session); err != nil {
		t.Fatalf("CommitPlacement failed: %v", err)
	}

	towers := sim.Towers()
	if len(towers) != 1 || towers[0].Type != types.TowerRapid {
		t.Fatalf("expected one rapid tower, got %d", len(towers))
	}
	if sim.Economy().Money() != 500-150 {
		t.Errorf("expected money %d, got %d", 500-150, sim.Economy().Money())
	}

	if err := sim.CommitPlacement(session); !errors.Is(err, ErrPlacementBlocked) {
		t.Errorf("second commit at the same spot should be blocked, got %v", err)
	}

	if _, err := sim.BeginPlacement(types.TowerUnknown); !errors.Is(err, ErrUnknownTower) {
		t.Errorf("expected ErrUnknownTower, got %v", err)
	}
}
