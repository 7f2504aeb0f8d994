package game

import (
	"errors"
	"reflect"
	"testing"

	"github.com/decker502/vibedefense/pkg/config"
	"github.com/decker502/vibedefense/pkg/event"
	"github.com/decker502/vibedefense/pkg/types"
)

func TestNewSimulationUnknownLevel(t *testing.T) {
	cfgs := loadTestConfigs(t)
	_, err := NewSimulation(Options{Levels: cfgs.levels, Units: cfgs.units, Shop: cfgs.shop, LevelID: "nope"})
	if !errors.Is(err, ErrUnknownLevel) {
		t.Errorf("expected ErrUnknownLevel, got %v", err)
	}
}

func TestSimulationWaveWithTower(t *testing.T) {
	sim := newTestSimulation(t, nil)
	log := &eventLog{}
	sim.Bus().SubscribeAll(log)

	if _, err := sim.PlaceTower(types.TowerBasic, 100, 200); err != nil {
		t.Fatalf("PlaceTower failed: %v", err)
	}
	if err := sim.StartWave(); err != nil {
		t.Fatalf("StartWave failed: %v", err)
	}
	if err := sim.StartWave(); !errors.Is(err, ErrWaveInProgress) {
		t.Errorf("expected ErrWaveInProgress, got %v", err)
	}

	runUntil(t, sim, 20000, func() bool { return log.count(event.WaveCompleted) > 0 })

	spawned := log.count(event.EnemySpawned)
	killed := log.count(event.EnemyKilled)
	leaked := log.count(event.EnemyReachedEnd)
	if spawned != 8 {
		t.Errorf("expected 8 spawned, got %d", spawned)
	}
	if killed+leaked != spawned {
		t.Errorf("killed %d + leaked %d != spawned %d", killed, leaked, spawned)
	}
	if killed == 0 {
		t.Error("a tower next to the path should kill something")
	}

	want := 500 - 100 + log.sum(event.EnemyKilled)
	if sim.Economy().Money() != want {
		t.Errorf("money: expected %d, got %d", want, sim.Economy().Money())
	}
	if sim.Economy().Lives() != 20-leaked {
		t.Errorf("lives: expected %d, got %d", 20-leaked, sim.Economy().Lives())
	}
	if log.count(event.TowerPlaced) != 1 || log.count(event.WaveStarted) != 1 {
		t.Errorf("unexpected event counts: placed=%d started=%d",
			log.count(event.TowerPlaced), log.count(event.WaveStarted))
	}
}

func TestSimulationEventTicks(t *testing.T) {
	sim := newTestSimulation(t, nil)
	log := &eventLog{}
	sim.Bus().SubscribeAll(log)

	sim.StartWave()
	for i := 0; i < 600; i++ {
		sim.Step()
	}

	var last uint64
	for _, e := range log.events {
		if e.Tick < last {
			t.Fatalf("events delivered out of tick order: %d after %d", e.Tick, last)
		}
		last = e.Tick
	}
}

func TestSimulationGameOver(t *testing.T) {
	sim := newTestSimulation(t, func(level *config.LevelConfig) {
		level.Lives = 2
	})
	log := &eventLog{}
	sim.Bus().SubscribeAll(log)

	sim.StartWave()
	runUntil(t, sim, 20000, sim.IsGameOver)

	if sim.Economy().Lives() != 0 {
		t.Errorf("expected 0 lives, got %d", sim.Economy().Lives())
	}
	if log.count(event.GameOver) != 1 {
		t.Errorf("expected 1 GameOver, got %d", log.count(event.GameOver))
	}
	if log.count(event.WaveCompleted) != 0 {
		t.Error("a cancelled wave must not complete")
	}

	tick := sim.Tick()
	sim.Update(1)
	sim.Step()
	if sim.Tick() != tick {
		t.Error("simulation must stop after game over")
	}
	if err := sim.StartWave(); !errors.Is(err, ErrGameOver) {
		t.Errorf("StartWave: expected ErrGameOver, got %v", err)
	}
	if _, err := sim.PlaceTower(types.TowerBasic, 100, 200); !errors.Is(err, ErrGameOver) {
		t.Errorf("PlaceTower: expected ErrGameOver, got %v", err)
	}
}

func TestSimulationVictory(t *testing.T) {
	sim := newTestSimulation(t, func(level *config.LevelConfig) {
		level.Lives = 100
		level.MaxWaves = 1
	})
	log := &eventLog{}
	sim.Bus().SubscribeAll(log)

	sim.StartWave()
	runUntil(t, sim, 20000, sim.IsVictory)

	// 胜利的同一帧内就要投递 LevelComplete
	if log.count(event.LevelComplete) != 1 {
		t.Errorf("expected 1 LevelComplete in the winning tick, got %d", log.count(event.LevelComplete))
	}
	if sim.Bus().Pending() != 0 {
		t.Errorf("expected no pending events after victory, got %d", sim.Bus().Pending())
	}
	sim.Step()
	if log.count(event.LevelComplete) != 1 {
		t.Errorf("LevelComplete must be published once, got %d", log.count(event.LevelComplete))
	}
	if err := sim.StartWave(); !errors.Is(err, ErrLevelComplete) {
		t.Errorf("expected ErrLevelComplete, got %v", err)
	}
}

func TestSimulationAutoWave(t *testing.T) {
	cfgs := loadTestConfigs(t)
	level, _ := cfgs.levels.Level("beginners-path")
	level.Lives = 100

	sim, err := NewSimulation(Options{
		Levels:        cfgs.levels,
		Units:         cfgs.units,
		Shop:          cfgs.shop,
		LevelID:       "beginners-path",
		Seed:          7,
		AutoWaveDelay: 1.0,
	})
	if err != nil {
		t.Fatalf("NewSimulation failed: %v", err)
	}

	sim.StartWave()
	runUntil(t, sim, 20000, func() bool { return !sim.Waves().IsActive() })
	if sim.NextWaveIn() <= 0 {
		t.Fatal("expected an auto wave countdown after completion")
	}

	runUntil(t, sim, config.TickRate+5, func() bool { return sim.Waves().Wave() == 2 })
	if !sim.Waves().IsActive() {
		t.Error("wave 2 should be active")
	}
}

func TestUpgradeTower(t *testing.T) {
	sim := newTestSimulation(t, nil)
	tower, err := sim.PlaceTower(types.TowerBasic, 100, 200)
	if err != nil {
		t.Fatalf("PlaceTower failed: %v", err)
	}

	for _, wantCost := range []int{150, 200} {
		before := sim.Economy().Money()
		if err := sim.UpgradeTower(tower.ID); err != nil {
			t.Fatalf("UpgradeTower failed: %v", err)
		}
		if paid := before - sim.Economy().Money(); paid != wantCost {
			t.Errorf("expected upgrade cost %d, paid %d", wantCost, paid)
		}
	}

	if tower.Level != 3 {
		t.Errorf("expected level 3, got %d", tower.Level)
	}
	if err := sim.UpgradeTower(tower.ID); !errors.Is(err, ErrMaxLevelReached) {
		t.Errorf("expected ErrMaxLevelReached, got %v", err)
	}
	if err := sim.UpgradeTower(tower.ID + 100); !errors.Is(err, ErrUnknownTower) {
		t.Errorf("expected ErrUnknownTower, got %v", err)
	}
}

func TestBuyPowerUpAppliesToAllTowers(t *testing.T) {
	sim := newTestSimulation(t, nil)
	log := &eventLog{}
	sim.Bus().SubscribeAll(log)

	first, err := sim.PlaceTower(types.TowerBasic, 100, 200)
	if err != nil {
		t.Fatalf("PlaceTower failed: %v", err)
	}
	if err := sim.BuyPowerUp("damageBoost"); err != nil {
		t.Fatalf("BuyPowerUp failed: %v", err)
	}
	second, err := sim.PlaceTower(types.TowerBasic, 400, 200)
	if err != nil {
		t.Fatalf("PlaceTower failed: %v", err)
	}

	if first.Damage != 25 || second.Damage != 25 {
		t.Errorf("expected both towers at damage 25, got %v and %v", first.Damage, second.Damage)
	}
	if sim.Economy().Money() != 500-100-200-100 {
		t.Errorf("unexpected money %d", sim.Economy().Money())
	}

	sim.Step()
	if log.count(event.PowerUpBought) != 1 {
		t.Errorf("expected 1 PowerUpBought, got %d", log.count(event.PowerUpBought))
	}
	if sim.Achievements().Stats().PowerUpsUsed != 1 {
		t.Errorf("expected powerUpsUsed 1, got %d", sim.Achievements().Stats().PowerUpsUsed)
	}
}

func TestSimulationIsDeterministic(t *testing.T) {
	run := func() Snapshot {
		sim := newTestSimulation(t, func(level *config.LevelConfig) { level.Lives = 100 })
		sim.PlaceTower(types.TowerRapid, 100, 200)
		sim.PlaceTower(types.TowerBasic, 400, 200)
		sim.StartWave()
		for i := 0; i < 1500; i++ {
			sim.Step()
		}
		return sim.Snapshot()
	}

	a, b := run(), run()
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed and inputs should produce identical snapshots")
	}
}

func TestUpdateUsesFixedStep(t *testing.T) {
	sim := newTestSimulation(t, nil)

	sim.Update(config.TickDuration * 2.5)
	if sim.Tick() != 2 {
		t.Errorf("expected 2 ticks, got %d", sim.Tick())
	}
	sim.Update(config.TickDuration * 0.6)
	if sim.Tick() != 3 {
		t.Errorf("leftover time should carry over, got %d ticks", sim.Tick())
	}

	sim.Update(10)
	maxTicks := uint64(3 + config.MaxDeltaTime/config.TickDuration + 1)
	if sim.Tick() > maxTicks {
		t.Errorf("large dt should be clamped, got %d ticks", sim.Tick())
	}
}
