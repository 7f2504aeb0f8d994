package systems

import (
	"testing"

	"github.com/decker502/vibedefense/pkg/config"
	"github.com/decker502/vibedefense/pkg/entities"
	"github.com/decker502/vibedefense/pkg/event"
	"github.com/decker502/vibedefense/pkg/types"
)

// testEnemyStats 测试用的基础属性
func testEnemyStats(t types.EnemyType) entities.EnemyStats {
	switch t {
	case types.EnemyArmored:
		return entities.EnemyStats{Health: 150, Speed: 0.7, Value: 25, Size: 25, Armor: 0.5}
	case types.EnemyLayered:
		return entities.EnemyStats{Health: 120, Speed: 1, Value: 30, Size: 22, Layers: 3}
	case types.EnemyBoss:
		return entities.EnemyStats{Health: 500, Speed: 0.5, Value: 100, Size: 40}
	case types.EnemySpeed:
		return entities.EnemyStats{Health: 30, Speed: 3, Value: 15, Size: 15, TrailLength: 5, TrailFade: 0.8}
	default:
		return entities.EnemyStats{Health: 50, Speed: 1.5, Value: 10, Size: 20}
	}
}

// eventRecorder 记录投递的事件
type eventRecorder struct {
	events []event.Event
}

func (r *eventRecorder) OnEvent(e event.Event) {
	r.events = append(r.events, e)
}

func (r *eventRecorder) count(t event.Type) int {
	n := 0
	for _, e := range r.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

func newTestWaveSystem(t *testing.T, engine *DifficultyEngine, length float64) (*WaveSystem, *event.Bus, *eventRecorder) {
	t.Helper()
	path, err := entities.NewPath(entities.Point{X: 0, Y: 0}, entities.Point{X: length, Y: 0})
	if err != nil {
		t.Fatalf("NewPath failed: %v", err)
	}
	bus := event.NewBus()
	rec := &eventRecorder{}
	bus.SubscribeAll(rec)
	return NewWaveSystem(bus, engine, testEnemyStats, path, nil), bus, rec
}

// singleArmoredEngine 第1波只有一个带 0.5 秒延迟的装甲敌人
func singleArmoredEngine() *DifficultyEngine {
	levels, level := newTestLevels(config.DifficultyConfig{
		InitialEnemyCount:  1,
		EnemyCountIncrease: 1,
		SpawnInterval:      1.0,
		EnemyHealth:        100,
		EnemySpeed:         1.0,
		BossFrequency:      5,
	}, "basic", "armored")
	levels.EnemyMix = []config.EnemyMixEntry{{Type: "armored", UnlockWave: 1, PerWaves: 1, Delay: 0.5}}
	return NewDifficultyEngine(levels, level)
}

func TestGenerateWave(t *testing.T) {
	ws, bus, rec := newTestWaveSystem(t, newTestEngine("basic"), 100)

	if !ws.GenerateWave() {
		t.Fatal("GenerateWave should start wave 1")
	}
	if ws.GenerateWave() {
		t.Error("GenerateWave should be a no-op while the wave is active")
	}
	bus.Drain()

	if ws.Wave() != 1 {
		t.Errorf("expected wave 1, got %d", ws.Wave())
	}
	if ws.QueueLength() != 8 {
		t.Errorf("expected 8 queued enemies, got %d", ws.QueueLength())
	}
	if rec.count(event.WaveStarted) != 1 {
		t.Errorf("expected 1 WaveStarted, got %d", rec.count(event.WaveStarted))
	}
	if rec.events[0].Value != 8 {
		t.Errorf("WaveStarted should carry the enemy count, got %d", rec.events[0].Value)
	}
	if p := ws.Plan(); p.Wave != 1 || p.EnemyCount() != 8 || p.IsBossWave {
		t.Errorf("unexpected plan for wave 1: wave=%d count=%d boss=%v", p.Wave, p.EnemyCount(), p.IsBossWave)
	}
}

func TestWaveCompletesExactlyOnce(t *testing.T) {
	ws, bus, rec := newTestWaveSystem(t, newTestEngine("basic"), 100)
	ws.GenerateWave()

	const dt = config.TickDuration
	ticks := 0
	for ws.IsActive() {
		ws.Update(dt)
		bus.Drain()
		ticks++
		if ticks > 10000 {
			t.Fatal("wave did not complete")
		}
		if rec.count(event.WaveCompleted) == 0 && !ws.IsActive() {
			t.Fatal("wave went idle without WaveCompleted")
		}
		if rec.count(event.WaveCompleted) > 0 && (ws.QueueLength() != 0 || ws.ActiveCount() != 0) {
			t.Fatalf("WaveCompleted with queue=%d active=%d", ws.QueueLength(), ws.ActiveCount())
		}
	}

	for i := 0; i < 300; i++ {
		ws.Update(dt)
		bus.Drain()
	}

	if got := rec.count(event.WaveCompleted); got != 1 {
		t.Errorf("expected exactly 1 WaveCompleted, got %d", got)
	}
	if got := rec.count(event.EnemySpawned); got != 8 {
		t.Errorf("expected 8 EnemySpawned, got %d", got)
	}
	if got := rec.count(event.EnemyReachedEnd); got != 8 {
		t.Errorf("expected 8 EnemyReachedEnd, got %d", got)
	}
}

func TestWaveReleasesOneEnemyPerInterval(t *testing.T) {
	ws, _, _ := newTestWaveSystem(t, newTestEngine("basic"), 10000)
	ws.GenerateWave()

	// 第一个敌人立即释放，之后每 1 秒一个
	ws.Update(0.25)
	if ws.ActiveCount() != 1 {
		t.Fatalf("expected first enemy immediately, got %d active", ws.ActiveCount())
	}
	ws.Update(0.25)
	ws.Update(0.25)
	if ws.ActiveCount() != 1 {
		t.Errorf("expected 1 active before the interval, got %d", ws.ActiveCount())
	}
	ws.Update(0.25)
	ws.Update(0.25)
	if ws.ActiveCount() != 2 {
		t.Errorf("expected 2 active after the interval, got %d", ws.ActiveCount())
	}
}

func TestDeferredSpawn(t *testing.T) {
	ws, bus, rec := newTestWaveSystem(t, singleArmoredEngine(), 10000)
	ws.GenerateWave()

	const dt = 0.125
	for i := 1; i <= 4; i++ {
		ws.Update(dt)
		bus.Drain()
		if ws.ActiveCount() != 0 {
			t.Fatalf("tick %d: delayed enemy spawned early", i)
		}
		if ws.QueueLength() != 1 {
			t.Fatalf("tick %d: expected 1 pending, got %d", i, ws.QueueLength())
		}
		if !ws.IsActive() {
			t.Fatalf("tick %d: wave completed while an enemy was pending", i)
		}
	}

	ws.Update(dt)
	bus.Drain()
	if ws.ActiveCount() != 1 {
		t.Fatalf("expected delayed enemy after 0.5s, got %d active", ws.ActiveCount())
	}
	if rec.count(event.EnemySpawned) != 1 || rec.count(event.WaveCompleted) != 0 {
		t.Errorf("unexpected events: %+v", rec.events)
	}

	var spawned *entities.Enemy
	ws.EachEnemy(func(e *entities.Enemy) bool {
		spawned = e
		return false
	})
	if spawned == nil || spawned.Type != types.EnemyArmored {
		t.Fatalf("expected an armored enemy, got %+v", spawned)
	}
}

func TestKilledEnemyIsSweptOnce(t *testing.T) {
	ws, bus, rec := newTestWaveSystem(t, newTestEngine("basic"), 10000)
	ws.GenerateWave()
	ws.Update(config.TickDuration)
	bus.Drain()

	var target *entities.Enemy
	ws.EachEnemy(func(e *entities.Enemy) bool {
		target = e
		return false
	})
	if target == nil {
		t.Fatal("expected a spawned enemy")
	}
	if killed, err := target.TakeDamage(1000); err != nil || !killed {
		t.Fatalf("TakeDamage: killed=%v err=%v", killed, err)
	}

	ws.Update(config.TickDuration)
	ws.Update(config.TickDuration)
	bus.Drain()

	if got := rec.count(event.EnemyKilled); got != 1 {
		t.Fatalf("expected 1 EnemyKilled, got %d", got)
	}
	for _, e := range rec.events {
		if e.Type == event.EnemyKilled {
			if e.EnemyID != target.ID || e.Value != target.Value {
				t.Errorf("EnemyKilled = %+v, want id %d value %d", e, target.ID, target.Value)
			}
		}
	}
	if _, ok := ws.Enemy(target.ID); ok {
		t.Error("swept enemy should no longer resolve")
	}
}

func TestCancel(t *testing.T) {
	ws, bus, rec := newTestWaveSystem(t, newTestEngine("basic"), 10000)
	ws.GenerateWave()
	ws.Update(config.TickDuration)
	ws.Cancel()
	bus.Drain()

	if ws.IsActive() {
		t.Error("cancelled wave should not be active")
	}
	if ws.QueueLength() != 0 {
		t.Errorf("expected empty queue, got %d", ws.QueueLength())
	}

	before := len(rec.events)
	for i := 0; i < 120; i++ {
		ws.Update(config.TickDuration)
	}
	bus.Drain()
	if len(rec.events) != before {
		t.Errorf("no events expected after Cancel, got %d new", len(rec.events)-before)
	}
	if rec.count(event.WaveCompleted) != 0 {
		t.Error("Cancel must not publish WaveCompleted")
	}
	if ws.GenerateWave() {
		t.Error("GenerateWave should not start after Cancel")
	}
}
