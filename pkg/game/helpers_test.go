package game

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/decker502/vibedefense/pkg/config"
	"github.com/decker502/vibedefense/pkg/event"
)

// getProjectRoot 通过 runtime.Caller 定位项目根目录
func getProjectRoot() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return ""
	}
	// 本文件位于 pkg/game/helpers_test.go
	return filepath.Join(filepath.Dir(filename), "..", "..")
}

type testConfigs struct {
	levels *config.LevelsConfig
	units  *config.UnitConfig
	shop   *config.ShopConfig
}

// loadTestConfigs 加载 data/ 下的配置，每次调用都返回新的副本
func loadTestConfigs(t *testing.T) testConfigs {
	t.Helper()
	root := getProjectRoot()

	levels, err := config.LoadLevels(filepath.Join(root, "data", "levels.yaml"))
	if err != nil {
		t.Fatalf("LoadLevels failed: %v", err)
	}
	units, err := config.LoadUnits(filepath.Join(root, "data", "units.yaml"))
	if err != nil {
		t.Fatalf("LoadUnits failed: %v", err)
	}
	shop, err := config.LoadShop(filepath.Join(root, "data", "shop.yaml"))
	if err != nil {
		t.Fatalf("LoadShop failed: %v", err)
	}
	return testConfigs{levels: levels, units: units, shop: shop}
}

// newTestSimulation 创建 beginners-path 关卡的模拟，modify 可在创建前修改关卡配置
func newTestSimulation(t *testing.T, modify func(level *config.LevelConfig)) *Simulation {
	t.Helper()
	cfgs := loadTestConfigs(t)
	level, ok := cfgs.levels.Level("beginners-path")
	if !ok {
		t.Fatal("beginners-path level not found")
	}
	if modify != nil {
		modify(level)
	}

	sim, err := NewSimulation(Options{
		Levels:  cfgs.levels,
		Units:   cfgs.units,
		Shop:    cfgs.shop,
		LevelID: "beginners-path",
		Seed:    1,
	})
	if err != nil {
		t.Fatalf("NewSimulation failed: %v", err)
	}
	return sim
}

// eventLog 记录投递的事件
type eventLog struct {
	events []event.Event
}

func (l *eventLog) OnEvent(e event.Event) {
	l.events = append(l.events, e)
}

func (l *eventLog) count(t event.Type) int {
	n := 0
	for _, e := range l.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

func (l *eventLog) sum(t event.Type) int {
	total := 0
	for _, e := range l.events {
		if e.Type == t {
			total += e.Value
		}
	}
	return total
}

// runUntil 推进模拟直到 done 返回 true，超过 maxTicks 时失败
func runUntil(t *testing.T, sim *Simulation, maxTicks int, done func() bool) {
	t.Helper()
	for i := 0; i < maxTicks; i++ {
		if done() {
			return
		}
		sim.Step()
	}
	if !done() {
		t.Fatalf("condition not reached after %d ticks", maxTicks)
	}
}
