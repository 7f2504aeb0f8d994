package game

import (
	"os"
	"testing"

	"github.com/quasilyte/gdata/v2"
)

// newTestGdataManager 在临时 HOME 下创建 gdata 管理器
func newTestGdataManager(t *testing.T) *gdata.Manager {
	t.Helper()
	tempDir := t.TempDir()
	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)
	t.Cleanup(func() { os.Setenv("HOME", originalHome) })

	m, err := gdata.Open(gdata.Config{AppName: "vibedefense_test"})
	if err != nil {
		t.Skipf("gdata unavailable: %v", err)
	}
	return m
}

func TestStatsStoreDegradeMode(t *testing.T) {
	ss := NewStatsStore(nil)
	if ss.IsPersistent() {
		t.Error("nil manager should not be persistent")
	}
	ss.Stats().EnemiesKilled = 5
	if err := ss.Save(); err != nil {
		t.Errorf("Save in degrade mode should not fail: %v", err)
	}
	if err := ss.Load(); err != nil {
		t.Errorf("Load in degrade mode should not fail: %v", err)
	}
	if ss.Stats().EnemiesKilled != 5 {
		t.Error("degrade mode Load must keep in-memory stats")
	}
}

func TestStatsStoreRoundTrip(t *testing.T) {
	m := newTestGdataManager(t)

	ss := NewStatsStore(m)
	stats := ss.Stats()
	stats.EnemiesKilled = 1200
	stats.HighestWave = 17
	stats.TimePlayed = 95.5
	stats.Unlocked[RewardDoubleIncome] = true
	if err := ss.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded := NewStatsStore(m)
	got := reloaded.Stats()
	if got.EnemiesKilled != 1200 || got.HighestWave != 17 || got.TimePlayed != 95.5 {
		t.Errorf("unexpected reloaded stats: %+v", got)
	}
	if !got.Unlocked[RewardDoubleIncome] || got.Unlocked[RewardWaveRush] {
		t.Errorf("unexpected unlocked rewards: %v", got.Unlocked)
	}
}

func TestOpenStatsStoreLoadsSavedStats(t *testing.T) {
	tempDir := t.TempDir()
	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)
	t.Cleanup(func() { os.Setenv("HOME", originalHome) })

	const appName = "vibedefense_open_test"
	first := OpenStatsStore(appName)
	if !first.IsPersistent() {
		t.Skip("gdata unavailable")
	}
	first.Stats().WavesCompleted = 9
	if err := first.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reopened := OpenStatsStore(appName)
	if got := reopened.Stats().WavesCompleted; got != 9 {
		t.Errorf("reopened store waves = %d, want 9", got)
	}
}

func TestStatsStoreCorruptData(t *testing.T) {
	m := newTestGdataManager(t)
	if err := m.SaveObjectProp(statsObject, statsProperty, []byte("enemiesKilled: [not a number")); err != nil {
		t.Fatalf("SaveObjectProp failed: %v", err)
	}

	ss := NewStatsStore(m)
	if ss.Stats().EnemiesKilled != 0 {
		t.Error("corrupt data should fall back to empty stats")
	}
	if err := ss.Load(); err == nil {
		t.Error("expected an error for corrupt data")
	}
}
