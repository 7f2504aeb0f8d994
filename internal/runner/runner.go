// Package runner 无窗口地运行一局游戏
//
// 按固定步长推进模拟，按脚本放置防御塔，可选自动建造，
// 结束后返回统计摘要。cmd/headless 和集成测试使用。
package runner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/decker502/vibedefense/pkg/config"
	"github.com/decker502/vibedefense/pkg/event"
	"github.com/decker502/vibedefense/pkg/game"
	"github.com/decker502/vibedefense/pkg/types"
)

// maxTicksPerWave 单波帧数上限，防止配置错误导致死循环
const maxTicksPerWave = config.TickRate * 60 * 10

// autoBuildOrder 自动建造时循环使用的塔型
var autoBuildOrder = []types.TowerType{types.TowerBasic, types.TowerRapid, types.TowerSniper, types.TowerChain}

// Config 运行参数
type Config struct {
	// Waves 运行的波数，0 表示直到关卡结束或失败
	Waves int
	// Towers 第一波前放置的防御塔
	Towers []TowerOrder
	// AutoBuild 每波开始前把钱花在离路径最近的空位上
	AutoBuild bool
	// PublishEvery 每隔多少帧调用一次 Publish，0 表示只在每波结束时调用
	PublishEvery int
	// Realtime 按真实时间节奏推进（便于通过 /ws 观察）
	Realtime bool
	// Publish 可选的快照回调
	Publish func(game.Snapshot)
	// ObserveTick 可选，每帧结束后传入该帧耗时
	ObserveTick func(time.Duration)
}

// Summary 运行结果
type Summary struct {
	Level          string        `json:"level"`
	WavesCompleted int           `json:"wavesCompleted"`
	Ticks          uint64        `json:"ticks"`
	SimulatedTime  time.Duration `json:"simulatedTime"`
	EnemiesSpawned int           `json:"enemiesSpawned"`
	EnemiesKilled  int           `json:"enemiesKilled"`
	EnemiesLeaked  int           `json:"enemiesLeaked"`
	TowersPlaced   int           `json:"towersPlaced"`
	TowersUpgraded int           `json:"towersUpgraded"`
	Money          int           `json:"money"`
	Lives          int           `json:"lives"`
	Score          int           `json:"score"`
	GameOver       bool          `json:"gameOver"`
	Victory        bool          `json:"victory"`
}

// String 单行摘要
func (s Summary) String() string {
	outcome := "running"
	switch {
	case s.GameOver:
		outcome = "defeat"
	case s.Victory:
		outcome = "victory"
	}
	return fmt.Sprintf("%s: %s after %d waves (%s simulated) | killed %d/%d, leaked %d | towers %d (+%d upgrades) | money %d, lives %d, score %d",
		s.Level, outcome, s.WavesCompleted, s.SimulatedTime.Round(time.Second),
		s.EnemiesKilled, s.EnemiesSpawned, s.EnemiesLeaked,
		s.TowersPlaced, s.TowersUpgraded, s.Money, s.Lives, s.Score)
}

// Runner 驱动一局模拟
type Runner struct {
	sim     *game.Simulation
	cfg     Config
	summary Summary
}

// New 创建 Runner 并订阅统计所需的事件
func New(sim *game.Simulation, cfg Config) *Runner {
	r := &Runner{sim: sim, cfg: cfg}
	r.summary.Level = sim.Level().ID
	sim.Bus().SubscribeAll(event.ListenerFunc(r.count))
	return r
}

func (r *Runner) count(e event.Event) {
	switch e.Type {
	case event.EnemySpawned:
		r.summary.EnemiesSpawned++
	case event.EnemyKilled:
		r.summary.EnemiesKilled++
	case event.EnemyReachedEnd:
		r.summary.EnemiesLeaked++
	case event.WaveCompleted:
		r.summary.WavesCompleted++
	case event.TowerPlaced:
		r.summary.TowersPlaced++
	case event.TowerUpgraded:
		r.summary.TowersUpgraded++
	}
}

// Run 运行到指定波数、关卡结束、失败或 ctx 取消
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	for _, order := range r.cfg.Towers {
		if _, err := r.sim.PlaceTower(order.Type, order.X, order.Y); err != nil {
			return r.finish(), fmt.Errorf("scripted %s tower at (%.0f, %.0f): %w", order.Type, order.X, order.Y, err)
		}
	}
	r.drain()

	var ticker *time.Ticker
	if r.cfg.Realtime {
		ticker = time.NewTicker(time.Second / config.TickRate)
		defer ticker.Stop()
	}

	for wave := 1; r.cfg.Waves == 0 || wave <= r.cfg.Waves; wave++ {
		if r.sim.IsGameOver() || r.sim.IsVictory() {
			break
		}
		if r.cfg.AutoBuild {
			r.autoBuild()
		}
		if err := r.sim.StartWave(); err != nil {
			return r.finish(), fmt.Errorf("wave %d: %w", wave, err)
		}

		ticks := 0
		for r.sim.Waves().IsActive() && !r.sim.IsGameOver() {
			if ticks >= maxTicksPerWave {
				return r.finish(), fmt.Errorf("wave %d did not finish within %d ticks", wave, maxTicksPerWave)
			}
			if ticker != nil {
				select {
				case <-ctx.Done():
					return r.finish(), ctx.Err()
				case <-ticker.C:
				}
			} else if err := ctx.Err(); err != nil {
				return r.finish(), err
			}

			start := time.Now()
			r.sim.Step()
			if r.cfg.ObserveTick != nil {
				r.cfg.ObserveTick(time.Since(start))
			}
			ticks++
			if r.cfg.PublishEvery > 0 && ticks%r.cfg.PublishEvery == 0 {
				r.publish()
			}
		}
		r.publish()
		log.Printf("[Runner] Wave %d finished after %d ticks: money %d, lives %d",
			wave, ticks, r.sim.Economy().Money(), r.sim.Economy().Lives())
	}

	return r.finish(), nil
}

// drain 投递脚本放置产生的事件
func (r *Runner) drain() {
	r.sim.Bus().Drain()
}

func (r *Runner) publish() {
	if r.cfg.Publish != nil {
		r.cfg.Publish(r.sim.Snapshot())
	}
}

func (r *Runner) finish() Summary {
	s := r.summary
	s.Ticks = r.sim.Tick()
	s.SimulatedTime = time.Duration(float64(s.Ticks) * config.TickDuration * float64(time.Second))
	s.Money = r.sim.Economy().Money()
	s.Lives = r.sim.Economy().Lives()
	s.Score = r.sim.Economy().Score()
	s.GameOver = r.sim.IsGameOver()
	s.Victory = r.sim.IsVictory()
	return s
}

// candidate 自动建造的候选位置
type candidate struct {
	x, y, dist float64
}

// autoBuild 先升级已有塔，再在离路径最近的合法位置建新塔，直到钱不够
func (r *Runner) autoBuild() {
	for _, t := range r.sim.Towers() {
		if err := r.sim.UpgradeTower(t.ID); err != nil && !errors.Is(err, game.ErrMaxLevelReached) {
			break
		}
	}

	const step = 40.0
	var spots []candidate
	for y := config.HUDHeight + step/2; y < config.GameWindowHeight; y += step {
		for x := step / 2; x < config.GameWindowWidth; x += step {
			spots = append(spots, candidate{x: x, y: y, dist: r.sim.Path().DistanceToNearestSegment(x, y)})
		}
	}
	sort.SliceStable(spots, func(i, j int) bool { return spots[i].dist < spots[j].dist })

	next := len(r.sim.Towers())
	for _, c := range spots {
		t := autoBuildOrder[next%len(autoBuildOrder)]
		err := r.sim.CanPlace(t, c.x, c.y)
		if errors.Is(err, game.ErrInsufficientFunds) {
			break
		}
		if err != nil {
			continue
		}
		if _, err := r.sim.PlaceTower(t, c.x, c.y); err != nil {
			break
		}
		next++
	}
	r.drain()
}
