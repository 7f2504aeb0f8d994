// Package app 提供 ebiten 游戏包装器
//
// 桌面端由 main.go、移动端由 mobile 包初始化嵌入数据和存档，然后调用 NewApp。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/decker502/vibedefense/pkg/config"
	"github.com/decker502/vibedefense/pkg/game"
	"github.com/decker502/vibedefense/pkg/render"
	"github.com/decker502/vibedefense/pkg/utils"
)

// Config 应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Level 关卡 ID，为空时使用第一个关卡
	Level string
	// Seed 随机种子，0 表示使用当前时间
	Seed int64
	// AutoWaveDelay 自动开始下一波的等待时间（秒），0 表示手动
	AutoWaveDelay float64
	// Stats 跨局统计存储，可为 nil
	Stats *game.StatsStore
}

// App 实现 ebiten.Game
type App struct {
	opts     game.Options
	ctrl     *Controller
	renderer *render.Renderer
	verbose  bool

	lastUpdate time.Time

	pendingWindowSizeReset   bool
	windowSizeResetCountdown int
}

// NewApp 加载配置并创建第一局游戏
//
// 调用前必须先调用 embedded.Init()。
func NewApp(cfg Config) (*App, error) {
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	levels, err := config.LoadLevels("data/levels.yaml")
	if err != nil {
		return nil, fmt.Errorf("关卡配置加载失败: %w", err)
	}
	units, err := config.LoadUnits("data/units.yaml")
	if err != nil {
		return nil, fmt.Errorf("单位配置加载失败: %w", err)
	}
	shop, err := config.LoadShop("data/shop.yaml")
	if err != nil {
		return nil, fmt.Errorf("商店配置加载失败: %w", err)
	}

	levelID := cfg.Level
	if levelID == "" {
		levelID = levels.Levels[0].ID
	}
	autoWave := cfg.AutoWaveDelay
	if autoWave <= 0 && utils.IsMobile() {
		// 触屏没有开始波次的按键
		autoWave = config.DefaultAutoWaveDelay
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	a := &App{
		opts: game.Options{
			Levels:        levels,
			Units:         units,
			Shop:          shop,
			LevelID:       levelID,
			Stats:         cfg.Stats,
			Seed:          seed,
			AutoWaveDelay: autoWave,
		},
		renderer: render.NewRenderer(),
		verbose:  cfg.Verbose,
	}
	if err := a.restart(); err != nil {
		return nil, err
	}
	log.Printf("[App] Starting level %s (seed %d)", levelID, seed)
	return a, nil
}

// restart 用相同配置开始新的一局
func (a *App) restart() error {
	if a.ctrl != nil {
		a.ctrl.Simulation().Achievements().Save()
	}
	sim, err := game.NewSimulation(a.opts)
	if err != nil {
		return fmt.Errorf("关卡 %s 创建失败: %w", a.opts.LevelID, err)
	}
	a.ctrl = NewController(sim)
	a.lastUpdate = time.Time{}
	a.opts.Seed++
	return nil
}

// Update 读取输入并推进模拟
func (a *App) Update() error {
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
			a.pendingWindowSizeReset = false
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
	}

	now := time.Now()
	dt := config.TickDuration
	if !a.lastUpdate.IsZero() {
		dt = now.Sub(a.lastUpdate).Seconds()
	}
	a.lastUpdate = now

	sim := a.ctrl.Simulation()
	if (sim.IsGameOver() || sim.IsVictory()) && inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		return a.restart()
	}

	a.handleInput()

	// Simulation.Update 会把 dt 截断到 config.MaxDeltaTime
	sim.Update(dt)
	a.ctrl.Update(dt)
	return nil
}

func (a *App) handleInput() {
	ptr := ReadPointer()
	x, y := float64(ptr.X), float64(ptr.Y)
	a.ctrl.MoveCursor(x, y)

	towerKeyCodes := []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4}
	for i, t := range towerKeys {
		if i < len(towerKeyCodes) && inpututil.IsKeyJustPressed(towerKeyCodes[i]) {
			a.ctrl.SelectTowerType(t)
			a.ctrl.MoveCursor(x, y)
		}
	}

	shopKeyCodes := []ebiten.Key{ebiten.KeyQ, ebiten.KeyW, ebiten.KeyE, ebiten.KeyR, ebiten.KeyT}
	for i, k := range shopKeyCodes {
		if inpututil.IsKeyJustPressed(k) {
			a.ctrl.BuyPowerUp(i)
		}
	}

	switch {
	case ptr.JustPressed:
		a.ctrl.Click(x, y)
	case ptr.SecondaryPressed, inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		a.ctrl.Cancel()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyU) {
		a.ctrl.UpgradeSelected()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) || inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		a.ctrl.StartWave()
	}
}

func (a *App) toggleFullscreen() {
	if !ebiten.IsFullscreen() {
		ebiten.SetFullscreen(true)
		return
	}
	ebiten.SetFullscreen(false)
	if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
		ebiten.RestoreWindow()
	}
	// 退出全屏后等待几帧再恢复窗口大小
	a.pendingWindowSizeReset = true
	a.windowSizeResetCountdown = 3
}

// Draw 绘制当前帧
func (a *App) Draw(screen *ebiten.Image) {
	a.renderer.Draw(screen, a.ctrl.Simulation().Snapshot(), a.ctrl.Overlay())
}

// DrawFinalScreen 全屏时用黑边填充并线性缩放
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

// Shutdown 保存跨局统计
func (a *App) Shutdown() {
	a.ctrl.Simulation().Achievements().Save()
}

// IsVerbose 是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
