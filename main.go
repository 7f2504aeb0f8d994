package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/vibedefense/pkg/app"
	"github.com/decker502/vibedefense/pkg/config"
	"github.com/decker502/vibedefense/pkg/embedded"
	"github.com/decker502/vibedefense/pkg/game"
)

func main() {
	level := flag.String("level", "", "关卡 ID（如 zigzag-challenge），为空时从第一关开始")
	seed := flag.Int64("seed", 0, "随机种子，0 表示随机")
	autoWave := flag.Float64("auto-wave", config.DefaultAutoWaveDelay, "波次结束后自动开始下一波的等待秒数，0 表示手动")
	verbose := flag.Bool("verbose", false, "输出详细日志")
	flag.Parse()

	// dataFS 在 embed.go 中声明
	embedded.Init(dataFS)

	// 跨局统计；gdata 不可用时退化为仅内存
	stats := game.OpenStatsStore(config.AppName)

	gameApp, err := app.NewApp(app.Config{
		Verbose:       *verbose,
		Level:         *level,
		Seed:          *seed,
		AutoWaveDelay: *autoWave,
		Stats:         stats,
	})
	if err != nil {
		log.Fatalf("游戏初始化失败: %v", err)
	}
	defer gameApp.Shutdown()

	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle("Vibe Defense")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(config.TickRate)

	if err := ebiten.RunGame(gameApp); err != nil {
		log.Fatal(err)
	}
}
