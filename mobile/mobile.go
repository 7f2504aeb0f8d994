//go:build mobile

// Package mobile 提供 ebitenmobile 绑定入口
//
// 此包用于构建 Android (.aar) 和 iOS (.xcframework) 包，
// 仅在使用 -tags mobile 时编译：
//
//	# Android
//	cp -r data mobile/ && ebitenmobile bind -target android -tags mobile -androidapi 23 -javapkg com.decker.vibedefense -o build/android/vibedefense.aar ./mobile
//
//	# iOS (仅 macOS)
//	cp -r data mobile/ && ebitenmobile bind -target ios -tags mobile -o build/ios/VibeDefense.xcframework ./mobile
package mobile

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/mobile"

	"github.com/decker502/vibedefense/pkg/app"
	"github.com/decker502/vibedefense/pkg/config"
	"github.com/decker502/vibedefense/pkg/embedded"
	"github.com/decker502/vibedefense/pkg/game"
)

func init() {
	// dataFS 在 embed.go 中声明
	embedded.Init(dataFS)

	stats := game.OpenStatsStore(config.AppName)

	// 触屏上自动开始波次，见 app.NewApp
	gameApp, err := app.NewApp(app.Config{Stats: stats})
	if err != nil {
		log.Fatalf("游戏初始化失败: %v", err)
	}

	mobile.SetGame(gameApp)
}

// Dummy 是一个空导出函数，确保包被 ebitenmobile 正确识别
func Dummy() {}
