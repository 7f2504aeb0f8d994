package render

import (
	"fmt"
	"strings"

	"github.com/decker502/vibedefense/pkg/config"
	"github.com/decker502/vibedefense/pkg/game"
)

// HUDLine 返回状态栏左侧文本
func HUDLine(snap game.Snapshot) string {
	wave := fmt.Sprintf("Wave: %d", snap.Wave)
	if snap.MaxWaves > 0 {
		wave = fmt.Sprintf("Wave: %d/%d", snap.Wave, snap.MaxWaves)
	}
	return fmt.Sprintf("Money: $%d   Lives: %d   %s   Score: %d", snap.Money, snap.Lives, wave, snap.Score)
}

// WaveStatus 返回状态栏右侧的波次状态
func WaveStatus(snap game.Snapshot) string {
	switch {
	case snap.GameOver || snap.Victory:
		return ""
	case snap.WaveActive:
		enemies := len(snap.Enemies) + snap.Queued
		if snap.BossWave {
			return fmt.Sprintf("BOSS WAVE  Enemies: %d", enemies)
		}
		return fmt.Sprintf("Enemies: %d", enemies)
	case snap.NextWaveIn > 0:
		return fmt.Sprintf("Next wave in %.1fs", snap.NextWaveIn)
	default:
		return "[S] Start wave"
	}
}

// DrawHUD 绘制状态栏、提示和结束横幅
func DrawHUD(c Canvas, snap game.Snapshot, ov Overlay) {
	c.FillRect(0, 0, config.GameWindowWidth, config.HUDHeight, HUDBackColor)

	ty := (config.HUDHeight - glyphHeight) / 2.0
	c.Text(HUDLine(snap), 10, ty, TextColor)
	if status := WaveStatus(snap); status != "" {
		c.Text(status, config.GameWindowWidth-10-textWidth(status), ty, TextColor)
	}

	if ov.Message != "" {
		c.Text(ov.Message, 10, config.HUDHeight+6, Fade(MutedColor, 1-ov.MessageFade))
	}

	if len(ov.Hints) > 0 {
		hints := strings.Join(ov.Hints, "   ")
		y := config.GameWindowHeight - glyphHeight - 8.0
		c.FillRect(0, y-4, config.GameWindowWidth, glyphHeight+12, HUDBackColor)
		c.Text(hints, 10, y, MutedColor)
	}

	switch {
	case snap.GameOver:
		drawBanner(c, "GAME OVER", fmt.Sprintf("Reached wave %d with score %d", snap.Wave, snap.Score))
	case snap.Victory:
		drawBanner(c, "LEVEL COMPLETE", fmt.Sprintf("Score %d, %d lives left", snap.Score, snap.Lives))
	}
}

func drawBanner(c Canvas, title, subtitle string) {
	const h = 80.0
	y := (config.GameWindowHeight - h) / 2
	c.FillRect(0, y, config.GameWindowWidth, h, BannerColor)
	c.Text(title, (config.GameWindowWidth-textWidth(title))/2, y+20, TextColor)
	c.Text(subtitle, (config.GameWindowWidth-textWidth(subtitle))/2, y+46, MutedColor)
}
