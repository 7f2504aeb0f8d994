// Package render 把 game.Snapshot 绘制到画布上
//
// 场景只依赖 Canvas 接口：窗口模式用 ebiten 的 vector/text 实现，
// 离屏导出用 fogleman/gg 实现，两者画出同一幅场景。
package render

import "image/color"

// Canvas 场景绘制所需的最小图元集合，坐标单位为像素
type Canvas interface {
	FillRect(x, y, w, h float64, clr color.Color)
	StrokeRect(x, y, w, h, width float64, clr color.Color)
	FillCircle(cx, cy, r float64, clr color.Color)
	StrokeCircle(cx, cy, r, width float64, clr color.Color)
	Line(x0, y0, x1, y1, width float64, clr color.Color)
	// Text 绘制单行文本，(x, y) 为左上角
	Text(s string, x, y float64, clr color.Color)
}

// 字形尺寸（basicfont.Face7x13）
const (
	glyphWidth  = 7
	glyphHeight = 13
)

// textWidth 估算文本宽度
func textWidth(s string) float64 {
	return float64(len(s) * glyphWidth)
}
