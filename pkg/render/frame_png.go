package render

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/decker502/vibedefense/pkg/config"
	"github.com/decker502/vibedefense/pkg/game"
	"github.com/fogleman/gg"
)

// ggCanvas 用 fogleman/gg 实现 Canvas，用于无窗口导出
type ggCanvas struct {
	dc *gg.Context
}

func (c *ggCanvas) FillRect(x, y, w, h float64, clr color.Color) {
	c.dc.SetColor(clr)
	c.dc.DrawRectangle(x, y, w, h)
	c.dc.Fill()
}

func (c *ggCanvas) StrokeRect(x, y, w, h, width float64, clr color.Color) {
	c.dc.SetColor(clr)
	c.dc.SetLineWidth(width)
	c.dc.DrawRectangle(x, y, w, h)
	c.dc.Stroke()
}

func (c *ggCanvas) FillCircle(cx, cy, r float64, clr color.Color) {
	c.dc.SetColor(clr)
	c.dc.DrawCircle(cx, cy, r)
	c.dc.Fill()
}

func (c *ggCanvas) StrokeCircle(cx, cy, r, width float64, clr color.Color) {
	c.dc.SetColor(clr)
	c.dc.SetLineWidth(width)
	c.dc.DrawCircle(cx, cy, r)
	c.dc.Stroke()
}

func (c *ggCanvas) Line(x0, y0, x1, y1, width float64, clr color.Color) {
	c.dc.SetColor(clr)
	c.dc.SetLineWidth(width)
	c.dc.DrawLine(x0, y0, x1, y1)
	c.dc.Stroke()
}

func (c *ggCanvas) Text(s string, x, y float64, clr color.Color) {
	c.dc.SetColor(clr)
	// gg 以基线定位，ay=1 让 y 对应文本顶部
	c.dc.DrawStringAnchored(s, x, y, 0, 1)
}

// RenderFrame 离屏绘制一帧
func RenderFrame(snap game.Snapshot, ov Overlay) image.Image {
	dc := gg.NewContext(config.GameWindowWidth, config.GameWindowHeight)
	DrawScene(&ggCanvas{dc: dc}, snap, ov)
	return dc.Image()
}

// WriteFramePNG 把一帧编码为 PNG 写入 w
func WriteFramePNG(w io.Writer, snap game.Snapshot, ov Overlay) error {
	dc := gg.NewContext(config.GameWindowWidth, config.GameWindowHeight)
	DrawScene(&ggCanvas{dc: dc}, snap, ov)
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}
	return nil
}

// SaveFramePNG 把一帧保存为 PNG 文件
func SaveFramePNG(path string, snap game.Snapshot, ov Overlay) error {
	dc := gg.NewContext(config.GameWindowWidth, config.GameWindowHeight)
	DrawScene(&ggCanvas{dc: dc}, snap, ov)
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("failed to save frame to %s: %w", path, err)
	}
	return nil
}
