package render

import (
	"image/color"

	"github.com/decker502/vibedefense/pkg/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// Renderer 窗口模式渲染器
type Renderer struct {
	face text.Face
}

// NewRenderer 创建渲染器，使用内置的 7x13 点阵字体
func NewRenderer() *Renderer {
	return &Renderer{face: text.NewGoXFace(basicfont.Face7x13)}
}

// Draw 把快照绘制到屏幕
func (r *Renderer) Draw(screen *ebiten.Image, snap game.Snapshot, ov Overlay) {
	DrawScene(&ebitenCanvas{dst: screen, face: r.face}, snap, ov)
}

// ebitenCanvas 用 ebiten/vector 实现 Canvas
type ebitenCanvas struct {
	dst  *ebiten.Image
	face text.Face
}

func (c *ebitenCanvas) FillRect(x, y, w, h float64, clr color.Color) {
	vector.DrawFilledRect(c.dst, float32(x), float32(y), float32(w), float32(h), clr, true)
}

func (c *ebitenCanvas) StrokeRect(x, y, w, h, width float64, clr color.Color) {
	vector.StrokeRect(c.dst, float32(x), float32(y), float32(w), float32(h), float32(width), clr, true)
}

func (c *ebitenCanvas) FillCircle(cx, cy, r float64, clr color.Color) {
	vector.DrawFilledCircle(c.dst, float32(cx), float32(cy), float32(r), clr, true)
}

func (c *ebitenCanvas) StrokeCircle(cx, cy, r, width float64, clr color.Color) {
	vector.StrokeCircle(c.dst, float32(cx), float32(cy), float32(r), float32(width), clr, true)
}

func (c *ebitenCanvas) Line(x0, y0, x1, y1, width float64, clr color.Color) {
	vector.StrokeLine(c.dst, float32(x0), float32(y0), float32(x1), float32(y1), float32(width), clr, true)
}

func (c *ebitenCanvas) Text(s string, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(c.dst, s, c.face, op)
}
