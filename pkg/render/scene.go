package render

import (
	"math"

	"github.com/decker502/vibedefense/pkg/config"
	"github.com/decker502/vibedefense/pkg/ecs"
	"github.com/decker502/vibedefense/pkg/game"
	"github.com/decker502/vibedefense/pkg/types"
)

// Preview 放置模式下跟随光标的防御塔预览
type Preview struct {
	TowerType types.TowerType
	X, Y      float64
	Range     float64
	Valid     bool
}

// Overlay 快照之外的界面状态
type Overlay struct {
	SelectedTower ecs.EntityID
	Placement     *Preview
	Hints         []string // 底部提示，每项一段
	Message       string   // 状态栏下方的临时消息
	MessageFade   float64  // 消息已淡出的比例，0 为完全不透明
}

// DrawScene 绘制完整一帧：背景 → 路径 → 防御塔 → 敌人 → 投射物 → 预览 → 状态栏
func DrawScene(c Canvas, snap game.Snapshot, ov Overlay) {
	c.FillRect(0, 0, config.GameWindowWidth, config.GameWindowHeight, BackgroundColor)

	drawPath(c, snap)
	for _, t := range snap.Towers {
		drawTower(c, t, t.ID == ov.SelectedTower)
	}
	for _, e := range snap.Enemies {
		drawEnemy(c, e)
	}
	for _, p := range snap.Projectiles {
		drawProjectile(c, p)
	}
	if ov.Placement != nil {
		drawPreview(c, *ov.Placement)
	}
	DrawHUD(c, snap, ov)
}

func drawPath(c Canvas, snap game.Snapshot) {
	pts := snap.Path
	if len(pts) < 2 {
		return
	}

	for i := 1; i < len(pts); i++ {
		c.Line(pts[i-1].X, pts[i-1].Y, pts[i].X, pts[i].Y, config.PathWidth, PathEdgeColor)
	}
	for _, p := range pts {
		c.FillCircle(p.X, p.Y, config.PathWidth/2, PathEdgeColor)
	}
	for i := 1; i < len(pts); i++ {
		c.Line(pts[i-1].X, pts[i-1].Y, pts[i].X, pts[i].Y, config.PathWidth-6, PathColor)
	}
	for _, p := range pts[1 : len(pts)-1] {
		c.FillCircle(p.X, p.Y, config.PathWidth/2-3, PathColor)
	}

	start, end := pts[0], pts[len(pts)-1]
	c.FillCircle(start.X, start.Y, 8, PathStartColor)
	c.FillCircle(end.X, end.Y, 8, PathEndColor)
}

func drawTower(c Canvas, t game.TowerSnapshot, selected bool) {
	if selected {
		c.FillCircle(t.X, t.Y, t.Range, Fade(RangeColor, 0.1))
		c.StrokeCircle(t.X, t.Y, t.Range, 2, Fade(RangeColor, 0.5))
	}

	half := config.TowerSize / 2
	c.FillRect(t.X-half, t.Y-half, config.TowerSize, config.TowerSize, TowerBaseColor)

	clr := TowerColor(t.Type)
	c.FillCircle(t.X, t.Y, half*0.7, clr)
	bx := t.X + math.Cos(t.Angle)*half*1.2
	by := t.Y + math.Sin(t.Angle)*half*1.2
	c.Line(t.X, t.Y, bx, by, 4, clr)

	// 等级标记
	for i := 0; i < t.Level; i++ {
		px := t.X - half + 5 + float64(i)*8
		c.FillCircle(px, t.Y+half+5, 3, ValidColor)
	}
	if selected {
		c.StrokeRect(t.X-half-2, t.Y-half-2, config.TowerSize+4, config.TowerSize+4, 2, TextColor)
	}
}

func drawEnemy(c Canvas, e game.EnemySnapshot) {
	r := e.Size / 2

	for _, p := range e.Trail {
		c.FillCircle(p.X, p.Y, r*0.8, Fade(EnemyColor(e.Type), p.Alpha*0.5))
	}

	switch e.Type {
	case types.EnemyArmored:
		c.FillCircle(e.X, e.Y, r, EnemyColor(e.Type))
		c.StrokeCircle(e.X, e.Y, r, 3, ArmorEdgeColor)

	case types.EnemyLayered:
		layers := e.CurrentLayer
		if layers < 1 {
			layers = 1
		}
		for i := 0; i < layers; i++ {
			ring := r * float64(layers-i) / float64(layers)
			c.FillCircle(e.X, e.Y, ring, LayerColors[i%len(LayerColors)])
		}

	case types.EnemyBoss:
		c.FillCircle(e.X, e.Y, r, EnemyColor(e.Type))
		for k := 0; k < 4; k++ {
			a := e.Rotation + float64(k)*math.Pi/2
			c.Line(e.X, e.Y, e.X+math.Cos(a)*r*1.3, e.Y+math.Sin(a)*r*1.3, 3, BossSpikeColor)
		}
		c.FillCircle(e.X, e.Y, r*0.35, BossCoreColor)

	default:
		c.FillCircle(e.X, e.Y, r, EnemyColor(e.Type))
	}

	drawHealthBar(c, e.X-r, e.Y-r-8, e.Size, e.Health)
}

func drawHealthBar(c Canvas, x, y, w, fraction float64) {
	const h = 4
	c.FillRect(x, y, w, h, HealthBackColor)
	if fraction > 0 {
		c.FillRect(x, y, w*math.Min(fraction, 1), h, HealthColor(fraction))
	}
}

func drawProjectile(c Canvas, p game.ProjectileSnapshot) {
	clr := ProjectileColor(p.Type)
	for _, tp := range p.Trail {
		c.FillCircle(tp.X, tp.Y, 2, Fade(clr, tp.Alpha))
	}

	switch p.Type {
	case types.ProjectilePiercing:
		dx, dy := math.Cos(p.Angle)*8, math.Sin(p.Angle)*8
		c.Line(p.X-dx, p.Y-dy, p.X+dx, p.Y+dy, 3, clr)
	case types.ProjectileMultiShot:
		c.FillCircle(p.X, p.Y, 3, clr)
	case types.ProjectileChain:
		c.FillCircle(p.X, p.Y, 5, clr)
		c.StrokeCircle(p.X, p.Y, 8, 1, Fade(clr, 0.7))
	default:
		c.FillCircle(p.X, p.Y, 4, clr)
	}
}

func drawPreview(c Canvas, p Preview) {
	clr := ValidColor
	if !p.Valid {
		clr = InvalidColor
	}
	if p.Range > 0 {
		c.FillCircle(p.X, p.Y, p.Range, Fade(clr, 0.15))
		c.StrokeCircle(p.X, p.Y, p.Range, 1, Fade(clr, 0.6))
	}
	half := config.TowerSize / 2
	c.FillRect(p.X-half, p.Y-half, config.TowerSize, config.TowerSize, Fade(TowerColor(p.TowerType), 0.5))
	c.StrokeRect(p.X-half, p.Y-half, config.TowerSize, config.TowerSize, 2, clr)
}
