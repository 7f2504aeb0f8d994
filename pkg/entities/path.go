package entities

import (
	"math"

	"github.com/decker502/vibedefense/pkg/utils"
)

// Point 二维坐标点
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Path 敌人行进的折线路径
//
// 路点只在构建阶段通过 AddWaypoint 追加，交给 WaveSystem 后只读。
type Path struct {
	waypoints []Point
	// cumulative[i] 为从起点到第 i 个路点的累计长度
	cumulative []float64
}

// NewPath 由路点序列创建路径
// 少于两个路点时返回 ErrInvalidPath
func NewPath(points ...Point) (*Path, error) {
	if len(points) < 2 {
		return nil, ErrInvalidPath
	}
	p := &Path{
		waypoints:  make([]Point, 0, len(points)),
		cumulative: make([]float64, 0, len(points)),
	}
	for _, pt := range points {
		p.AddWaypoint(pt.X, pt.Y)
	}
	return p, nil
}

// AddWaypoint 追加路点，与前一个路点隐式构成一条线段
func (p *Path) AddWaypoint(x, y float64) {
	length := 0.0
	if n := len(p.waypoints); n > 0 {
		prev := p.waypoints[n-1]
		length = p.cumulative[n-1] + utils.Distance(prev.X, prev.Y, x, y)
	}
	p.waypoints = append(p.waypoints, Point{X: x, Y: y})
	p.cumulative = append(p.cumulative, length)
}

// Len 返回路点数量
func (p *Path) Len() int {
	return len(p.waypoints)
}

// Waypoint 返回第 i 个路点
func (p *Path) Waypoint(i int) Point {
	return p.waypoints[i]
}

// Waypoints 返回路点副本
func (p *Path) Waypoints() []Point {
	out := make([]Point, len(p.waypoints))
	copy(out, p.waypoints)
	return out
}

// Length 返回路径总长度
func (p *Path) Length() float64 {
	if len(p.cumulative) == 0 {
		return 0
	}
	return p.cumulative[len(p.cumulative)-1]
}

// DistanceAlong 返回一个正在前往第 nextIndex 个路点、当前位于 (x,y) 的实体已走过的路程
func (p *Path) DistanceAlong(nextIndex int, x, y float64) float64 {
	if nextIndex <= 0 {
		return 0
	}
	if nextIndex >= len(p.waypoints) {
		return p.Length()
	}
	prev := p.waypoints[nextIndex-1]
	return p.cumulative[nextIndex-1] + utils.Distance(prev.X, prev.Y, x, y)
}

// DistanceToNearestSegment 返回点到所有线段的最短距离
func (p *Path) DistanceToNearestSegment(x, y float64) float64 {
	if len(p.waypoints) == 1 {
		wp := p.waypoints[0]
		return utils.Distance(x, y, wp.X, wp.Y)
	}

	minDist := math.Inf(1)
	for i := 0; i+1 < len(p.waypoints); i++ {
		a := p.waypoints[i]
		b := p.waypoints[i+1]
		if d := utils.PointToSegmentDistance(x, y, a.X, a.Y, b.X, b.Y); d < minDist {
			minDist = d
		}
	}
	return minDist
}

// IsPointTooClose 判断点是否距离路径过近（用于放置校验）
func (p *Path) IsPointTooClose(x, y, minDistance float64) bool {
	return p.DistanceToNearestSegment(x, y) < minDistance
}
