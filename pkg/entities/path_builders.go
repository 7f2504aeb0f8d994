package entities

import (
	"fmt"
	"math"
)

// PathShape 关卡路径形状
type PathShape string

const (
	PathSimple PathShape = "simple"
	PathZigzag PathShape = "zigzag"
	PathSpiral PathShape = "spiral"
	PathMaze   PathShape = "maze"
)

// spiralPoints 螺旋路径的采样点数
const spiralPoints = 50

// BuildPath 按形状和场地尺寸生成关卡路径
func BuildPath(shape PathShape, width, height float64) (*Path, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("playfield size must be positive, got %vx%v", width, height)
	}

	var pts []Point
	switch shape {
	case PathSimple:
		pts = simplePoints(width, height)
	case PathZigzag:
		pts = zigzagPoints(width, height)
	case PathSpiral:
		pts = spiralPathPoints(width, height)
	case PathMaze:
		pts = mazePoints(width, height)
	default:
		return nil, fmt.Errorf("unknown path shape %q", shape)
	}
	return NewPath(pts...)
}

// simplePoints S 形路径
func simplePoints(w, h float64) []Point {
	margin := h * 0.2
	return []Point{
		{0, h / 2},
		{w * 0.25, h / 2},
		{w * 0.25, margin},
		{w * 0.75, margin},
		{w * 0.75, h - margin},
		{w * 0.25, h - margin},
		{w * 0.25, h / 2},
		{w, h / 2},
	}
}

func zigzagPoints(w, h float64) []Point {
	const segments = 4
	segmentWidth := w / segments
	pts := []Point{{0, h * 0.2}}
	for i := 0; i < segments; i++ {
		y := h * 0.8
		if i%2 == 1 {
			y = h * 0.2
		}
		pts = append(pts, Point{segmentWidth * float64(i+1), y})
	}
	return pts
}

// spiralPathPoints 两圈阿基米德螺旋，从左侧进入，从右侧离开
func spiralPathPoints(w, h float64) []Point {
	cx, cy := w/2, h/2
	size := math.Min(w, h) * 0.4

	pts := []Point{{0, h / 2}}
	for i := 0; i <= spiralPoints; i++ {
		t := float64(i) / spiralPoints
		angle := t * math.Pi * 4
		radius := t * size
		pts = append(pts, Point{cx + math.Cos(angle)*radius, cy + math.Sin(angle)*radius})
	}
	return append(pts, Point{w, h / 2})
}

func mazePoints(w, h float64) []Point {
	margin := h * 0.15
	midY := h / 2
	return []Point{
		{0, midY},
		{w * 0.2, midY},
		{w * 0.2, margin},
		{w * 0.4, margin},
		{w * 0.4, h - margin},
		{w * 0.6, h - margin},
		{w * 0.6, margin},
		{w * 0.8, margin},
		{w * 0.8, h - margin},
		{w * 0.9, h - margin},
		{w * 0.9, midY},
		{w, midY},
	}
}
