package utils

import "math"

// Distance 计算两点之间的欧几里得距离
func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

// DistanceSquared 计算两点之间距离的平方（范围判定时避免开方）
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// WithinRange 判断两点距离是否不超过 r（含边界）
func WithinRange(x1, y1, x2, y2, r float64) bool {
	return DistanceSquared(x1, y1, x2, y2) <= r*r
}

// PointToSegmentDistance 计算点 (px,py) 到线段 (ax,ay)-(bx,by) 的最短距离
//
// 投影参数被限制在 [0,1]，退化线段（两端点重合）直接返回到端点的距离。
func PointToSegmentDistance(px, py, ax, ay, bx, by float64) float64 {
	dx := bx - ax
	dy := by - ay
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return Distance(px, py, ax, ay)
	}

	t := ((px-ax)*dx + (py-ay)*dy) / lenSq
	switch {
	case t < 0:
		t = 0
	case t > 1:
		t = 1
	}

	return Distance(px, py, ax+t*dx, ay+t*dy)
}

// Direction 返回从 (x1,y1) 指向 (x2,y2) 的单位向量和距离
// 两点重合时返回零向量
func Direction(x1, y1, x2, y2 float64) (ux, uy, dist float64) {
	dx := x2 - x1
	dy := y2 - y1
	dist = math.Hypot(dx, dy)
	if dist == 0 {
		return 0, 0, 0
	}
	return dx / dist, dy / dist, dist
}

// Angle 返回从 (x1,y1) 指向 (x2,y2) 的朝向角（弧度）
func Angle(x1, y1, x2, y2 float64) float64 {
	return math.Atan2(y2-y1, x2-x1)
}
