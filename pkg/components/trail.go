package components

// TrailPoint 拖尾中的一个历史位置
type TrailPoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Alpha float64 `json:"alpha"`
}

// TrailComponent 有界 FIFO 位置历史，仅用于渲染拖尾
type TrailComponent struct {
	Points    []TrailPoint
	MaxLength int
	Fade      float64 // 每帧透明度衰减系数
}

// NewTrail 创建指定长度的拖尾
func NewTrail(maxLength int, fade float64) *TrailComponent {
	return &TrailComponent{
		Points:    make([]TrailPoint, 0, maxLength),
		MaxLength: maxLength,
		Fade:      fade,
	}
}

// Push 记录新位置，超出长度时丢弃最旧的点，并衰减已有点的透明度
func (t *TrailComponent) Push(x, y float64) {
	if t.MaxLength <= 0 {
		return
	}
	for i := range t.Points {
		t.Points[i].Alpha *= t.Fade
	}
	if len(t.Points) >= t.MaxLength {
		copy(t.Points, t.Points[1:])
		t.Points = t.Points[:len(t.Points)-1]
	}
	t.Points = append(t.Points, TrailPoint{X: x, Y: y, Alpha: 1})
}
