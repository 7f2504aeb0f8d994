package components

// LifetimeComponent 以帧数计量的生命周期
// 用于穿透弹、散射粒子等有限存在时间的实体
type LifetimeComponent struct {
	MaxTicks       int // 最大存在帧数
	RemainingTicks int // 剩余帧数
}

// NewLifetime 创建满额的生命周期
func NewLifetime(ticks int) LifetimeComponent {
	return LifetimeComponent{MaxTicks: ticks, RemainingTicks: ticks}
}

// Tick 消耗一帧，返回是否已经过期
func (l *LifetimeComponent) Tick() bool {
	if l.RemainingTicks > 0 {
		l.RemainingTicks--
	}
	return l.RemainingTicks <= 0
}

// Expired 返回是否已过期
func (l LifetimeComponent) Expired() bool {
	return l.RemainingTicks <= 0
}

// Fraction 返回剩余生命比例，渲染层用于透明度渐隐
func (l LifetimeComponent) Fraction() float64 {
	if l.MaxTicks <= 0 {
		return 0
	}
	return float64(l.RemainingTicks) / float64(l.MaxTicks)
}
