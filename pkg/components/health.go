package components

// HealthComponent 存储实体的生命值信息
// 用于敌人等可被攻击的实体
type HealthComponent struct {
	CurrentHealth float64 // 当前生命值，不会低于 0
	MaxHealth     float64 // 最大生命值
}

// Fraction 返回当前生命比例 [0,1]，供渲染层绘制血条
func (h HealthComponent) Fraction() float64 {
	if h.MaxHealth <= 0 {
		return 0
	}
	f := h.CurrentHealth / h.MaxHealth
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
