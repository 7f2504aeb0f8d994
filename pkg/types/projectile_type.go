package types

// ProjectileType 定义投射物的类型
type ProjectileType int

const (
	// ProjectileDirect 追踪弹，每帧重新瞄准目标
	ProjectileDirect ProjectileType = iota
	// ProjectilePiercing 穿透弹，沿固定方向直线飞行
	ProjectilePiercing
	// ProjectileMultiShot 散射粒子，径向扩散
	ProjectileMultiShot
	// ProjectileChain 弹跳弹，命中后跳向最近的未命中敌人
	ProjectileChain
)

// String 返回投射物类型的字符串表示
func (p ProjectileType) String() string {
	switch p {
	case ProjectileDirect:
		return "direct"
	case ProjectilePiercing:
		return "piercing"
	case ProjectileMultiShot:
		return "multishot"
	case ProjectileChain:
		return "chain"
	default:
		return "unknown"
	}
}

// MarshalText 实现 encoding.TextMarshaler
func (p ProjectileType) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
