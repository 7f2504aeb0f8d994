// Package types 定义共享的基础类型
// 这个包不依赖任何其他业务包，用于解决循环引用问题
package types

import "fmt"

// EnemyType 定义敌人的类型
type EnemyType int

const (
	// EnemyUnknown 未知敌人类型
	EnemyUnknown EnemyType = iota
	// EnemyBasic 普通敌人
	EnemyBasic
	// EnemySpeed 快速敌人（带拖尾）
	EnemySpeed
	// EnemyArmored 装甲敌人（按比例减伤）
	EnemyArmored
	// EnemyLayered 多层敌人（层数由生命比例推导）
	EnemyLayered
	// EnemyBoss Boss 敌人
	EnemyBoss
)

// AllEnemyTypes 返回所有有效的敌人类型，按解锁顺序排列
func AllEnemyTypes() []EnemyType {
	return []EnemyType{EnemyBasic, EnemySpeed, EnemyArmored, EnemyLayered, EnemyBoss}
}

// String 返回敌人类型的字符串表示（与配置文件中的键一致）
func (e EnemyType) String() string {
	switch e {
	case EnemyBasic:
		return "basic"
	case EnemySpeed:
		return "speed"
	case EnemyArmored:
		return "armored"
	case EnemyLayered:
		return "layered"
	case EnemyBoss:
		return "boss"
	default:
		return "unknown"
	}
}

// ParseEnemyType 将配置字符串解析为 EnemyType
func ParseEnemyType(s string) (EnemyType, error) {
	for _, t := range AllEnemyTypes() {
		if t.String() == s {
			return t, nil
		}
	}
	return EnemyUnknown, fmt.Errorf("unknown enemy type %q", s)
}

// MarshalText 实现 encoding.TextMarshaler，用于 YAML/JSON 序列化
func (e EnemyType) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler
func (e *EnemyType) UnmarshalText(text []byte) error {
	t, err := ParseEnemyType(string(text))
	if err != nil {
		return err
	}
	*e = t
	return nil
}
