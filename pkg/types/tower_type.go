package types

import "fmt"

// TowerType 定义防御塔的类型
type TowerType int

const (
	// TowerUnknown 未知防御塔类型
	TowerUnknown TowerType = iota
	// TowerBasic 基础塔
	TowerBasic
	// TowerSniper 狙击塔，满级特殊射击为穿透弹
	TowerSniper
	// TowerRapid 速射塔，满级特殊射击附带散射爆发
	TowerRapid
	// TowerChain 连锁塔，普通射击即为弹跳弹
	TowerChain
)

// AllTowerTypes 返回所有可建造的防御塔类型（与快捷键 1-4 顺序一致）
func AllTowerTypes() []TowerType {
	return []TowerType{TowerBasic, TowerSniper, TowerRapid, TowerChain}
}

// String 返回防御塔类型的字符串表示
func (t TowerType) String() string {
	switch t {
	case TowerBasic:
		return "basic"
	case TowerSniper:
		return "sniper"
	case TowerRapid:
		return "rapid"
	case TowerChain:
		return "chain"
	default:
		return "unknown"
	}
}

// ParseTowerType 将配置字符串解析为 TowerType
func ParseTowerType(s string) (TowerType, error) {
	for _, t := range AllTowerTypes() {
		if t.String() == s {
			return t, nil
		}
	}
	return TowerUnknown, fmt.Errorf("unknown tower type %q", s)
}

// MarshalText 实现 encoding.TextMarshaler
func (t TowerType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler
func (t *TowerType) UnmarshalText(text []byte) error {
	parsed, err := ParseTowerType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
