package render

import (
	"image/color"
	"math"

	"github.com/decker502/vibedefense/pkg/types"
	"github.com/decker502/vibedefense/pkg/utils"
)

// 场景配色
var (
	BackgroundColor = color.NRGBA{R: 39, G: 55, B: 45, A: 255}
	PathColor       = color.NRGBA{R: 52, G: 73, B: 94, A: 255}
	PathEdgeColor   = color.NRGBA{R: 44, G: 62, B: 80, A: 255}
	PathStartColor  = color.NRGBA{R: 46, G: 204, B: 113, A: 255}
	PathEndColor    = color.NRGBA{R: 231, G: 76, B: 60, A: 255}

	TowerBaseColor  = color.NRGBA{R: 85, G: 85, B: 85, A: 255}
	RangeColor      = color.NRGBA{R: 74, G: 144, B: 226, A: 255}
	InvalidColor    = color.NRGBA{R: 231, G: 76, B: 60, A: 255}
	ValidColor      = color.NRGBA{R: 46, G: 204, B: 113, A: 255}
	HealthBackColor = color.NRGBA{R: 255, G: 0, B: 0, A: 255}
	HealthFillColor = color.NRGBA{R: 0, G: 255, B: 0, A: 255}
	HealthLowColor  = color.NRGBA{R: 255, G: 200, B: 0, A: 255}
	ArmorEdgeColor  = color.NRGBA{R: 68, G: 68, B: 68, A: 255}
	BossSpikeColor  = color.NRGBA{R: 255, G: 0, B: 255, A: 255}
	BossCoreColor   = color.NRGBA{R: 255, G: 215, B: 0, A: 255}

	HUDBackColor = color.NRGBA{R: 20, G: 24, B: 28, A: 230}
	TextColor    = color.NRGBA{R: 236, G: 240, B: 241, A: 255}
	MutedColor   = color.NRGBA{R: 149, G: 165, B: 166, A: 255}
	BannerColor  = color.NRGBA{R: 0, G: 0, B: 0, A: 170}
)

// LayerColors 多层敌人由外到内的颜色
var LayerColors = []color.NRGBA{
	{R: 255, G: 0, B: 0, A: 255},
	{R: 0, G: 255, B: 0, A: 255},
	{R: 0, G: 0, B: 255, A: 255},
}

// EnemyColor 敌人主体颜色
func EnemyColor(t types.EnemyType) color.NRGBA {
	switch t {
	case types.EnemySpeed:
		return color.NRGBA{R: 255, G: 255, B: 0, A: 255}
	case types.EnemyArmored:
		return color.NRGBA{R: 136, G: 136, B: 136, A: 255}
	case types.EnemyLayered:
		return LayerColors[0]
	case types.EnemyBoss:
		return color.NRGBA{R: 128, G: 0, B: 128, A: 255}
	default:
		return color.NRGBA{R: 255, G: 68, B: 68, A: 255}
	}
}

// TowerColor 防御塔颜色
func TowerColor(t types.TowerType) color.NRGBA {
	switch t {
	case types.TowerSniper:
		return color.NRGBA{R: 155, G: 89, B: 182, A: 255}
	case types.TowerRapid:
		return color.NRGBA{R: 46, G: 204, B: 113, A: 255}
	case types.TowerChain:
		return color.NRGBA{R: 241, G: 196, B: 15, A: 255}
	default:
		return color.NRGBA{R: 52, G: 152, B: 219, A: 255}
	}
}

// ProjectileColor 投射物颜色
func ProjectileColor(t types.ProjectileType) color.NRGBA {
	switch t {
	case types.ProjectilePiercing:
		return color.NRGBA{R: 155, G: 89, B: 182, A: 255}
	case types.ProjectileMultiShot:
		return color.NRGBA{R: 46, G: 204, B: 113, A: 255}
	case types.ProjectileChain:
		return color.NRGBA{R: 241, G: 196, B: 15, A: 255}
	default:
		return color.NRGBA{R: 52, G: 152, B: 219, A: 255}
	}
}

// Fade 按比例缩放透明度，alpha 限制在 [0,1]
func Fade(c color.NRGBA, alpha float64) color.NRGBA {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	c.A = uint8(float64(c.A) * alpha)
	return c
}

// HealthColor 血条填充色，满血为绿色，接近死亡时过渡到黄色
func HealthColor(fraction float64) color.NRGBA {
	return mixColor(HealthLowColor, HealthFillColor, utils.Clamp01(fraction))
}

func mixColor(a, b color.NRGBA, t float64) color.NRGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(utils.Lerp(float64(x), float64(y), t)))
	}
	return color.NRGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}
