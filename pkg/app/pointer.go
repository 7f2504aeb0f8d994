package app

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/decker502/vibedefense/pkg/utils"
)

// Pointer 当前帧的指针状态
// 统一处理鼠标和触摸输入，触摸优先
type Pointer struct {
	X, Y int
	// JustPressed 主按键（鼠标左键或单指触摸）刚刚按下
	JustPressed bool
	// SecondaryPressed 次按键（鼠标右键或双指触摸）刚刚按下
	SecondaryPressed bool
	// Touch 是否来自触摸
	Touch bool
}

// touchSample 一个触点的位置
type touchSample struct {
	x, y int
}

// 最后一次触摸位置，手指抬起后光标停留在这里
var lastTouchX, lastTouchY = -1, -1

// ReadPointer 读取当前帧的指针状态
// 应在每帧 Update 中调用一次
func ReadPointer() Pointer {
	var touches []touchSample
	for _, id := range ebiten.AppendTouchIDs(nil) {
		x, y := ebiten.TouchPosition(id)
		touches = append(touches, touchSample{x: x, y: y})
	}
	justTouched := len(inpututil.AppendJustPressedTouchIDs(nil))

	cx, cy := ebiten.CursorPosition()
	p := resolvePointer(touches, justTouched, cx, cy,
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight))
	if p.Touch {
		lastTouchX, lastTouchY = p.X, p.Y
	} else if len(touches) == 0 && lastTouchX >= 0 && utils.IsMobile() {
		p.X, p.Y = lastTouchX, lastTouchY
	}
	return p
}

// resolvePointer 根据触点和鼠标状态合成指针状态
//
// 单指按下等同左键，第二根手指按下等同右键；没有触点时使用鼠标。
func resolvePointer(touches []touchSample, justTouched int, cursorX, cursorY int, left, right bool) Pointer {
	if len(touches) > 0 {
		p := Pointer{X: touches[0].x, Y: touches[0].y, Touch: true}
		switch {
		case len(touches) >= 2 && justTouched > 0:
			p.SecondaryPressed = true
		case justTouched > 0:
			p.JustPressed = true
		}
		return p
	}
	return Pointer{X: cursorX, Y: cursorY, JustPressed: left, SecondaryPressed: right}
}
