package app

import (
	"errors"
	"fmt"
	"log"

	"github.com/decker502/vibedefense/pkg/ecs"
	"github.com/decker502/vibedefense/pkg/event"
	"github.com/decker502/vibedefense/pkg/game"
	"github.com/decker502/vibedefense/pkg/render"
	"github.com/decker502/vibedefense/pkg/types"
	"github.com/decker502/vibedefense/pkg/utils"
)

const (
	// messageDuration 状态消息显示时长（秒）
	messageDuration = 2.5
	// messageFadeTime 消息在最后多少秒内淡出
	messageFadeTime = 0.6
)

// Controller 把玩家操作翻译成对 Simulation 的调用
//
// 不依赖 ebiten 输入，App 读取键鼠后调用这里的方法。
type Controller struct {
	sim        *game.Simulation
	placement  *game.PlacementSession
	selected   ecs.EntityID
	message    string
	messageTTL float64
}

// NewController 创建控制器并订阅需要提示玩家的事件
func NewController(sim *game.Simulation) *Controller {
	c := &Controller{sim: sim}
	sim.Bus().Subscribe(event.AchievementUnlocked, event.ListenerFunc(func(e event.Event) {
		c.notify(fmt.Sprintf("Achievement unlocked: %s", e.Name))
	}))
	sim.Bus().Subscribe(event.WaveStarted, event.ListenerFunc(func(e event.Event) {
		c.notify(fmt.Sprintf("Wave %d: %d enemies", e.Wave, e.Value))
	}))
	return c
}

// Simulation 返回当前模拟
func (c *Controller) Simulation() *game.Simulation { return c.sim }

// Placement 返回当前放置会话，不在放置模式时为 nil
func (c *Controller) Placement() *game.PlacementSession { return c.placement }

// Selected 当前选中的防御塔，0 表示未选中
func (c *Controller) Selected() ecs.EntityID { return c.selected }

// Message 当前状态消息
func (c *Controller) Message() string { return c.message }

// Update 推进消息计时
func (c *Controller) Update(dt float64) {
	if c.messageTTL <= 0 {
		return
	}
	c.messageTTL -= dt
	if c.messageTTL <= 0 {
		c.message = ""
	}
}

func (c *Controller) notify(msg string) {
	c.message = msg
	c.messageTTL = messageDuration
}

func (c *Controller) fail(err error) {
	log.Printf("[Controller] %v", err)
	c.notify(describeError(err))
}

// describeError 把领域错误转换为界面提示
func describeError(err error) string {
	switch {
	case errors.Is(err, game.ErrInsufficientFunds):
		return "Not enough money"
	case errors.Is(err, game.ErrPlacementBlocked):
		return "Can't place a tower there"
	case errors.Is(err, game.ErrMaxLevelReached):
		return "Already at max level"
	case errors.Is(err, game.ErrWaveInProgress):
		return "Wave already in progress"
	case errors.Is(err, game.ErrGameOver):
		return "Game over"
	case errors.Is(err, game.ErrLevelComplete):
		return "Level complete"
	default:
		return err.Error()
	}
}

// SelectTowerType 进入放置模式；再次选择同一类型时退出
func (c *Controller) SelectTowerType(t types.TowerType) {
	if c.placement != nil && c.placement.TowerType() == t {
		c.placement = nil
		return
	}
	p, err := c.sim.BeginPlacement(t)
	if err != nil {
		c.fail(err)
		return
	}
	if x, y := c.cursor(); x >= 0 {
		c.sim.MovePlacement(p, x, y)
	}
	c.placement = p
	c.selected = 0
}

// cursor 返回放置会话中的光标位置，无会话时为 (-1, -1)
func (c *Controller) cursor() (float64, float64) {
	if c.placement == nil {
		return -1, -1
	}
	return c.placement.Position()
}

// MoveCursor 光标移动
func (c *Controller) MoveCursor(x, y float64) {
	if c.placement != nil {
		c.sim.MovePlacement(c.placement, x, y)
	}
}

// Click 左键：放置模式下放置防御塔，否则选中光标下的防御塔
func (c *Controller) Click(x, y float64) {
	if c.placement != nil {
		c.sim.MovePlacement(c.placement, x, y)
		if err := c.sim.CommitPlacement(c.placement); err != nil {
			c.fail(err)
			return
		}
		c.placement = nil
		return
	}

	if t, ok := c.sim.TowerAt(x, y); ok {
		c.selected = t.ID
		return
	}
	c.selected = 0
}

// Cancel 退出放置模式并取消选中
func (c *Controller) Cancel() {
	c.placement = nil
	c.selected = 0
}

// UpgradeSelected 升级选中的防御塔
func (c *Controller) UpgradeSelected() {
	if c.selected == 0 {
		return
	}
	if err := c.sim.UpgradeTower(c.selected); err != nil {
		c.fail(err)
		return
	}
	if t, ok := c.sim.Tower(c.selected); ok {
		c.notify(fmt.Sprintf("%s tower upgraded to level %d", t.Type, t.Level))
	}
}

// StartWave 开始下一波
func (c *Controller) StartWave() {
	if err := c.sim.StartWave(); err != nil {
		c.fail(err)
	}
}

// BuyPowerUp 按商店顺序购买第 index 个强化
func (c *Controller) BuyPowerUp(index int) {
	items := c.sim.Shop().Items()
	if index < 0 || index >= len(items) {
		return
	}
	item := items[index]
	if err := c.sim.BuyPowerUp(item.ID); err != nil {
		c.fail(err)
		return
	}
	c.notify(fmt.Sprintf("%s level %d", item.Name, c.sim.Shop().Level(item.ID)))
}

// towerKeys 1-4 对应的防御塔类型
var towerKeys = types.AllTowerTypes()

// shopKeys 商店强化的按键标签
var shopKeys = []string{"Q", "W", "E", "R", "T"}

// Overlay 组装渲染层需要的界面状态
func (c *Controller) Overlay() render.Overlay {
	ov := render.Overlay{
		SelectedTower: c.selected,
		Message:       c.message,
		MessageFade:   1 - utils.FadeOut(c.messageTTL, messageFadeTime),
	}

	if p := c.placement; p != nil {
		x, y := p.Position()
		if x >= 0 && y >= 0 {
			ov.Placement = &render.Preview{
				TowerType: p.TowerType(),
				X:         x,
				Y:         y,
				Range:     c.sim.Units().TowerStats(p.TowerType()).Range,
				Valid:     p.Valid(),
			}
		}
	}

	ov.Hints = c.hints()
	return ov
}

func (c *Controller) hints() []string {
	var hints []string
	if c.selected != 0 {
		if t, ok := c.sim.Tower(c.selected); ok {
			if cost, ok := t.UpgradeCost(); ok {
				hints = append(hints, fmt.Sprintf("U:upgrade %s L%d $%d", t.Type, t.Level, cost))
			} else {
				hints = append(hints, fmt.Sprintf("%s L%d (max)", t.Type, t.Level))
			}
			return append(hints, "Esc:deselect")
		}
	}

	for i, t := range towerKeys {
		hints = append(hints, fmt.Sprintf("%d:%s $%d", i+1, t, c.sim.Units().TowerStats(t).Cost))
	}
	if c.placement != nil {
		hints = append(hints, "Esc:cancel")
		return hints
	}
	for i, item := range c.sim.Shop().Items() {
		if i >= len(shopKeys) {
			break
		}
		if price, err := c.sim.Shop().Price(item.ID); err == nil {
			hints = append(hints, fmt.Sprintf("%s:$%d", shopKeys[i], price))
		}
	}
	return hints
}
