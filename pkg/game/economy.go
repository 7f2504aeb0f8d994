package game

import (
	"fmt"
	"log"

	"github.com/decker502/vibedefense/pkg/event"
)

// Economy 金钱、生命和分数
//
// 通过事件队列接收击杀和漏怪：击杀获得敌人的奖励（双倍收入时翻倍），
// 漏怪扣一条命，生命归零时发布 GameOver。
type Economy struct {
	bus *event.Bus

	money  int
	lives  int
	score  int
	earned int

	doubleIncome bool
	gameOver     bool
}

// NewEconomy 创建经济系统并订阅击杀和漏怪事件
func NewEconomy(bus *event.Bus, money, lives int) *Economy {
	e := &Economy{
		bus:   bus,
		money: money,
		lives: lives,
	}
	bus.Subscribe(event.EnemyKilled, e)
	bus.Subscribe(event.EnemyReachedEnd, e)
	return e
}

// OnEvent 实现 event.Listener
func (e *Economy) OnEvent(ev event.Event) {
	if e.gameOver {
		return
	}

	switch ev.Type {
	case event.EnemyKilled:
		reward := ev.Value
		if e.doubleIncome {
			reward *= 2
		}
		e.Earn(reward)
		e.score += ev.Value

	case event.EnemyReachedEnd:
		e.lives--
		if e.lives <= 0 {
			e.lives = 0
			e.gameOver = true
			e.bus.Publish(event.Event{Type: event.GameOver, Wave: ev.Wave, Value: e.score})
			log.Printf("[Economy] Game over on wave %d, score %d", ev.Wave, e.score)
		}
	}
}

// Money 当前金钱
func (e *Economy) Money() int { return e.money }

// Lives 剩余生命
func (e *Economy) Lives() int { return e.lives }

// Score 当前分数（击杀奖励之和，不受双倍收入影响）
func (e *Economy) Score() int { return e.score }

// Earned 本局累计获得的金钱
func (e *Economy) Earned() int { return e.earned }

// IsGameOver 生命是否已归零
func (e *Economy) IsGameOver() bool { return e.gameOver }

// DoubleIncome 是否启用双倍收入
func (e *Economy) DoubleIncome() bool { return e.doubleIncome }

// SetDoubleIncome 启用或关闭双倍收入
func (e *Economy) SetDoubleIncome(enabled bool) {
	e.doubleIncome = enabled
}

// CanAfford 是否付得起
func (e *Economy) CanAfford(cost int) bool {
	return cost <= e.money
}

// Earn 增加金钱
func (e *Economy) Earn(amount int) {
	if amount <= 0 {
		return
	}
	e.money += amount
	e.earned += amount
}

// Spend 扣除金钱
// 金钱不足返回 ErrInsufficientFunds，游戏结束后返回 ErrGameOver
func (e *Economy) Spend(cost int) error {
	if e.gameOver {
		return ErrGameOver
	}
	if cost < 0 {
		return fmt.Errorf("invalid cost %d", cost)
	}
	if cost > e.money {
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientFunds, cost, e.money)
	}
	e.money -= cost
	return nil
}
