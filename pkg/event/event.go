// Package event 提供按帧排空的事件队列
//
// 模拟过程中各系统只调用 Publish 入队；每帧结束时由 Simulation 调用一次 Drain，
// 按发布顺序投递给订阅者。投递期间新发布的事件留到下一次 Drain。
package event

import (
	"github.com/decker502/vibedefense/pkg/ecs"
	"github.com/decker502/vibedefense/pkg/types"
)

// Type 事件类型
type Type string

const (
	EnemySpawned    Type = "enemy_spawned"
	EnemyKilled     Type = "enemy_killed"
	EnemyReachedEnd Type = "enemy_reached_end"
	WaveStarted     Type = "wave_started"
	WaveCompleted   Type = "wave_completed"
	TowerPlaced     Type = "tower_placed"
	TowerUpgraded   Type = "tower_upgraded"
	PowerUpBought   Type = "power_up_bought"
	GameOver        Type = "game_over"
	LevelComplete   Type = "level_complete"

	AchievementUnlocked Type = "achievement_unlocked"
)

// Event 事件数据，未使用的字段为零值
type Event struct {
	Type Type   `json:"type"`
	Tick uint64 `json:"tick"`
	Wave int    `json:"wave,omitempty"`

	EnemyID   ecs.EntityID    `json:"enemyId,omitempty"`
	EnemyType types.EnemyType `json:"enemyType,omitempty"`
	TowerID   ecs.EntityID    `json:"towerId,omitempty"`
	TowerType types.TowerType `json:"towerType,omitempty"`

	Value int     `json:"value,omitempty"` // 奖励金额或花费
	Level int     `json:"level,omitempty"`
	Name  string  `json:"name,omitempty"`
	X     float64 `json:"x,omitempty"`
	Y     float64 `json:"y,omitempty"`
}

// Listener 订阅者接口
type Listener interface {
	OnEvent(e Event)
}

// ListenerFunc 函数适配器
type ListenerFunc func(e Event)

// OnEvent 实现 Listener
func (f ListenerFunc) OnEvent(e Event) {
	f(e)
}

// Subscription 订阅句柄，用于取消订阅
type Subscription uint64

type subscriber struct {
	id       Subscription
	listener Listener
}

// Bus 事件队列
type Bus struct {
	nextID    Subscription
	listeners map[Type][]subscriber
	wildcard  []subscriber
	queue     []Event
	spare     []Event
	tick      uint64
}

// NewBus 创建空的事件队列
func NewBus() *Bus {
	return &Bus{
		nextID:    1,
		listeners: make(map[Type][]subscriber),
	}
}

// Subscribe 订阅指定类型的事件
func (b *Bus) Subscribe(eventType Type, listener Listener) Subscription {
	id := b.nextID
	b.nextID++
	b.listeners[eventType] = append(b.listeners[eventType], subscriber{id: id, listener: listener})
	return id
}

// SubscribeAll 订阅所有事件
func (b *Bus) SubscribeAll(listener Listener) Subscription {
	id := b.nextID
	b.nextID++
	b.wildcard = append(b.wildcard, subscriber{id: id, listener: listener})
	return id
}

// Unsubscribe 取消订阅
func (b *Bus) Unsubscribe(id Subscription) {
	for t, subs := range b.listeners {
		b.listeners[t] = removeSubscriber(subs, id)
	}
	b.wildcard = removeSubscriber(b.wildcard, id)
}

func removeSubscriber(subs []subscriber, id Subscription) []subscriber {
	for i, s := range subs {
		if s.id == id {
			return append(subs[:i], subs[i+1:]...)
		}
	}
	return subs
}

// SetTick 设置当前帧号，之后发布的事件都带上该帧号
func (b *Bus) SetTick(tick uint64) {
	b.tick = tick
}

// Publish 入队，不立即投递
func (b *Bus) Publish(e Event) {
	e.Tick = b.tick
	b.queue = append(b.queue, e)
}

// Pending 返回尚未投递的事件数量
func (b *Bus) Pending() int {
	return len(b.queue)
}

// Drain 按发布顺序投递当前队列中的所有事件，返回投递数量
func (b *Bus) Drain() int {
	if len(b.queue) == 0 {
		return 0
	}

	batch := b.queue
	b.queue = b.spare[:0]
	b.spare = nil

	for _, e := range batch {
		for _, s := range b.listeners[e.Type] {
			s.listener.OnEvent(e)
		}
		for _, s := range b.wildcard {
			s.listener.OnEvent(e)
		}
	}

	n := len(batch)
	b.spare = batch[:0]
	return n
}
