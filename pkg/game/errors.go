package game

import "errors"

var (
	// ErrInsufficientFunds 金钱不足
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrMaxLevelReached 已满级（防御塔或商店强化）
	ErrMaxLevelReached = errors.New("max level reached")

	// ErrPlacementBlocked 放置位置不合法
	ErrPlacementBlocked = errors.New("placement blocked")

	// ErrGameOver 游戏已结束
	ErrGameOver = errors.New("game over")

	// ErrLevelComplete 已通关，不再开始新的波次
	ErrLevelComplete = errors.New("level complete")

	// ErrWaveInProgress 当前波次尚未结束
	ErrWaveInProgress = errors.New("wave in progress")

	ErrUnknownTower    = errors.New("unknown tower")
	ErrUnknownShopItem = errors.New("unknown shop item")
	ErrUnknownLevel    = errors.New("unknown level")
)
