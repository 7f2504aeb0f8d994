package entities

import "errors"

var (
	// ErrInvalidPath 路径少于两个路点
	ErrInvalidPath = errors.New("path requires at least two waypoints")
	// ErrInvalidDamage 伤害值为负数或 NaN
	ErrInvalidDamage = errors.New("damage must be a non-negative number")
	// ErrInvalidEnemyStats 敌人属性非法（生命、速度、护甲）
	ErrInvalidEnemyStats = errors.New("invalid enemy stats")
	// ErrInvalidTowerStats 防御塔属性非法（射程、伤害、射击间隔）
	ErrInvalidTowerStats = errors.New("invalid tower stats")
)
