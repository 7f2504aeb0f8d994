package config

// 游戏全局常量
// 本文件定义了窗口尺寸、帧率、放置规则和经济初始值

// AppName gdata 存档目录名
const AppName = "vibedefense"

// Window & Tick (窗口与帧)
const (
	// GameWindowWidth 逻辑屏幕宽度，同时是场地宽度
	GameWindowWidth = 800

	// GameWindowHeight 逻辑屏幕高度
	GameWindowHeight = 600

	// HUDHeight 顶部状态栏高度，场地从其下方开始
	HUDHeight = 40

	// TickRate 模拟帧率（每秒帧数）
	// 敌人和投射物的速度以“每帧单位”计量
	TickRate = 60

	// TickDuration 每帧时长（秒）
	TickDuration = 1.0 / TickRate

	// MaxDeltaTime 单次更新允许的最大时间步长（秒）
	// 窗口拖动或断点恢复后防止一次性追帧过多
	MaxDeltaTime = 0.25
)

// Placement (放置规则)
const (
	// PathWidth 路径绘制宽度（像素）
	PathWidth = 30.0

	// TowerSize 防御塔占地边长（像素）
	TowerSize = 30.0

	// MinPathDistance 塔中心到路径的最小距离
	// 路径半宽 + 塔半边长
	MinPathDistance = PathWidth/2 + TowerSize/2

	// MinTowerSpacing 两座塔中心的最小距离
	MinTowerSpacing = TowerSize
)

// Economy (经济初始值)
const (
	// DefaultStartingMoney 默认初始金钱
	DefaultStartingMoney = 500

	// DefaultStartingLives 默认初始生命
	DefaultStartingLives = 20

	// DefaultAutoWaveDelay 自动开始下一波前的等待时间（秒），0 表示关闭
	DefaultAutoWaveDelay = 5.0

	// AchievementSaveInterval 统计数据自动保存间隔（秒）
	AchievementSaveInterval = 30.0
)
