package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/decker502/vibedefense/pkg/event"
	"github.com/decker502/vibedefense/pkg/game"
)

// 标签取值都是有限集合（事件类型、敌人/防御塔类型、拒绝原因）
var (
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "td_tick_duration_seconds",
		Help:    "Time spent in one simulation step",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025},
	})

	eventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "td_events_total",
		Help: "Game events delivered by the event queue",
	}, []string{"type"})

	enemiesKilled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "td_enemies_killed_total",
		Help: "Enemies killed, by enemy type",
	}, []string{"enemy"})

	enemiesLeaked = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "td_enemies_leaked_total",
		Help: "Enemies that reached the end of the path, by enemy type",
	}, []string{"enemy"})

	towersPlaced = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "td_towers_placed_total",
		Help: "Towers placed, by tower type",
	}, []string{"tower"})

	waveGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "td_wave",
		Help: "Current wave number",
	})

	moneyGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "td_money",
		Help: "Current money",
	})

	livesGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "td_lives",
		Help: "Remaining lives",
	})

	enemyGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "td_enemies_active",
		Help: "Enemies alive on the path",
	})

	projectileGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "td_projectiles_active",
		Help: "Projectiles in flight",
	})

	connectionRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "td_connection_rejected_total",
		Help: "Requests rejected by rate limiter or connection limits",
	}, []string{"reason"})

	wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "td_websocket_connections_active",
		Help: "Currently active WebSocket connections",
	})

	wsMessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "td_websocket_messages_total",
		Help: "Total WebSocket messages broadcast",
	})
)

// EventMetrics 订阅事件队列，把游戏事件计入 Prometheus 计数器
type EventMetrics struct{}

// OnEvent 实现 event.Listener
func (EventMetrics) OnEvent(e event.Event) {
	eventsTotal.WithLabelValues(string(e.Type)).Inc()
	switch e.Type {
	case event.EnemyKilled:
		enemiesKilled.WithLabelValues(e.EnemyType.String()).Inc()
	case event.EnemyReachedEnd:
		enemiesLeaked.WithLabelValues(e.EnemyType.String()).Inc()
	case event.TowerPlaced:
		towersPlaced.WithLabelValues(e.TowerType.String()).Inc()
	}
}

// RecordTick 记录一次模拟步进耗时
func RecordTick(d time.Duration) {
	tickDuration.Observe(d.Seconds())
}

// ObserveSnapshot 用快照更新仪表盘类指标
func ObserveSnapshot(snap game.Snapshot) {
	waveGauge.Set(float64(snap.Wave))
	moneyGauge.Set(float64(snap.Money))
	livesGauge.Set(float64(snap.Lives))
	enemyGauge.Set(float64(len(snap.Enemies)))
	projectileGauge.Set(float64(len(snap.Projectiles)))
}

// RecordConnectionRejected 记录被拒绝的请求
func RecordConnectionRejected(reason string) {
	connectionRejected.WithLabelValues(reason).Inc()
}

// UpdateWSConnections 更新活跃 WebSocket 连接数
func UpdateWSConnections(count int) {
	wsConnectionsActive.Set(float64(count))
}

// IncrementWSMessages 广播计数加一
func IncrementWSMessages() {
	wsMessagesTotal.Inc()
}
