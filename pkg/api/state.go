package api

import (
	"sync"

	"github.com/decker502/vibedefense/pkg/game"
)

// StateSource API 层读取快照所需的最小接口
type StateSource interface {
	// Latest 返回最近一次发布的快照；尚未发布时 ok 为 false
	Latest() (snap game.Snapshot, ok bool)
	// Version 返回发布次数，客户端据此判断快照是否更新
	Version() uint64
}

// SnapshotHolder 保存模拟线程最近发布的快照
//
// 模拟线程调用 Publish，HTTP 处理函数调用 Latest。
// 快照本身是深拷贝，读者拿到后可以随意使用。
type SnapshotHolder struct {
	mu        sync.RWMutex
	snap      game.Snapshot
	published bool
	version   uint64
}

// NewSnapshotHolder 创建空的快照容器
func NewSnapshotHolder() *SnapshotHolder {
	return &SnapshotHolder{}
}

// Publish 替换当前快照
func (h *SnapshotHolder) Publish(snap game.Snapshot) {
	h.mu.Lock()
	h.snap = snap
	h.published = true
	h.version++
	h.mu.Unlock()
}

// Latest 实现 StateSource
func (h *SnapshotHolder) Latest() (game.Snapshot, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snap, h.published
}

// Version 返回发布次数
func (h *SnapshotHolder) Version() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.version
}
