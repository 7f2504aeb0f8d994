// Package ecs 提供实体标识和按插入顺序存储实体的管理器
package ecs

// EntityID 是实体的唯一标识符
// 0 保留为无效ID，用于表示“无目标”
type EntityID uint64

// InvalidEntity 表示空引用
const InvalidEntity EntityID = 0

// EntityManager 管理同一类实体
//
// 实体按插入顺序存储，遍历顺序即插入顺序（防御塔的“先找到先锁定”目标策略依赖此顺序）。
// 其他组件只持有 EntityID，通过 GetEntity 查找，实体被移除后查找自然失败。
type EntityManager[T any] struct {
	nextID   uint64
	entities map[EntityID]T
	order    []EntityID
	// 待删除的实体ID列表
	entitiesToDestroy []EntityID
}

// NewEntityManager 创建一个新的 EntityManager 实例
func NewEntityManager[T any]() *EntityManager[T] {
	return &EntityManager[T]{
		nextID:            1, // ID从1开始,0保留为无效ID
		entities:          make(map[EntityID]T),
		order:             make([]EntityID, 0),
		entitiesToDestroy: make([]EntityID, 0),
	}
}

// CreateEntity 分配新的唯一ID（尚未关联实体）
func (em *EntityManager[T]) CreateEntity() EntityID {
	id := EntityID(em.nextID)
	em.nextID++
	return id
}

// AddEntity 将实体关联到ID并追加到遍历顺序末尾
// 重复添加同一ID只替换实体，不改变顺序
func (em *EntityManager[T]) AddEntity(id EntityID, entity T) {
	if _, exists := em.entities[id]; !exists {
		em.order = append(em.order, id)
	}
	em.entities[id] = entity
}

// GetEntity 按ID查找实体
func (em *EntityManager[T]) GetEntity(id EntityID) (T, bool) {
	entity, ok := em.entities[id]
	return entity, ok
}

// HasEntity 检查实体是否仍然存在
func (em *EntityManager[T]) HasEntity(id EntityID) bool {
	_, ok := em.entities[id]
	return ok
}

// DestroyEntity 标记实体待删除(不立即删除)
func (em *EntityManager[T]) DestroyEntity(id EntityID) {
	em.entitiesToDestroy = append(em.entitiesToDestroy, id)
}

// RemoveMarkedEntities 清理所有标记删除的实体，返回实际删除的数量
func (em *EntityManager[T]) RemoveMarkedEntities() int {
	if len(em.entitiesToDestroy) == 0 {
		return 0
	}

	removed := 0
	for _, id := range em.entitiesToDestroy {
		if _, ok := em.entities[id]; ok {
			delete(em.entities, id)
			removed++
		}
	}
	em.entitiesToDestroy = em.entitiesToDestroy[:0] // 清空切片

	// 压缩遍历顺序
	kept := em.order[:0]
	for _, id := range em.order {
		if _, ok := em.entities[id]; ok {
			kept = append(kept, id)
		}
	}
	em.order = kept
	return removed
}

// Each 按插入顺序遍历实体，fn 返回 false 时停止
// 遍历期间不可调用 AddEntity，删除请使用 DestroyEntity
func (em *EntityManager[T]) Each(fn func(id EntityID, entity T) bool) {
	for _, id := range em.order {
		entity, ok := em.entities[id]
		if !ok {
			continue
		}
		if !fn(id, entity) {
			return
		}
	}
}

// Entities 返回按插入顺序排列的实体ID副本
func (em *EntityManager[T]) Entities() []EntityID {
	ids := make([]EntityID, len(em.order))
	copy(ids, em.order)
	return ids
}

// Len 返回当前实体数量（包含已标记但尚未清理的实体）
func (em *EntityManager[T]) Len() int {
	return len(em.entities)
}

// Clear 删除所有实体，ID计数器不重置
func (em *EntityManager[T]) Clear() {
	em.entities = make(map[EntityID]T)
	em.order = em.order[:0]
	em.entitiesToDestroy = em.entitiesToDestroy[:0]
}
