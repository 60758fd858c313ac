// Package registry 实现 Block / Room / Shift / Doctor 四个相互独立的有序注册表。
//
// 每个注册表保持插入顺序，并且自己维护一个单调递增的 id 序列：
// 被删除的记录的 id 永远不会再被分配。
package registry

import "slices"

type Entity interface {
	GetID() int64
	DisplayName() string
}

type Collection[T Entity] struct {
	items []T
	seq   int64
}

// NewCollection 的 seq 为上一次分配出去的 id，会与已有记录的最大 id 取较大值
func NewCollection[T Entity](items []T, seq int64) *Collection[T] {
	c := &Collection[T]{
		items: slices.Clone(items),
		seq:   seq,
	}
	for _, item := range c.items {
		c.seq = max(c.seq, item.GetID())
	}
	return c
}

func (c *Collection[T]) List() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Collection[T]) Len() int { return len(c.items) }

func (c *Collection[T]) Seq() int64 { return c.seq }

func (c *Collection[T]) Get(id int64) (T, bool) {
	for _, item := range c.items {
		if item.GetID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func (c *Collection[T]) nextID() int64 {
	c.seq++
	return c.seq
}

func (c *Collection[T]) add(item T) {
	c.items = append(c.items, item)
}

// replace 原地替换，保持记录在注册表中的位置
func (c *Collection[T]) replace(item T) bool {
	for i := range c.items {
		if c.items[i].GetID() == item.GetID() {
			c.items[i] = item
			return true
		}
	}
	return false
}

// Remove 是幂等的，返回值表示是否真的删除了记录
func (c *Collection[T]) Remove(id int64) bool {
	before := len(c.items)
	c.items = slices.DeleteFunc(c.items, func(item T) bool {
		return item.GetID() == id
	})
	return len(c.items) != before
}
