package search

import (
	"sync"
	"time"
)

type View[T any] struct {
	Query   string `json:"query"`
	Pending string `json:"pending"` // 已输入但还没生效的查询
	Items   []T    `json:"items"`
}

// LiveFilter 保存一份列表快照和当前的过滤结果。
// 数据变化时立即重新过滤，查询变化则经过防抖之后才生效。
type LiveFilter[T any] struct {
	mu        sync.RWMutex
	name      func(T) string
	debouncer *Debouncer

	items    []T
	query    string
	pending  string
	filtered []T
}

func NewLiveFilter[T any](delay time.Duration, name func(T) string) *LiveFilter[T] {
	return &LiveFilter[T]{
		name:      name,
		debouncer: NewDebouncer(delay),
		filtered:  []T{},
	}
}

func (f *LiveFilter[T]) SetItems(items []T) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.items = append([]T(nil), items...)
	f.filtered = Filter(f.items, f.query, f.name)
}

func (f *LiveFilter[T]) SetQuery(query string) {
	f.mu.Lock()
	f.pending = query
	f.mu.Unlock()

	f.debouncer.Do(func() {
		f.apply(query)
	})
}

// Flush 跳过防抖立即应用最后一次输入
func (f *LiveFilter[T]) Flush() {
	f.debouncer.Stop()

	f.mu.RLock()
	query := f.pending
	f.mu.RUnlock()

	f.apply(query)
}

func (f *LiveFilter[T]) apply(query string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.query = query
	f.filtered = Filter(f.items, f.query, f.name)
}

func (f *LiveFilter[T]) View() View[T] {
	f.mu.RLock()
	defer f.mu.RUnlock()

	items := make([]T, len(f.filtered))
	copy(items, f.filtered)
	return View[T]{Query: f.query, Pending: f.pending, Items: items}
}

func (f *LiveFilter[T]) Close() {
	f.debouncer.Stop()
}
