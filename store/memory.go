package store

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/rushteam/catrec/core"
)

// DefaultMemoryCapacity 是 MemoryStore 默认最多保存的 key 数量。
const DefaultMemoryCapacity = 10000

// MemoryStore 是进程内的 LRU Store，带可选 TTL，适合单进程部署与测试。
//
// 写满后淘汰最久未访问的 key；过期 key 在访问时惰性删除。
type MemoryStore struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // Front 为最近访问
	items    map[string]*list.Element
	now      func() time.Time
}

type memEntry struct {
	key      string
	value    []byte
	deadline time.Time // 零值表示不过期
}

// MemoryOption 配置 MemoryStore。
type MemoryOption func(*MemoryStore)

// WithCapacity 设置容量上限，<= 0 时使用 DefaultMemoryCapacity。
func WithCapacity(n int) MemoryOption {
	return func(m *MemoryStore) {
		if n > 0 {
			m.capacity = n
		}
	}
}

var _ core.Store = (*MemoryStore)(nil)

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	m := &MemoryStore{
		capacity: DefaultMemoryCapacity,
		order:    list.New(),
		items:    make(map[string]*list.Element),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MemoryStore) Name() string { return "memory" }

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.lookup(key, m.now())
	if !ok {
		return nil, ErrNotFound
	}
	return v, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl ...int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(key, value, deadline(m.now(), ttl))
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if el, ok := m.items[key]; ok {
		m.remove(el)
	}
	return nil
}

func (m *MemoryStore) BatchGet(_ context.Context, keys []string) (map[string][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	out := make(map[string][]byte, len(keys))
	for _, k := range keys {
		if v, ok := m.lookup(k, now); ok {
			out[k] = v
		}
	}
	return out, nil
}

func (m *MemoryStore) BatchSet(_ context.Context, kvs map[string][]byte, ttl ...int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := deadline(m.now(), ttl)
	for k, v := range kvs {
		m.put(k, v, d)
	}
	return nil
}

// Len 返回当前保存的 key 数量（含尚未被惰性删除的过期 key）。
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Close 清空数据。
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.order.Init()
	m.items = make(map[string]*list.Element)
	return nil
}

// lookup 返回值的拷贝，并把 key 移到最近访问。调用方持有锁。
func (m *MemoryStore) lookup(key string, now time.Time) ([]byte, bool) {
	el, ok := m.items[key]
	if !ok {
		return nil, false
	}
	e := el.Value.(*memEntry)
	if !e.deadline.IsZero() && !now.Before(e.deadline) {
		m.remove(el)
		return nil, false
	}
	m.order.MoveToFront(el)
	return append([]byte(nil), e.value...), true
}

func (m *MemoryStore) put(key string, value []byte, d time.Time) {
	value = append([]byte(nil), value...)
	if el, ok := m.items[key]; ok {
		e := el.Value.(*memEntry)
		e.value, e.deadline = value, d
		m.order.MoveToFront(el)
		return
	}
	m.items[key] = m.order.PushFront(&memEntry{key: key, value: value, deadline: d})
	for len(m.items) > m.capacity {
		m.remove(m.order.Back())
	}
}

func (m *MemoryStore) remove(el *list.Element) {
	m.order.Remove(el)
	delete(m.items, el.Value.(*memEntry).key)
}

func deadline(now time.Time, ttl []int) time.Time {
	if len(ttl) == 0 || ttl[0] <= 0 {
		return time.Time{}
	}
	return now.Add(time.Duration(ttl[0]) * time.Second)
}
