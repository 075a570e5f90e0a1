package store

import (
	"sync"
)

// MemoryBlobs 内存键值存储，用于测试
type MemoryBlobs struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryBlobs 创建内存键值存储
func NewMemoryBlobs() *MemoryBlobs {
	return &MemoryBlobs{data: make(map[string][]byte)}
}

// Get 按 key 读取
func (m *MemoryBlobs) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[key]
	return value, ok, nil
}

// Put 整体覆盖写入
func (m *MemoryBlobs) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	m.data[key] = cp
	return nil
}
