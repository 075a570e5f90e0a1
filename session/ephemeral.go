package session

import (
	"fmt"
	"time"

	"expensetracker/models"

	"github.com/dgraph-io/ristretto"
)

// EphemeralKey 本地合成会话的存储 key
const EphemeralKey = "demoUser"

// EphemeralStorage 进程内临时会话存储能力接口
// 与持久化的消费记录存储不同，进程重启后不保留
type EphemeralStorage interface {
	Load() (models.Session, bool)
	Save(s models.Session)
	Clear()
}

// CacheStorage 基于 ristretto 的临时会话存储，带 TTL 上限
type CacheStorage struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

// NewEphemeralStorage 创建临时会话存储
// ttl <= 0 时默认 12 小时
func NewEphemeralStorage(ttl time.Duration) (*CacheStorage, error) {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1000,
		MaxCost:     1000,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("初始化临时会话存储失败: %w", err)
	}
	return &CacheStorage{cache: cache, ttl: ttl}, nil
}

// Load 读取已保存的合成会话
func (c *CacheStorage) Load() (models.Session, bool) {
	value, ok := c.cache.Get(EphemeralKey)
	if !ok {
		return models.Session{}, false
	}
	s, ok := value.(models.Session)
	return s, ok
}

// Save 保存合成会话
func (c *CacheStorage) Save(s models.Session) {
	c.cache.SetWithTTL(EphemeralKey, s, 1, c.ttl)
	// ristretto 的写入是异步的，等待生效保证 Save 之后立即可读
	c.cache.Wait()
}

// Clear 清除合成会话
func (c *CacheStorage) Clear() {
	c.cache.Del(EphemeralKey)
	c.cache.Wait()
}
