package services

import (
	"sync"
	"time"
)

// sessionItem 缓存项
type sessionItem struct {
	session   *ArtSession
	expiresAt time.Time
}

// SessionCache holds live editing sessions. Every Get extends the session's
// lifetime by ttl; idle sessions are dropped by a background sweep.
type SessionCache struct {
	mu      sync.RWMutex
	items   map[string]*sessionItem
	maxSize int
	ttl     time.Duration
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

// NewSessionCache 创建会话缓存
func NewSessionCache(maxSize int, ttl time.Duration) *SessionCache {
	if maxSize <= 0 {
		maxSize = 256
	}
	cache := &SessionCache{
		items:   make(map[string]*sessionItem),
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
		stop:    make(chan struct{}),
	}

	// 启动清理协程
	go cache.cleanupLoop()

	return cache
}

// Get 获取会话并刷新过期时间
func (c *SessionCache) Get(id string) (*ArtSession, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[id]
	if !ok {
		return nil, false
	}
	now := c.now()
	if now.After(item.expiresAt) {
		delete(c.items, id)
		return nil, false
	}
	item.expiresAt = now.Add(c.ttl)
	return item.session, true
}

// Put 存入会话，缓存已满时淘汰最早过期的一项
func (c *SessionCache) Put(s *ArtSession) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[s.ID]; !exists && len(c.items) >= c.maxSize {
		c.evictOldest()
	}

	c.items[s.ID] = &sessionItem{
		session:   s,
		expiresAt: c.now().Add(c.ttl),
	}
}

// Delete 删除会话
func (c *SessionCache) Delete(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[id]
	delete(c.items, id)
	return ok
}

// evictOldest 删除最早过期的会话
func (c *SessionCache) evictOldest() {
	var oldestKey string
	var oldestTime time.Time

	for key, item := range c.items {
		if oldestKey == "" || item.expiresAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = item.expiresAt
		}
	}

	if oldestKey != "" {
		delete(c.items, oldestKey)
	}
}

func (c *SessionCache) cleanupLoop() {
	interval := time.Minute
	if c.ttl > 0 && c.ttl < interval {
		interval = c.ttl
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

// cleanup 清理过期会话
func (c *SessionCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, item := range c.items {
		if now.After(item.expiresAt) {
			delete(c.items, key)
		}
	}
}

// Size 获取会话数量
func (c *SessionCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close 停止清理协程
func (c *SessionCache) Close() {
	c.once.Do(func() { close(c.stop) })
}
