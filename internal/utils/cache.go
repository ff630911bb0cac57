package utils

import (
	"log"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// cacheEntry 缓存值加过期时间
type cacheEntry struct {
	data      interface{}
	expiresAt time.Time
}

// Cache 进程内 TTL 缓存，缓存动态流这类热点响应
type Cache struct {
	lruCache *lru.Cache[string, cacheEntry]
}

var (
	cacheInstance *Cache
	cacheOnce     sync.Once
)

// GetCache 获取单例缓存实例
func GetCache() *Cache {
	cacheOnce.Do(func() {
		// 热点键只有动态流和投票列表这几个，128 足够
		l, err := lru.New[string, cacheEntry](128)
		if err != nil {
			log.Fatalf("Failed to create LRU cache: %v", err)
		}
		cacheInstance = &Cache{lruCache: l}
	})
	return cacheInstance
}

// Set 写入缓存，TTL 为过期时长
func (c *Cache) Set(key string, data interface{}, ttl time.Duration) {
	c.lruCache.Add(key, cacheEntry{
		data:      data,
		expiresAt: time.Now().Add(ttl),
	})
}

// Get 读取缓存，不存在或已过期返回 nil
func (c *Cache) Get(key string) interface{} {
	entry, ok := c.lruCache.Get(key)
	if !ok {
		return nil
	}
	if time.Now().After(entry.expiresAt) {
		c.lruCache.Remove(key)
		return nil
	}
	return entry.data
}

// Delete 删除指定键
func (c *Cache) Delete(key string) {
	c.lruCache.Remove(key)
}
