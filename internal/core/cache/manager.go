package cache

import (
	"context"
	"sync/atomic"

	"fridge-planner/internal/infrastructure/config"
	"fridge-planner/internal/pkg/common"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

// CacheManager 行程內的緩存管理器，容量與存活時間由設定決定
type CacheManager struct {
	config *config.CacheConfig
	store  *expirable.LRU[string, []byte]
	stats  cacheStats
}

// cacheStats 緩存統計
type cacheStats struct {
	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// NewManager 創建新的緩存管理器；快取關閉時回傳 nil
func NewManager(cfg *config.CacheConfig) *CacheManager {
	if cfg == nil || !cfg.Enabled {
		common.LogInfo("Cache disabled")
		return nil
	}

	m := &CacheManager{config: cfg}
	m.store = expirable.NewLRU[string, []byte](cfg.MaxSize, func(key string, _ []byte) {
		m.stats.evictions.Add(1)
	}, cfg.TTL)

	common.LogInfo("快取管理員已初始化",
		zap.Int("最大容量", cfg.MaxSize),
		zap.Duration("存活時間", cfg.TTL),
	)
	return m
}

// Get 獲取緩存值
func (m *CacheManager) Get(ctx context.Context, key string) ([]byte, error) {
	if m == nil {
		return nil, common.ErrCacheDisabled
	}
	if value, ok := m.store.Get(key); ok {
		m.stats.hits.Add(1)
		common.LogCacheHit("memory", key)
		return value, nil
	}
	m.stats.misses.Add(1)
	common.LogCacheMiss("memory", key)
	return nil, common.ErrCacheMiss
}

// Set 設置緩存值
func (m *CacheManager) Set(ctx context.Context, key string, value []byte) error {
	if m == nil {
		return nil
	}
	m.store.Add(key, value)
	common.LogDebug("快取已儲存", zap.String("鍵", key))
	return nil
}

// Len 目前的條目數
func (m *CacheManager) Len() int {
	if m == nil {
		return 0
	}
	return m.store.Len()
}

// GetStats 獲取緩存統計信息
func (m *CacheManager) GetStats() map[string]interface{} {
	if m == nil {
		return map[string]interface{}{"enabled": false}
	}
	hits, misses := m.stats.hits.Load(), m.stats.misses.Load()
	ratio := 0.0
	if hits+misses > 0 {
		ratio = float64(hits) / float64(hits+misses)
	}
	return map[string]interface{}{
		"enabled":   true,
		"backend":   config.BackendMemory,
		"size":      m.store.Len(),
		"max_size":  m.config.MaxSize,
		"hits":      hits,
		"misses":    misses,
		"evictions": m.stats.evictions.Load(),
		"hit_ratio": ratio,
	}
}

// Close 關閉緩存管理器
func (m *CacheManager) Close() error {
	if m == nil {
		return nil
	}
	m.store.Purge()
	common.LogInfo("快取管理員已關閉",
		zap.Int64("命中次數", m.stats.hits.Load()),
		zap.Int64("未命中次數", m.stats.misses.Load()),
		zap.Int64("淘汰次數", m.stats.evictions.Load()),
	)
	return nil
}
