package cache

import (
	"context"
	"errors"
	"fmt"

	"fridge-planner/internal/infrastructure/config"
	"fridge-planner/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// keyPrefix redis 中所有規劃結果的前綴
const keyPrefix = "mealplan:"

// Service Redis 緩存服務
type Service struct {
	client *redis.Client
	config *config.CacheConfig
}

// NewService 創建緩存服務並測試連線
func NewService(ctx context.Context, cfg *config.CacheConfig) (*Service, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	return newService(ctx, client, cfg)
}

func newService(ctx context.Context, client *redis.Client, cfg *config.CacheConfig) (*Service, error) {
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	common.LogInfo("Redis 快取已連線",
		zap.String("addr", cfg.RedisAddr),
		zap.Int("db", cfg.RedisDB),
		zap.Duration("存活時間", cfg.TTL),
	)
	return &Service{client: client, config: cfg}, nil
}

// Get 獲取緩存
func (s *Service) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			common.LogCacheMiss("redis", key)
			return nil, common.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get cache: %w", err)
	}
	common.LogCacheHit("redis", key)
	return data, nil
}

// Set 設置緩存
func (s *Service) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, keyPrefix+key, value, s.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// GetStats 連線池統計
func (s *Service) GetStats() map[string]interface{} {
	ps := s.client.PoolStats()
	return map[string]interface{}{
		"enabled":     true,
		"backend":     config.BackendRedis,
		"hits":        ps.Hits,
		"misses":      ps.Misses,
		"timeouts":    ps.Timeouts,
		"total_conns": ps.TotalConns,
		"idle_conns":  ps.IdleConns,
	}
}

// Close 關閉連線
func (s *Service) Close() error {
	return s.client.Close()
}
