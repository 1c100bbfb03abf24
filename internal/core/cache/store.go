package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"fridge-planner/internal/infrastructure/config"
)

// Store 規劃結果的快取後端
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	GetStats() map[string]interface{}
	Close() error
}

// NewStore 依設定選擇後端；快取關閉時回傳 nil
func NewStore(ctx context.Context, cfg *config.CacheConfig) (Store, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}
	switch cfg.Backend {
	case config.BackendRedis:
		return NewService(ctx, cfg)
	case config.BackendMemory, "":
		return NewManager(cfg), nil
	}
	return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
}

// GenerateKey 由正規化後的請求內容計算快取鍵
func GenerateKey(kind string, normalized []byte) string {
	hash := sha256.Sum256(normalized)
	return kind + ":" + hex.EncodeToString(hash[:])
}
