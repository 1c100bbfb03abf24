package health

import (
	"errors"
	"net/http"
	"runtime"
	"time"

	"fridge-planner/internal/core/cache"
	"fridge-planner/internal/infrastructure/config"
	"fridge-planner/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 注入到 gin.Context 的鍵
const (
	ConfigKey = "config"
	CacheKey  = "plan_cache"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Planner   PlannerStatus          `json:"planner"`
	Runtime   map[string]interface{} `json:"runtime"`
	Cache     map[string]interface{} `json:"cache"`
}

// PlannerStatus 目前生效的規劃預設值
type PlannerStatus struct {
	Policy        string `json:"policy"`
	Order         string `json:"order"`
	ReferenceDate string `json:"reference_date,omitempty"`
	MissingPolicy string `json:"missing_policy"`
}

// HealthCheck 健康檢查處理器
func HealthCheck(c *gin.Context) {
	cfg, ok := configFrom(c)
	if !ok {
		common.LogError("Configuration not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Configuration not found",
		})
		return
	}

	// 獲取運行時信息
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   cfg.App.Version,
		Planner: PlannerStatus{
			Policy:        cfg.Planner.Policy,
			Order:         cfg.Planner.Order,
			ReferenceDate: cfg.Planner.ReferenceDate,
			MissingPolicy: cfg.Planner.MissingPolicy,
		},
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
		Cache: map[string]interface{}{"enabled": false},
	}
	if store, ok := cacheFrom(c); ok {
		response.Cache = store.GetStats()
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查處理器：設定已注入且快取（若啟用）可用
func ReadinessCheck(c *gin.Context) {
	cfg, ok := configFrom(c)
	if !ok {
		notReady(c, "configuration not loaded")
		return
	}
	if cfg.Cache.Enabled {
		if _, ok := cacheFrom(c); !ok {
			notReady(c, "cache not initialised")
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

func notReady(c *gin.Context, reason string) {
	ce := common.ErrServiceUnavailable.Wrap(errors.New(reason))
	c.JSON(ce.Status, ce.ToResponse(true, requestid.Get(c)))
}

func configFrom(c *gin.Context) (*config.Config, bool) {
	v, exists := c.Get(ConfigKey)
	if !exists {
		return nil, false
	}
	cfg, ok := v.(*config.Config)
	return cfg, ok && cfg != nil
}

func cacheFrom(c *gin.Context) (cache.Store, bool) {
	v, exists := c.Get(CacheKey)
	if !exists || v == nil {
		return nil, false
	}
	store, ok := v.(cache.Store)
	return store, ok
}
