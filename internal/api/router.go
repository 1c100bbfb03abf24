package api

import (
	"context"
	"net/http"
	"time"

	"fridge-planner/internal/api/handlers/health"
	"fridge-planner/internal/api/handlers/plan"
	"fridge-planner/internal/api/middleware"
	"fridge-planner/internal/core/cache"
	"fridge-planner/internal/core/recipe"
	"fridge-planner/internal/infrastructure/config"
	"fridge-planner/internal/infrastructure/metrics"
	"fridge-planner/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SetupRouter 設置路由；store 與 m 可為 nil
func SetupRouter(cfg *config.Config, store cache.Store, m *metrics.Metrics) *gin.Engine {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 基礎中間件；requestid 需在 logger 之前
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.New().String()
	})))
	router.Use(middleware.Recovery(cfg.App.Debug))
	router.Use(middleware.Logger(m))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", "X-Plan-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))

	// 注入設定與快取，並設置請求超時
	timeout := cfg.Server.RequestTimeout
	router.Use(func(c *gin.Context) {
		if timeout > 0 {
			ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
			defer cancel()
			c.Request = c.Request.WithContext(ctx)
		}

		c.Set(health.ConfigKey, cfg)
		if store != nil {
			c.Set(health.CacheKey, store)
		}

		c.Next()

		if c.Request.Context().Err() == context.DeadlineExceeded && !c.Writer.Written() {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", requestid.Get(c)),
				zap.Duration("timeout", timeout),
			)
			ce := common.ErrRequestTimeout
			c.AbortWithStatusJSON(http.StatusGatewayTimeout, ce.ToResponse(cfg.App.Debug, requestid.Get(c)))
		}
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)
	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	var recorder recipe.Recorder
	if m != nil {
		recorder = m
	}
	planHandler := plan.NewHandler(cfg, recipe.NewPlanner(recorder), store, m)

	// API 路由組
	api := router.Group("/api/v1")
	{
		planGroup := api.Group("/plan")
		if cfg.RateLimit.Enabled {
			planGroup.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
		}
		if cfg.DedupWindow > 0 {
			planGroup.Use(middleware.Deduplication(cfg.DedupWindow))
		}

		planGroup.POST("", planHandler.HandlePlan)
		planGroup.POST("/csv", planHandler.HandlePlanCSV)
		planGroup.POST("/graph", planHandler.HandleGraph)
	}

	router.NoRoute(func(c *gin.Context) {
		ce := common.ErrNotFound
		c.JSON(ce.Status, ce.ToResponse(false, requestid.Get(c)))
	})

	common.LogInfo("Router setup completed successfully",
		zap.Bool("cache_enabled", store != nil),
		zap.Bool("metrics_enabled", m != nil),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Duration("request_timeout", timeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router
}
