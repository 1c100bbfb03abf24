package plan

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fridge-planner/internal/core/cache"
	"fridge-planner/internal/core/graph"
	"fridge-planner/internal/core/inventory"
	"fridge-planner/internal/core/recipe"
	"fridge-planner/internal/infrastructure/config"
	"fridge-planner/internal/infrastructure/metrics"
	"fridge-planner/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 菜單規劃處理程序
type Handler struct {
	cfg     *config.Config
	planner *recipe.Planner
	cache   cache.Store
	metrics *metrics.Metrics
}

// NewHandler 創建新的規劃處理程序；store 與 m 可為 nil
func NewHandler(cfg *config.Config, planner *recipe.Planner, store cache.Store, m *metrics.Metrics) *Handler {
	return &Handler{
		cfg:     cfg,
		planner: planner,
		cache:   store,
		metrics: m,
	}
}

// resolved 請求換算後的規劃輸入
type resolved struct {
	inv       *inventory.Inventory
	opts      recipe.Options
	date      time.Time
	seed      int64
	cacheable bool
}

// HandlePlan POST /api/v1/plan
func (h *Handler) HandlePlan(c *gin.Context) {
	requestID := requestid.Get(c)

	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		h.fail(c, common.ErrInvalidRequest.Wrap(err))
		return
	}

	raw, err := parseInventory(req.Inventory)
	if err != nil {
		h.fail(c, common.ErrInvalidRequest.Wrap(err))
		return
	}
	h.respond(c, raw, req)
}

// HandlePlanCSV POST /api/v1/plan/csv，參數由 query 帶入
func (h *Handler) HandlePlanCSV(c *gin.Context) {
	raw, err := inventory.ReadCSV(c.Request.Body)
	if err != nil {
		h.fail(c, common.ErrInvalidRequest.Wrap(err))
		return
	}

	req, err := requestFromQuery(c)
	if err != nil {
		h.fail(c, common.ErrInvalidRequest.Wrap(err))
		return
	}
	h.respond(c, raw, req)
}

// HandleGraph POST /api/v1/plan/graph，回傳 Graphviz DOT
func (h *Handler) HandleGraph(c *gin.Context) {
	var req GraphRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, common.ErrInvalidRequest.Wrap(err))
		return
	}
	kind, err := graph.ParseDOTKind(req.Kind)
	if err != nil {
		h.fail(c, common.ErrInvalidRequest.Wrap(err))
		return
	}
	raw, err := parseInventory(req.Inventory)
	if err != nil {
		h.fail(c, common.ErrInvalidRequest.Wrap(err))
		return
	}
	in, err := h.resolve(raw, req.PlanRequest)
	if err != nil {
		h.fail(c, err)
		return
	}

	plan := h.planner.Plan(in.inv, in.opts)
	var buf bytes.Buffer
	if err := graph.WriteDOT(&buf, plan.Graph, plan.Colors, kind); err != nil {
		h.fail(c, common.ErrInternalError.Wrap(err))
		return
	}
	c.Header("X-Plan-ID", plan.ID)
	c.Data(http.StatusOK, "text/vnd.graphviz; charset=utf-8", buf.Bytes())
}

// respond 執行規劃並回傳，可快取時先查快取
func (h *Handler) respond(c *gin.Context, raw map[inventory.Category][]string, req PlanRequest) {
	requestID := requestid.Get(c)
	ctx := c.Request.Context()

	in, err := h.resolve(raw, req)
	if err != nil {
		h.fail(c, err)
		return
	}

	var key string
	if in.cacheable && h.cache != nil {
		key = h.cacheKey(in)
		if resp, ok := h.lookup(ctx, key); ok {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	plan := h.planner.Plan(in.inv, in.opts)

	resp := PlanResponse{
		Plan:          plan,
		ReferenceDate: in.date.Format(inventory.DateLayout),
	}

	if key != "" {
		h.store(ctx, key, resp)
	}

	common.LogInfo("菜單規劃完成",
		zap.String("request_id", requestID),
		zap.String("plan_id", plan.ID),
		zap.Int("recipes", len(plan.Base)),
		zap.Int("matched", plan.Matched),
		zap.Int("leftovers", len(plan.Leftovers)),
	)
	c.JSON(http.StatusOK, resp)
}

// resolve 合併請求與設定預設值並載入庫存
func (h *Handler) resolve(raw map[inventory.Category][]string, req PlanRequest) (*resolved, error) {
	merged := h.cfg.Planner
	if req.Date != "" {
		merged.ReferenceDate = req.Date
	}
	if req.SkipMalformed {
		merged.MissingPolicy = "skip"
	}
	if req.Policy != "" {
		merged.Policy = req.Policy
	}
	if req.Order != "" {
		merged.Order = req.Order
	}
	if req.Seed != 0 {
		merged.Seed = req.Seed
	}

	loader, err := merged.Loader()
	if err != nil {
		return nil, common.ErrInvalidRequest.Wrap(err)
	}
	opts, err := merged.Options(req.Favorites)
	if err != nil {
		return nil, common.ErrInvalidRequest.Wrap(err)
	}

	inv, err := loader.Load(raw)
	if err != nil {
		if inventory.IsMalformedRecord(err) {
			return nil, common.ErrMalformedRecord.Wrap(err)
		}
		return nil, common.ErrInvalidRequest.Wrap(err)
	}

	_, shuffled := opts.Order.(graph.ShuffledOrder)
	return &resolved{
		inv:       inv,
		opts:      opts,
		date:      loader.Today,
		seed:      merged.Seed,
		cacheable: !shuffled || merged.Seed != 0,
	}, nil
}

func (h *Handler) cacheKey(in *resolved) string {
	data, _ := json.Marshal(cacheKeyInput{
		Items:     in.inv.Resolved(),
		Date:      in.date.Format(inventory.DateLayout),
		Policy:    string(in.opts.Policy),
		Order:     in.opts.Order.Name(),
		Seed:      in.seed,
		Favorites: in.opts.Favorites,
	})
	return cache.GenerateKey("plan", data)
}

func (h *Handler) lookup(ctx context.Context, key string) (PlanResponse, bool) {
	data, err := h.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, common.ErrCacheMiss) || errors.Is(err, common.ErrCacheDisabled) {
			h.metrics.ObserveCache("miss")
		} else {
			h.metrics.ObserveCache("error")
			common.LogWarn("快取讀取失敗", zap.Error(err))
		}
		return PlanResponse{}, false
	}

	var resp PlanResponse
	if err := common.ParseJSONBytes(data, &resp); err != nil {
		h.metrics.ObserveCache("error")
		common.LogWarn("快取內容無法解析", zap.Error(err))
		return PlanResponse{}, false
	}
	h.metrics.ObserveCache("hit")
	resp.Cached = true
	return resp, true
}

func (h *Handler) store(ctx context.Context, key string, resp PlanResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		common.LogWarn("規劃結果無法序列化", zap.Error(err))
		return
	}
	if err := h.cache.Set(ctx, key, data); err != nil {
		common.LogWarn("快取寫入失敗", zap.Error(err))
	}
}

// fail 統一的錯誤回應
func (h *Handler) fail(c *gin.Context, err error) {
	ce, tooLarge := common.AsBodyTooLarge(err)
	if !tooLarge {
		ce = common.AsCustomError(err)
	}
	if ce.Status >= http.StatusInternalServerError {
		common.LogError("請求處理失敗",
			zap.Error(err),
			zap.String("request_id", requestid.Get(c)),
		)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(ce.Status, ce.ToResponse(h.cfg.App.Debug, requestid.Get(c)))
}

// parseInventory 將分類名稱換成 Category，接受 "Starches" 等寫法；同一分類只能出現一次
func parseInventory(in map[string][]string) (map[inventory.Category][]string, error) {
	out := make(map[inventory.Category][]string, len(in))
	for name, records := range in {
		cat, err := inventory.ParseCategory(name)
		if err != nil {
			return nil, err
		}
		if _, dup := out[cat]; dup {
			return nil, fmt.Errorf("duplicate key for category %s", cat)
		}
		out[cat] = records
	}
	return out, nil
}

// requestFromQuery 讀取 CSV 端點的 query 參數
func requestFromQuery(c *gin.Context) (PlanRequest, error) {
	req := PlanRequest{
		Favorites: common.SplitList(c.Query("favorites")),
		Policy:    c.Query("policy"),
		Order:     c.Query("order"),
		Date:      c.Query("date"),
	}
	if raw := strings.TrimSpace(c.Query("seed")); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return req, common.NewValidationError("seed must be an integer")
		}
		req.Seed = seed
	}
	if raw := c.Query("skip_malformed"); raw != "" {
		skip, err := strconv.ParseBool(raw)
		if err != nil {
			return req, common.NewValidationError("skip_malformed must be a boolean")
		}
		req.SkipMalformed = skip
	}
	return req, nil
}
