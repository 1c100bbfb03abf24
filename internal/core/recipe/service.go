package recipe

import (
	"errors"
	"time"

	"fridge-planner/internal/core/graph"
	"fridge-planner/internal/core/inventory"
	"fridge-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// Options 單次規劃的參數
type Options struct {
	Policy    ScorePolicy
	Order     graph.NodeOrder
	Favorites []string
}

// Plan 一次規劃的完整結果
type Plan struct {
	ID        string `json:"id"`
	Policy    string `json:"policy"`
	Order     string `json:"order"`
	NumColors int    `json:"num_colors"`

	Items     []inventory.FoodItem `json:"items"`
	Base      []ScoredRecipe       `json:"base_plan"`
	Preferred []ScoredRecipe       `json:"preferred_plan"`
	Matched   int                  `json:"matched"`
	Leftovers []inventory.FoodItem `json:"leftovers"`

	// Condition 非致命的狀態：InsufficientCategoryError 或 ErrNoValidRecipe
	Condition error  `json:"-"`
	Notice    string `json:"notice,omitempty"`

	Graph  *graph.ConflictGraph  `json:"-"`
	Colors graph.ColorAssignment `json:"-"`
}

// Empty 是否沒有任何一道菜
func (p *Plan) Empty() bool {
	return len(p.Base) == 0
}

// Recorder 規劃結果的觀測點
type Recorder interface {
	ObservePlan(policy string, recipes, leftovers int, duration time.Duration)
}

// Planner 組合 建圖 → 著色 → 分組 → 排序 → 偏好 的流程
type Planner struct {
	recorder Recorder
}

// NewPlanner 創建規劃器，recorder 可為 nil
func NewPlanner(recorder Recorder) *Planner {
	return &Planner{recorder: recorder}
}

// Plan 對一份庫存執行完整流程；同一份庫存與參數永遠得到相同結果
func (p *Planner) Plan(inv *inventory.Inventory, opts Options) *Plan {
	start := time.Now()

	policy := opts.Policy
	if policy == "" {
		policy = SumPolicy
	}
	order := opts.Order
	if order == nil {
		order = graph.SequentialOrder{}
	}

	g := graph.BuildConflictGraph(inv)
	colors := graph.GreedyColor(g, order)
	part := PartitionColors(g, colors)
	base := Rank(part.Recipes, policy)

	plan := &Plan{
		ID:        common.GenerateUUID(),
		Policy:    string(policy),
		Order:     order.Name(),
		NumColors: colors.NumColors(),
		Items:     inv.SortedByName(),
		Base:      base,
		Preferred: PreferredOrder(base, opts.Favorites),
		Leftovers: part.Leftovers,
		Graph:     g,
		Colors:    colors,
	}
	plan.Matched = countMatched(base, opts.Favorites)

	switch missing := inv.EmptyCategories(); {
	case len(missing) > 0:
		plan.Condition = &InsufficientCategoryError{Missing: missing}
	case len(base) == 0:
		plan.Condition = ErrNoValidRecipe
	}
	if plan.Condition != nil {
		plan.Notice = plan.Condition.Error()
		common.LogWarn("沒有可推薦的菜",
			zap.String("plan_id", plan.ID),
			zap.String("reason", plan.Notice),
		)
	}

	common.LogDebug("著色完成",
		zap.String("plan_id", plan.ID),
		zap.Int("nodes", g.NodeCount()),
		zap.Int("edges", g.EdgeCount()),
		zap.Int("colors", plan.NumColors),
		zap.Int("recipes", len(base)),
		zap.Int("leftovers", len(part.Leftovers)),
	)

	if p != nil && p.recorder != nil {
		p.recorder.ObservePlan(plan.Policy, len(base), len(part.Leftovers), time.Since(start))
	}
	return plan
}

// IsInsufficient Condition 是否為分類不足
func (p *Plan) IsInsufficient() bool {
	var ie *InsufficientCategoryError
	return errors.As(p.Condition, &ie)
}

func countMatched(plan []ScoredRecipe, favorites []string) int {
	matched, _ := ApplyPreferences(plan, favorites)
	return len(matched)
}
