package plan

import (
	"fridge-planner/internal/core/inventory"
	"fridge-planner/internal/core/recipe"
)

// PlanRequest 規劃請求；Inventory 以分類名稱為鍵，值為 "<name> (<YYYY-MM-DD>)" 紀錄
type PlanRequest struct {
	Inventory     map[string][]string `json:"inventory" binding:"required"`
	Favorites     []string            `json:"favorites,omitempty"`
	Policy        string              `json:"policy,omitempty"`         // sum | min
	Order         string              `json:"order,omitempty"`          // sequential | shuffled
	Seed          int64               `json:"seed,omitempty"`           // shuffled 的亂數種子
	Date          string              `json:"date,omitempty"`           // 剩餘天數的基準日
	SkipMalformed bool                `json:"skip_malformed,omitempty"` // 略過格式錯誤的紀錄
}

// GraphRequest 圖形輸出請求
type GraphRequest struct {
	PlanRequest
	Kind string `json:"kind,omitempty"` // conflict | meals
}

// PlanResponse 規劃結果
type PlanResponse struct {
	*recipe.Plan
	ReferenceDate string `json:"reference_date"`
	Cached        bool   `json:"cached"`
}

// cacheKeyInput 快取鍵的正規化內容
type cacheKeyInput struct {
	Items     map[inventory.Category][]inventory.NamedDays `json:"items"`
	Date      string                                       `json:"date"`
	Policy    string                                       `json:"policy"`
	Order     string                                       `json:"order"`
	Seed      int64                                        `json:"seed"`
	Favorites []string                                     `json:"favorites"`
}
