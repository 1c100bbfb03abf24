package recipe

import (
	"errors"
	"fmt"
	"strings"

	"fridge-planner/internal/core/inventory"
)

// RecipeSize 每道菜固定一個 Starch、一個 Meat、一個 Vegetable
const RecipeSize = 3

// Recipe 一道菜：每個分類恰好一項食材，依分類順序排列
type Recipe struct {
	Color int                  `json:"color"`
	Items []inventory.FoodItem `json:"items"`
}

// Label 菜名：三項食材名稱依分類順序以空白串接
func (r Recipe) Label() string {
	names := make([]string, len(r.Items))
	for i, item := range r.Items {
		names[i] = item.Name
	}
	return strings.Join(names, " ")
}

// Names 食材名稱清單
func (r Recipe) Names() []string {
	names := make([]string, len(r.Items))
	for i, item := range r.Items {
		names[i] = item.Name
	}
	return names
}

// ScoredRecipe 排序後的菜與其急迫分數
type ScoredRecipe struct {
	Day    int    `json:"day"`
	Label  string `json:"label"`
	Score  int    `json:"score"`
	Recipe Recipe `json:"recipe"`
}

// DayLabel "Day N"
func (s ScoredRecipe) DayLabel() string {
	return fmt.Sprintf("Day %d", s.Day)
}

// String "Day N: Recipe with a, b, c"
func (s ScoredRecipe) String() string {
	return fmt.Sprintf("%s: Recipe with %s", s.DayLabel(), strings.Join(s.Recipe.Names(), ", "))
}

// ErrNoValidRecipe 著色後沒有任何大小為 3 的顏色類別；屬於正常的空結果
var ErrNoValidRecipe = errors.New("no valid recipe: no colour class holds one item of every category")

// InsufficientCategoryError 有分類沒有任何食材，無法組成任何一道菜
type InsufficientCategoryError struct {
	Missing []inventory.Category
}

func (e *InsufficientCategoryError) Error() string {
	names := make([]string, len(e.Missing))
	for i, c := range e.Missing {
		names[i] = c.Title()
	}
	return fmt.Sprintf("insufficient inventory: no items in %s", strings.Join(names, ", "))
}

// Is 讓 errors.Is(err, ErrNoValidRecipe) 對分類不足也成立
func (e *InsufficientCategoryError) Is(target error) bool {
	return target == ErrNoValidRecipe
}
