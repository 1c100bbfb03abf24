package inventory

import (
	"fmt"
	"sort"
	"strings"
)

// Category 食材分類，固定三種
type Category string

const (
	Starch    Category = "starch"
	Meat      Category = "meat"
	Vegetable Category = "vegetable"
)

// Categories 依規劃順序排列的全部分類
var Categories = []Category{Starch, Meat, Vegetable}

// ParseCategory 解析分類名稱，接受單複數與任意大小寫（如 "Starches"）
func ParseCategory(raw string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "starch", "starches":
		return Starch, nil
	case "meat", "meats":
		return Meat, nil
	case "vegetable", "vegetables", "veg", "veggies":
		return Vegetable, nil
	}
	return "", fmt.Errorf("unknown category %q", raw)
}

// Title 顯示用名稱
func (c Category) Title() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// Index 分類在 Categories 中的位置，未知分類回傳 -1
func (c Category) Index() int {
	for i, cat := range Categories {
		if cat == c {
			return i
		}
	}
	return -1
}

// FoodItem 冰箱中的一項食材
type FoodItem struct {
	Name          string   `json:"name"`
	Category      Category `json:"category"`
	RemainingDays int      `json:"remaining_days"`
}

// Key 食材在整個庫存中的識別，不同分類的同名食材視為不同節點
func (f FoodItem) Key() string {
	return string(f.Category) + "/" + f.Name
}

// Expired 是否已過期
func (f FoodItem) Expired() bool {
	return f.RemainingDays < 0
}

// NamedDays 已換算好的 (名稱, 剩餘天數)
type NamedDays struct {
	Name string `json:"name"`
	Days int    `json:"days"`
}

// Inventory 依分類分組的食材庫存，建立後唯讀
type Inventory struct {
	byCategory map[Category][]FoodItem
}

// New 建立空庫存
func New() *Inventory {
	return &Inventory{byCategory: make(map[Category][]FoodItem, len(Categories))}
}

// FromDays 由已換算的剩餘天數建立庫存，同分類重複名稱以後者的天數為準
func FromDays(items map[Category][]NamedDays) (*Inventory, error) {
	inv := New()
	for cat, list := range items {
		if cat.Index() < 0 {
			return nil, fmt.Errorf("unknown category %q", cat)
		}
		for _, nd := range list {
			name := strings.TrimSpace(nd.Name)
			if name == "" {
				continue
			}
			inv.put(FoodItem{Name: name, Category: cat, RemainingDays: nd.Days})
		}
	}
	return inv, nil
}

// put 加入食材；同分類同名時保留原位置、更新天數，回傳是否覆蓋
func (inv *Inventory) put(item FoodItem) bool {
	list := inv.byCategory[item.Category]
	for i := range list {
		if list[i].Name == item.Name {
			list[i].RemainingDays = item.RemainingDays
			return true
		}
	}
	inv.byCategory[item.Category] = append(list, item)
	return false
}

// Items 回傳某分類的食材，保持輸入順序
func (inv *Inventory) Items(c Category) []FoodItem {
	list := inv.byCategory[c]
	out := make([]FoodItem, len(list))
	copy(out, list)
	return out
}

// Count 某分類的食材數量
func (inv *Inventory) Count(c Category) int {
	return len(inv.byCategory[c])
}

// Len 全部食材數量
func (inv *Inventory) Len() int {
	n := 0
	for _, c := range Categories {
		n += len(inv.byCategory[c])
	}
	return n
}

// All 依 Starch、Meat、Vegetable 串接的全部食材
func (inv *Inventory) All() []FoodItem {
	out := make([]FoodItem, 0, inv.Len())
	for _, c := range Categories {
		out = append(out, inv.byCategory[c]...)
	}
	return out
}

// EmptyCategories 沒有任何食材的分類
func (inv *Inventory) EmptyCategories() []Category {
	var empty []Category
	for _, c := range Categories {
		if len(inv.byCategory[c]) == 0 {
			empty = append(empty, c)
		}
	}
	return empty
}

// Days 以分類取得 名稱→剩餘天數 對照
func (inv *Inventory) Days() map[Category]map[string]int {
	out := make(map[Category]map[string]int, len(Categories))
	for _, c := range Categories {
		m := make(map[string]int, len(inv.byCategory[c]))
		for _, item := range inv.byCategory[c] {
			m[item.Name] = item.RemainingDays
		}
		out[c] = m
	}
	return out
}

// Resolved 輸出核心輸入格式，順序穩定
func (inv *Inventory) Resolved() map[Category][]NamedDays {
	out := make(map[Category][]NamedDays, len(Categories))
	for _, c := range Categories {
		list := make([]NamedDays, 0, len(inv.byCategory[c]))
		for _, item := range inv.byCategory[c] {
			list = append(list, NamedDays{Name: item.Name, Days: item.RemainingDays})
		}
		out[c] = list
	}
	return out
}

// SortedByName 依名稱排序的平面清單（顯示用）
func (inv *Inventory) SortedByName() []FoodItem {
	out := inv.All()
	SortByName(out)
	return out
}

// SortByName 就地依名稱排序，同名依分類順序
func SortByName(items []FoodItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].Category.Index() < items[j].Category.Index()
	})
}

// SortedByExpiry 最快過期者優先，同天數依名稱
func (inv *Inventory) SortedByExpiry() []FoodItem {
	out := inv.All()
	SortByExpiry(out)
	return out
}

// SortByExpiry 就地依剩餘天數排序
func SortByExpiry(items []FoodItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].RemainingDays != items[j].RemainingDays {
			return items[i].RemainingDays < items[j].RemainingDays
		}
		return items[i].Name < items[j].Name
	})
}
