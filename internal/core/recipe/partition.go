package recipe

import (
	"fridge-planner/internal/core/graph"
	"fridge-planner/internal/core/inventory"
)

// Candidate 一個顏色類別的原始分組
type Candidate struct {
	Color int
	Items []inventory.FoodItem
}

// Partition 著色結果分成合格的菜與用不到的食材
type Partition struct {
	Candidates []Candidate
	Recipes    []Recipe
	// Leftovers 因分類數量不均而落在不完整顏色類別中的食材
	Leftovers []inventory.FoodItem
}

// Candidates 依顏色遞增建立候選分組（第一階段，不做過濾）
func Candidates(g *graph.ConflictGraph, colors graph.ColorAssignment) []Candidate {
	classes := colors.Classes()
	out := make([]Candidate, 0, len(classes))
	for color, nodes := range classes {
		items := make([]inventory.FoodItem, 0, len(nodes))
		for _, n := range nodes {
			items = append(items, g.Node(n))
		}
		out = append(out, Candidate{Color: color, Items: items})
	}
	return out
}

// PartitionColors 過濾候選分組成新清單（第二階段），只保留一個分類一項的三項組合
func PartitionColors(g *graph.ConflictGraph, colors graph.ColorAssignment) Partition {
	p := Partition{Candidates: Candidates(g, colors)}
	for _, cand := range p.Candidates {
		if r, ok := toRecipe(cand); ok {
			p.Recipes = append(p.Recipes, r)
			continue
		}
		p.Leftovers = append(p.Leftovers, cand.Items...)
	}
	inventory.SortByExpiry(p.Leftovers)
	return p
}

// toRecipe 大小為 3 且三個分類各一項才是合格的菜
func toRecipe(c Candidate) (Recipe, bool) {
	if len(c.Items) != RecipeSize {
		return Recipe{}, false
	}
	items := make([]inventory.FoodItem, RecipeSize)
	filled := make([]bool, RecipeSize)
	for _, item := range c.Items {
		idx := item.Category.Index()
		if idx < 0 || filled[idx] {
			return Recipe{}, false
		}
		items[idx] = item
		filled[idx] = true
	}
	return Recipe{Color: c.Color, Items: items}, true
}
