package graph

import (
	"fridge-planner/internal/core/inventory"
)

// Edge 無向邊，From < To
type Edge struct {
	From int
	To   int
}

// ConflictGraph 同分類食材之間互相衝突的無向圖
type ConflictGraph struct {
	nodes []inventory.FoodItem
	adj   []map[int]struct{}
	edges int
}

// BuildConflictGraph 依 Starch、Meat、Vegetable 順序建立節點，同分類兩兩相連
func BuildConflictGraph(inv *inventory.Inventory) *ConflictGraph {
	g := &ConflictGraph{nodes: inv.All()}
	g.adj = make([]map[int]struct{}, len(g.nodes))
	for i := range g.adj {
		g.adj[i] = make(map[int]struct{})
	}

	for i := range g.nodes {
		for j := i + 1; j < len(g.nodes); j++ {
			if g.nodes[i].Category == g.nodes[j].Category {
				g.addEdge(i, j)
			}
		}
	}
	return g
}

func (g *ConflictGraph) addEdge(i, j int) {
	if i == j {
		return
	}
	if _, ok := g.adj[i][j]; ok {
		return
	}
	g.adj[i][j] = struct{}{}
	g.adj[j][i] = struct{}{}
	g.edges++
}

// NodeCount 節點數
func (g *ConflictGraph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount 邊數
func (g *ConflictGraph) EdgeCount() int {
	return g.edges
}

// Node 取得節點對應的食材
func (g *ConflictGraph) Node(i int) inventory.FoodItem {
	return g.nodes[i]
}

// Adjacent 兩節點是否相鄰
func (g *ConflictGraph) Adjacent(i, j int) bool {
	_, ok := g.adj[i][j]
	return ok
}

// Neighbors 節點的鄰居，遞增排序
func (g *ConflictGraph) Neighbors(i int) []int {
	out := make([]int, 0, len(g.adj[i]))
	for j := range g.nodes {
		if _, ok := g.adj[i][j]; ok {
			out = append(out, j)
		}
	}
	return out
}

// Degree 節點的度數
func (g *ConflictGraph) Degree(i int) int {
	return len(g.adj[i])
}

// Edges 全部邊，依 (From, To) 排序
func (g *ConflictGraph) Edges() []Edge {
	out := make([]Edge, 0, g.edges)
	for i := range g.nodes {
		for j := i + 1; j < len(g.nodes); j++ {
			if g.Adjacent(i, j) {
				out = append(out, Edge{From: i, To: j})
			}
		}
	}
	return out
}

// Cliques 每個非空分類對應的節點集合
func (g *ConflictGraph) Cliques() map[inventory.Category][]int {
	out := make(map[inventory.Category][]int)
	for i, n := range g.nodes {
		out[n.Category] = append(out[n.Category], i)
	}
	return out
}

// IndexOf 依分類與名稱找節點，找不到回傳 -1
func (g *ConflictGraph) IndexOf(cat inventory.Category, name string) int {
	for i, n := range g.nodes {
		if n.Category == cat && n.Name == name {
			return i
		}
	}
	return -1
}
