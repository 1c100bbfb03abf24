package graph

// ColorAssignment 節點索引 → 顏色編號
type ColorAssignment []int

// Uncolored 尚未著色
const Uncolored = -1

// GreedyColor 依 order 走訪節點，每個節點取鄰居未使用的最小顏色
func GreedyColor(g *ConflictGraph, order NodeOrder) ColorAssignment {
	if order == nil {
		order = SequentialOrder{}
	}

	colors := make(ColorAssignment, g.NodeCount())
	for i := range colors {
		colors[i] = Uncolored
	}

	for _, node := range order.Order(g) {
		used := make(map[int]bool, g.Degree(node))
		for _, nb := range g.Neighbors(node) {
			if colors[nb] != Uncolored {
				used[colors[nb]] = true
			}
		}
		c := 0
		for used[c] {
			c++
		}
		colors[node] = c
	}
	return colors
}

// NumColors 使用到的顏色數
func (c ColorAssignment) NumColors() int {
	highest := -1
	for _, color := range c {
		if color > highest {
			highest = color
		}
	}
	return highest + 1
}

// Classes 依顏色分組的節點，外層依顏色遞增，內層依節點索引遞增
func (c ColorAssignment) Classes() [][]int {
	classes := make([][]int, c.NumColors())
	for node, color := range c {
		if color == Uncolored {
			continue
		}
		classes[color] = append(classes[color], node)
	}
	return classes
}

// Proper 檢查相鄰節點是否都不同色
func (c ColorAssignment) Proper(g *ConflictGraph) bool {
	for _, e := range g.Edges() {
		if c[e.From] == c[e.To] {
			return false
		}
	}
	return true
}
